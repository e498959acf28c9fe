package state

import (
	"context"

	"github.com/rybka/fishledger/foundation/blockchain/database"
	"github.com/rybka/fishledger/foundation/blockchain/peer"
)

// RegisterNode adds the host of the specified address to the set of known
// peers. Registering the same host twice has no effect.
func (s *State) RegisterNode(address string) error {
	host, err := peer.Normalize(address)
	if err != nil {
		return err
	}

	if s.knownPeers.Add(peer.New(host)) {
		s.evHandler("state: RegisterNode: adding peer-node %s", host)
	}

	return nil
}

// ResolveConflicts asks every known peer for its chain and replaces the
// local chain with the longest valid one that is strictly longer than what
// is held locally. A peer that can't be reached is skipped. The error is
// only non-nil when the context is cancelled.
func (s *State) ResolveConflicts(ctx context.Context) (bool, error) {
	s.evHandler("state: ResolveConflicts: started")
	defer s.evHandler("state: ResolveConflicts: completed")

	var candidate []database.Block
	maxLength := s.RetrieveChainLength()

	for _, pr := range s.RetrieveKnownPeers() {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		blocks, err := s.fetchChain(ctx, pr)
		if err != nil {
			s.evHandler("state: ResolveConflicts: peer[%s]: WARNING: %s", pr, err)
			continue
		}

		length := len(blocks)
		if length <= maxLength {
			s.evHandler("state: ResolveConflicts: peer[%s]: length[%d]: not longer than[%d]", pr, length, maxLength)
			continue
		}

		if err := database.ValidateChain(blocks); err != nil {
			s.evHandler("state: ResolveConflicts: peer[%s]: length[%d]: WARNING: %s", pr, length, err)
			continue
		}

		s.evHandler("state: ResolveConflicts: peer[%s]: length[%d]: new candidate", pr, length)

		maxLength = length
		candidate = blocks
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	if candidate == nil {
		s.evHandler("state: ResolveConflicts: our chain is authoritative")
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The local chain could have grown while peers were queried.
	if s.db.Len() >= len(candidate) {
		s.evHandler("state: ResolveConflicts: local chain grew to[%d]: keeping it", s.db.Len())
		return false, nil
	}

	// If a mining operation is running against the chain being replaced,
	// it needs to stop. The search doesn't hold the lock and the signal
	// doesn't block.
	if s.Worker != nil {
		s.Worker.SignalCancelMining()
	}

	s.db.Replace(candidate)
	s.evHandler("state: ResolveConflicts: chain replaced: length[%d]: head[%s]", len(candidate), s.latestBlock().Hash())

	return true, nil
}

// =============================================================================

// fetchChain asks a single peer for its chain, bounded by the peer timeout.
func (s *State) fetchChain(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	return s.fetcher.FetchChain(ctx, pr)
}
