package state

import (
	"context"
	"errors"

	"github.com/rybka/fishledger/foundation/blockchain/database"
	"github.com/rybka/fishledger/foundation/blockchain/pow"
)

// ErrChainChanged is returned when the head of the chain moved while a
// proof was being searched for, which makes the proof stale.
var ErrChainChanged = errors.New("chain head changed during mining")

// =============================================================================

// NewBlock seals everything in the mempool into a new block with the
// specified proof. When previousHash is empty the hash of the latest block
// is used.
func (s *State) NewBlock(proof uint64, previousHash string) database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sealBlock(proof, previousHash)
}

// ProofOfWork returns the proof that solves the puzzle for the specified
// previous proof.
func (s *State) ProofOfWork(lastProof uint64) uint64 {
	return pow.ProofOfWork(lastProof)
}

// MineNewBlock solves the puzzle for the latest block and seals the mempool,
// plus the mining credit for this node, into the next block. The search runs
// without holding the lock and can be cancelled through the context.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	latest := s.RetrieveLatestBlock()
	latestHash := latest.Hash()

	s.evHandler("state: MineNewBlock: MINING: perform POW: blk[%d]", latest.Index)

	proof, err := pow.Search(ctx, latest.Proof, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A peer chain could have replaced ours during the search.
	if s.latestBlock().Hash() != latestHash {
		s.evHandler("state: MineNewBlock: MINING: head changed: blk[%d]: dropping proof", latest.Index)
		return database.Block{}, ErrChainChanged
	}

	s.evHandler("state: MineNewBlock: MINING: apply mining reward")

	reward := database.NewTx(s.genesis.RewardAngler, s.nodeID, s.genesis.RewardFish, s.genesis.MiningReward)
	s.mempool.Add(reward)

	return s.sealBlock(proof, latestHash), nil
}

// =============================================================================

// sealBlock drains the mempool into a new block. The caller must hold
// the lock.
func (s *State) sealBlock(proof uint64, previousHash string) database.Block {
	trans := s.mempool.Drain()
	block := s.db.NewBlock(proof, previousHash, trans)

	s.evHandler("state: sealBlock: blk[%d]: txs[%d]: proof[%d]: hash[%s]", block.Index, len(block.Transactions), block.Proof, block.Hash())

	return block
}
