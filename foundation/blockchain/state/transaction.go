package state

import (
	"github.com/rybka/fishledger/foundation/blockchain/database"
	"github.com/rybka/fishledger/foundation/blockchain/hashing"
)

// NewTransaction adds a catch to the mempool and returns the index of the
// block it is expected to be sealed into. The index is advisory since
// anything in the mempool when the next block is sealed goes into it.
// Weights are recorded as floats.
func (s *State) NewTransaction(angler string, fishery string, fish string, amount float64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := database.NewTx(angler, fishery, fish, hashing.Float(amount))
	n := s.mempool.Add(tx)

	s.evHandler("state: NewTransaction: tx[%s]: mempool[%d]", tx, n)

	return s.latestBlock().Index + 1
}
