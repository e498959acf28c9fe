// Package genesis maintains the fixed values used to start every chain.
package genesis

import "github.com/rybka/fishledger/foundation/blockchain/hashing"

// Genesis represents the values every node starts its chain with. Nodes with
// different genesis values can't agree on a chain.
type Genesis struct {
	PreviousHash string         `json:"previous_hash"` // Sentinel stamped into the first block in place of a hash.
	Proof        uint64         `json:"proof"`         // Proof of the first block, the base of the first puzzle.
	MiningReward hashing.Number `json:"mining_reward"` // Amount credited to a node for mining a block.
	RewardFish   string         `json:"reward_fish"`   // Fish recorded on the mining credit.
	RewardAngler string         `json:"reward_angler"` // Angler recorded on the mining credit.
}

// =============================================================================

// Default returns the genesis values of the network. The mining reward is
// the integer 1, which is how every node records and hashes it.
func Default() Genesis {
	return Genesis{
		PreviousHash: "rybka",
		Proof:        100,
		MiningReward: hashing.Int(1),
		RewardFish:   "karas",
		RewardAngler: "0",
	}
}
