package database

import (
	"encoding/json"
	"time"

	"github.com/rybka/fishledger/foundation/blockchain/hashing"
)

// Block represents a group of transactions sealed together and linked to
// the block before it.
type Block struct {
	Index        uint64         `json:"index"`         // Position in the chain, the genesis block is 1.
	Timestamp    hashing.Number `json:"timestamp"`     // Seconds since the epoch when the block was sealed, always a float.
	Transactions []Tx           `json:"transactions"`  // Transactions sealed into this block.
	Proof        uint64         `json:"proof"`         // Solution to the puzzle seeded by the previous proof.
	PreviousHash string         `json:"previous_hash"` // Hash of the previous block.
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	return hashing.Hash(b)
}

// Fields implements the hashing.Fielder interface.
func (b Block) Fields() map[string]any {
	trans := make([]any, len(b.Transactions))
	for i, tx := range b.Transactions {
		trans[i] = tx.Fields()
	}

	return map[string]any{
		"index":         b.Index,
		"timestamp":     b.Timestamp,
		"transactions":  trans,
		"proof":         b.Proof,
		"previous_hash": b.PreviousHash,
	}
}

// MarshalJSON makes sure an empty set of transactions is written as an
// array and not null.
func (b Block) MarshalJSON() ([]byte, error) {
	type block Block

	blk := block(b)
	if blk.Transactions == nil {
		blk.Transactions = []Tx{}
	}

	return json.Marshal(blk)
}

// =============================================================================

// now returns the wall clock time in fractional seconds.
func now() hashing.Number {
	return hashing.Float(float64(time.Now().UnixMicro()) / 1e6)
}
