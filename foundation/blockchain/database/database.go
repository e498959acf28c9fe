// Package database maintains the in memory chain of blocks and the rules for
// validating a chain.
package database

import (
	"errors"

	"github.com/rybka/fishledger/foundation/blockchain/genesis"
)

// ErrEmptyChain is returned when the latest block is requested before the
// genesis block exists.
var ErrEmptyChain = errors.New("chain has no blocks")

// =============================================================================

// Database manages the ordered set of blocks for a node. It is not safe for
// concurrent use, callers must provide their own locking.
type Database struct {
	genesis genesis.Genesis
	blocks  []Block
}

// New constructs a new database and seals the genesis block.
func New(gen genesis.Genesis) *Database {
	db := Database{
		genesis: gen,
	}

	db.NewBlock(gen.Proof, gen.PreviousHash, nil)

	return &db
}

// Genesis returns the genesis values used by this database.
func (db *Database) Genesis() genesis.Genesis {
	return db.genesis
}

// NewBlock seals the transactions into a new block and appends it to the
// chain. If previousHash is empty, the hash of the latest block is used.
func (db *Database) NewBlock(proof uint64, previousHash string, trans []Tx) Block {
	if previousHash == "" {
		latest, err := db.LatestBlock()
		if err != nil {
			panic(err)
		}
		previousHash = latest.Hash()
	}

	if trans == nil {
		trans = []Tx{}
	}

	block := Block{
		Index:        uint64(len(db.blocks)) + 1,
		Timestamp:    now(),
		Transactions: trans,
		Proof:        proof,
		PreviousHash: previousHash,
	}

	db.blocks = append(db.blocks, block)

	return block
}

// LatestBlock returns the most recently appended block.
func (db *Database) LatestBlock() (Block, error) {
	if len(db.blocks) == 0 {
		return Block{}, ErrEmptyChain
	}

	return db.blocks[len(db.blocks)-1], nil
}

// Len returns the number of blocks in the chain.
func (db *Database) Len() int {
	return len(db.blocks)
}

// Copy returns a copy of the chain.
func (db *Database) Copy() []Block {
	return copyBlocks(db.blocks)
}

// Replace swaps the whole chain for the specified set of blocks. The
// blocks must be validated before calling Replace.
func (db *Database) Replace(blocks []Block) {
	db.blocks = copyBlocks(blocks)
}

// =============================================================================

// copyBlocks performs a deep copy so callers can't change the chain
// through a shared transaction slice.
func copyBlocks(blocks []Block) []Block {
	cpy := make([]Block, len(blocks))
	for i, block := range blocks {
		trans := make([]Tx, len(block.Transactions))
		copy(trans, block.Transactions)

		block.Transactions = trans
		cpy[i] = block
	}

	return cpy
}
