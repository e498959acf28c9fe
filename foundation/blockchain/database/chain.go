package database

import (
	"errors"
	"fmt"

	"github.com/rybka/fishledger/foundation/blockchain/pow"
)

// ErrInvalidChain is returned when a chain fails linkage or proof checks.
var ErrInvalidChain = errors.New("invalid chain")

// =============================================================================

// ValidateChain walks the chain checking that every block carries the hash
// of its predecessor and a proof that solves its predecessor's puzzle. A
// chain holding only a genesis block is valid.
func ValidateChain(blocks []Block) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: no blocks", ErrInvalidChain)
	}

	prev := blocks[0]
	for _, block := range blocks[1:] {
		hashOK := block.PreviousHash == prev.Hash()
		proofOK := pow.ValidProof(prev.Proof, block.Proof)

		switch {
		case !hashOK:
			return fmt.Errorf("%w: blk[%d]: previous hash doesn't match block[%d]", ErrInvalidChain, block.Index, prev.Index)
		case !proofOK:
			return fmt.Errorf("%w: blk[%d]: proof[%d] doesn't solve previous proof[%d]", ErrInvalidChain, block.Index, block.Proof, prev.Proof)
		}

		prev = block
	}

	return nil
}

// ValidChain reports whether the chain passes ValidateChain.
func ValidChain(blocks []Block) bool {
	return ValidateChain(blocks) == nil
}
