// Package pow implements the proof of work puzzle used to admit new blocks
// into the chain.
package pow

import (
	"context"
	"strconv"
	"strings"

	"github.com/rybka/fishledger/foundation/blockchain/hashing"
)

// Difficulty is the number of leading zeros the puzzle hash must carry.
// It is fixed for the life of the network.
const Difficulty = 4

// checkEvery sets how many attempts are made between context checks.
const checkEvery = 1_000

var target = strings.Repeat("0", Difficulty)

// ValidProof reports whether the proof solves the puzzle for the previous
// block's proof. The two numbers are joined in decimal form without a
// separator and hashed.
func ValidProof(lastProof uint64, proof uint64) bool {
	guess := make([]byte, 0, 40)
	guess = strconv.AppendUint(guess, lastProof, 10)
	guess = strconv.AppendUint(guess, proof, 10)

	return strings.HasPrefix(hashing.Sum(guess), target)
}

// ProofOfWork returns the smallest proof that solves the puzzle for the
// specified previous proof. It runs until a solution is found.
func ProofOfWork(lastProof uint64) uint64 {
	var proof uint64
	for !ValidProof(lastProof, proof) {
		proof++
	}

	return proof
}

// Search performs the same linear search as ProofOfWork but can be abandoned
// by cancelling the context.
func Search(ctx context.Context, lastProof uint64, ev func(v string, args ...any)) (uint64, error) {
	ev("pow: Search: MINING: started: lastProof[%d]", lastProof)
	defer ev("pow: Search: MINING: completed")

	var proof uint64
	for {
		if proof%checkEvery == 0 && ctx.Err() != nil {
			ev("pow: Search: MINING: CANCELLED: attempts[%d]", proof)
			return 0, ctx.Err()
		}

		if ValidProof(lastProof, proof) {
			ev("pow: Search: MINING: SOLVED: proof[%d]: attempts[%d]", proof, proof+1)
			return proof, nil
		}

		proof++
	}
}
