package database_test

import (
	"errors"
	"testing"

	"github.com/rybka/fishledger/foundation/blockchain/database"
	"github.com/rybka/fishledger/foundation/blockchain/hashing"
	"github.com/rybka/fishledger/foundation/blockchain/pow"
)

// mineChain extends the chain with blocks that carry valid links and proofs.
func mineChain(blocks []database.Block, n int) []database.Block {
	for i := 0; i < n; i++ {
		prev := blocks[len(blocks)-1]
		blocks = append(blocks, database.Block{
			Index:        prev.Index + 1,
			Timestamp:    hashing.Float(prev.Timestamp.Float64() + 1),
			Transactions: []database.Tx{database.NewTx("0", "node", "karas", hashing.Int(1))},
			Proof:        pow.ProofOfWork(prev.Proof),
			PreviousHash: prev.Hash(),
		})
	}

	return blocks
}

func Test_ValidateChain(t *testing.T) {
	type table struct {
		name  string
		chain func() []database.Block
		valid bool
	}

	tt := []table{
		{
			name:  "genesis-only",
			chain: func() []database.Block { return []database.Block{genesisBlock()} },
			valid: true,
		},
		{
			name:  "known-pair",
			chain: func() []database.Block { return []database.Block{genesisBlock(), secondBlock()} },
			valid: true,
		},
		{
			name:  "mined",
			chain: func() []database.Block { return mineChain([]database.Block{genesisBlock()}, 3) },
			valid: true,
		},
		{
			name: "bad-link",
			chain: func() []database.Block {
				blk := secondBlock()
				blk.PreviousHash = "0000"
				return []database.Block{genesisBlock(), blk}
			},
			valid: false,
		},
		{
			name: "bad-proof",
			chain: func() []database.Block {
				blk := secondBlock()
				blk.Proof = 1
				return []database.Block{genesisBlock(), blk}
			},
			valid: false,
		},
		{
			name: "tampered-middle",
			chain: func() []database.Block {
				blocks := mineChain([]database.Block{genesisBlock()}, 3)
				blocks[1].Transactions[0].Amount = hashing.Int(1000)
				return blocks
			},
			valid: false,
		},
		{
			name:  "empty",
			chain: func() []database.Block { return nil },
			valid: false,
		},
	}

	t.Log("Given the need to validate chains.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				err := database.ValidateChain(tst.chain())

				switch tst.valid {
				case true:
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be a valid chain: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be a valid chain.", success, testID)

				case false:
					if !errors.Is(err, database.ErrInvalidChain) {
						t.Fatalf("\t%s\tTest %d:\tShould get back ErrInvalidChain, got %v.", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get back ErrInvalidChain: %v", success, testID, err)
				}

				if database.ValidChain(tst.chain()) != tst.valid {
					t.Fatalf("\t%s\tTest %d:\tShould agree with ValidateChain.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould agree with ValidateChain.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}
