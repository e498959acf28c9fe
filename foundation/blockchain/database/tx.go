package database

import (
	"fmt"

	"github.com/rybka/fishledger/foundation/blockchain/hashing"
)

// Tx represents a catch recorded on the ledger.
type Tx struct {
	Angler  string         `json:"angler"`  // Who caught the fish.
	Fishery string         `json:"fishery"` // Where the fish was caught.
	Fish    string         `json:"fish"`    // The species.
	Amount  hashing.Number `json:"amount"`  // How much was caught, integer or float as recorded.
}

// NewTx constructs a new transaction.
func NewTx(angler string, fishery string, fish string, amount hashing.Number) Tx {
	return Tx{
		Angler:  angler,
		Fishery: fishery,
		Fish:    fish,
		Amount:  amount,
	}
}

// Fields implements the hashing.Fielder interface.
func (tx Tx) Fields() map[string]any {
	return map[string]any{
		"angler":  tx.Angler,
		"fishery": tx.Fishery,
		"fish":    tx.Fish,
		"amount":  tx.Amount,
	}
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", tx.Angler, tx.Fishery, tx.Fish, tx.Amount)
}
