package public

import "github.com/rybka/fishledger/foundation/blockchain/database"

// NewTx is what a caller sends to record a catch.
type NewTx struct {
	Angler  string  `json:"angler" validate:"required"`
	Fishery string  `json:"fishery" validate:"required"`
	Fish    string  `json:"fish" validate:"required"`
	Weight  float64 `json:"weight" validate:"gt=0"`
}

// NewNodes is what a caller sends to register peer nodes.
type NewNodes struct {
	Nodes []string `json:"nodes" validate:"required,min=1,dive,required"`
}

type message struct {
	Message string `json:"message"`
}

type registered struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type replaced struct {
	Message  string           `json:"message"`
	NewChain []database.Block `json:"new_chain"`
}

type authoritative struct {
	Message string           `json:"message"`
	Chain   []database.Block `json:"chain"`
}
