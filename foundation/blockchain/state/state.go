// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"sync"
	"time"

	"github.com/rybka/fishledger/foundation/blockchain/database"
	"github.com/rybka/fishledger/foundation/blockchain/genesis"
	"github.com/rybka/fishledger/foundation/blockchain/mempool"
	"github.com/rybka/fishledger/foundation/blockchain/peer"
)

// defaultPeerTimeout bounds a single peer query when no timeout is configured.
const defaultPeerTimeout = 5 * time.Second

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining.
type Worker interface {
	Shutdown()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start
// the ledger node.
type Config struct {
	NodeID      string
	Host        string
	Genesis     genesis.Genesis
	KnownPeers  *peer.PeerSet
	Fetcher     Fetcher
	PeerTimeout time.Duration
	EvHandler   EventHandler
}

// State manages the ledger. A single mutex guards the chain and the mempool
// so sealing a block is atomic with respect to new transactions and reads.
type State struct {
	nodeID      string
	host        string
	peerTimeout time.Duration
	evHandler   EventHandler
	mu          sync.Mutex

	knownPeers *peer.PeerSet
	fetcher    Fetcher
	genesis    genesis.Genesis
	mempool    *mempool.Mempool
	db         *database.Database

	Worker Worker
}

// New constructs a new ledger with its genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	peerTimeout := cfg.PeerTimeout
	if peerTimeout <= 0 {
		peerTimeout = defaultPeerTimeout
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher(peerTimeout)
	}

	gen := cfg.Genesis
	if gen == (genesis.Genesis{}) {
		gen = genesis.Default()
	}

	// Create the State to provide support for managing the ledger.
	state := State{
		nodeID:      cfg.NodeID,
		host:        cfg.Host,
		peerTimeout: peerTimeout,
		evHandler:   ev,

		knownPeers: knownPeers,
		fetcher:    fetcher,
		genesis:    gen,
		mempool:    mempool.New(),
		db:         database.New(gen),
	}

	ev("state: New: genesis: blk[%s]", state.latestBlock().Hash())

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all ledger writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// latestBlock returns the head of the chain. The caller must hold the lock
// or be the only user of the state. A missing genesis block is a broken
// invariant, there is no way to recover.
func (s *State) latestBlock() database.Block {
	block, err := s.db.LatestBlock()
	if err != nil {
		panic(err)
	}

	return block
}
