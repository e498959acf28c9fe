// Package worker implements mining and peer synchronization for the ledger
// on goroutines separate from request handling.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rybka/fishledger/foundation/blockchain/database"
	"github.com/rybka/fishledger/foundation/blockchain/state"
)

// ErrShutdown is returned when a mining request arrives after the worker
// has been told to shut down.
var ErrShutdown = errors.New("worker is shutting down")

// =============================================================================

// Config represents the configuration for the worker.
type Config struct {

	// SyncInterval is how often the ledger is reconciled with its peers.
	// Zero turns periodic reconciliation off.
	SyncInterval time.Duration
}

// Worker manages the POW workflows for the ledger.
type Worker struct {
	state        *state.State
	wg           sync.WaitGroup
	ticker       *time.Ticker
	shut         chan struct{}
	startMining  chan request
	cancelMining chan bool
	evHandler    state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, evHandler state.EventHandler, cfg Config) *Worker {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	w := Worker{
		state:        st,
		shut:         make(chan struct{}),
		startMining:  make(chan request),
		cancelMining: make(chan bool, 1),
		evHandler:    ev,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
	}

	if cfg.SyncInterval > 0 {
		w.ticker = time.NewTicker(cfg.SyncInterval)
		operations = append(operations, w.syncOperations)
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	if w.ticker != nil {
		w.evHandler("worker: shutdown: stop ticker")
		w.ticker.Stop()
	}

	w.evHandler("worker: shutdown: signal cancel mining")
	w.SignalCancelMining()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
}

// =============================================================================

// Mine asks the mining G to mine the next block and waits for the result.
func (w *Worker) Mine(ctx context.Context) (database.Block, error) {
	req := request{
		ctx:    ctx,
		result: make(chan result, 1),
	}

	select {
	case w.startMining <- req:
	case <-w.shut:
		return database.Block{}, ErrShutdown
	case <-ctx.Done():
		return database.Block{}, ctx.Err()
	}

	// The mining G watches the request context, so a result is always
	// delivered.
	res := <-req.result

	return res.block, res.err
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
