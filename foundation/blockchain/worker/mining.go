package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rybka/fishledger/foundation/blockchain/database"
	"github.com/rybka/fishledger/foundation/blockchain/state"
)

// maxMiningAttempts is how many times mining restarts when the chain head
// moves underneath a search.
const maxMiningAttempts = 3

// request represents a call to mine the next block.
type request struct {
	ctx    context.Context
	result chan result
}

// result is the outcome of a mining request.
type result struct {
	block database.Block
	err   error
}

// =============================================================================

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case req := <-w.startMining:
			if w.isShutdown() {
				req.result <- result{err: ErrShutdown}
				continue
			}
			req.result <- w.runMiningOperation(req.ctx)

		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation mines the next block, starting over if the chain is
// replaced while the search is running.
func (w *Worker) runMiningOperation(reqCtx context.Context) result {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	var err error
	for attempt := 1; attempt <= maxMiningAttempts; attempt++ {
		var block database.Block
		block, err = w.mineOnce(reqCtx)

		switch {
		case err == nil:
			return result{block: block}
		case errors.Is(err, state.ErrChainChanged):
			w.evHandler("worker: runMiningOperation: MINING: chain changed: attempt[%d]", attempt)
			continue
		case reqCtx.Err() != nil:
			return result{err: reqCtx.Err()}
		default:
			return result{err: err}
		}
	}

	return result{err: err}
}

// mineOnce runs a single mining operation that can be cancelled by the
// request context, a cancel signal, or a shutdown.
func (w *Worker) mineOnce(reqCtx context.Context) (database.Block, error) {

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: mineOnce: MINING: drained cancel channel")
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(reqCtx)
	defer cancel()

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case <-w.cancelMining:
			w.evHandler("worker: mineOnce: MINING: CANCEL: requested")
		case <-w.shut:
			w.evHandler("worker: mineOnce: MINING: CANCEL: shutdown")
		case <-ctx.Done():
		}
	}()

	var block database.Block
	var err error

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		t := time.Now()
		block, err = w.state.MineNewBlock(ctx)
		duration := time.Since(t)

		w.evHandler("worker: mineOnce: MINING: mining duration[%v]", duration)

		if err != nil {
			switch {
			case errors.Is(err, state.ErrChainChanged):
				w.evHandler("worker: mineOnce: MINING: WARNING: chain changed")
			case ctx.Err() != nil:
				w.evHandler("worker: mineOnce: MINING: CANCEL: complete")
			default:
				w.evHandler("worker: mineOnce: MINING: ERROR: %s", err)
			}
		}
	}()

	// Wait for both G's to terminate.
	wg.Wait()

	// A cancel signal means the chain was swapped, mine against the new head.
	if err != nil && reqCtx.Err() == nil && !w.isShutdown() && errors.Is(err, context.Canceled) {
		return database.Block{}, state.ErrChainChanged
	}

	return block, err
}
