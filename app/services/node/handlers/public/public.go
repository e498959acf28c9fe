// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rybka/fishledger/business/web/errs"
	"github.com/rybka/fishledger/foundation/blockchain/database"
	"github.com/rybka/fishledger/foundation/blockchain/peer"
	"github.com/rybka/fishledger/foundation/blockchain/state"
	"github.com/rybka/fishledger/foundation/events"
	"github.com/rybka/fishledger/foundation/web"
	"go.uber.org/zap"
)

// Miner represents the behavior required to mine the next block.
type Miner interface {
	Mine(ctx context.Context) (database.Block, error)
}

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	Miner Miner
	WS    websocket.Upgrader
	Evts  *events.Events
}

// NewTransaction adds a new catch to the mempool.
func (h Handlers) NewTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "angler", ntx.Angler, "fishery", ntx.Fishery, "fish", ntx.Fish, "weight", ntx.Weight)
	index := h.State.NewTransaction(ntx.Angler, ntx.Fishery, ntx.Fish, ntx.Weight)

	resp := message{
		Message: fmt.Sprintf("Transaction will be added to Block %d", index),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine solves the puzzle for the next block and seals the mempool into it.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.Miner.Mine(ctx)
	if err != nil {
		if errors.Is(err, state.ErrChainChanged) {
			return errs.NewTrusted(err, http.StatusConflict)
		}
		return fmt.Errorf("mining: %w", err)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Chain returns the full chain. This is what peers ask for during
// conflict resolution.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// Mempool returns the set of transactions waiting for the next block.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := h.State.RetrieveMempool()
	if trans == nil {
		trans = []database.Tx{}
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// RegisterNodes adds the specified nodes to the set of known peers.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nn NewNodes
	if err := web.Decode(r, &nn); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	for _, address := range nn.Nodes {
		if err := h.State.RegisterNode(address); err != nil {
			if errors.Is(err, peer.ErrInvalidAddress) {
				return errs.NewTrusted(err, http.StatusBadRequest)
			}
			return err
		}
	}

	resp := registered{
		Message:    "New nodes have been added",
		TotalNodes: h.State.RetrieveNodes(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Consensus replaces the local chain with the longest valid chain held by
// the known peers.
func (h Handlers) Consensus(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	wasReplaced, err := h.State.ResolveConflicts(ctx)
	if err != nil {
		return fmt.Errorf("resolving conflicts: %w", err)
	}

	if wasReplaced {
		resp := replaced{
			Message:  "Our chain was replaced",
			NewChain: h.State.RetrieveChain(),
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}

	resp := authoritative{
		Message: "Our chain is authoritative",
		Chain:   h.State.RetrieveChain(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// This provides a channel for receiving events from the ledger. A client
	// can narrow the feed with ?topic=state&topic=worker.
	ch := h.Evts.Acquire(v.TraceID, r.URL.Query()["topic"]...)
	defer h.Evts.Release(v.TraceID)

	// Starting a ticker to send a ping message over the websocket.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Block waiting for events from the ledger or ticker.
	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
