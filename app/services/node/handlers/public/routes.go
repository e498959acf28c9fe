package public

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rybka/fishledger/foundation/blockchain/state"
	"github.com/rybka/fishledger/foundation/events"
	"github.com/rybka/fishledger/foundation/web"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Miner Miner
	Evts  *events.Events
}

// Routes binds all the public routes.
func Routes(app *web.App, cfg Config) {
	pbl := Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Miner: cfg.Miner,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	// The ledger routes live at the root so every node on the network
	// can find a peer's chain at /chain.
	app.Handle(http.MethodPost, "", "/transactions/new", pbl.NewTransaction)
	app.Handle(http.MethodGet, "", "/mine", pbl.Mine)
	app.Handle(http.MethodGet, "", "/chain", pbl.Chain)
	app.Handle(http.MethodPost, "", "/nodes/register", pbl.RegisterNodes)
	app.Handle(http.MethodGet, "", "/nodes/resolve", pbl.Consensus)

	const version = "v1"

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/tx/uncommitted/list", pbl.Mempool)
}
