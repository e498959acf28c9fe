package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rybka/fishledger/app/services/node/handlers"
	"github.com/rybka/fishledger/business/web/errs"
	"github.com/rybka/fishledger/foundation/blockchain/database"
	"github.com/rybka/fishledger/foundation/blockchain/hashing"
	"github.com/rybka/fishledger/foundation/blockchain/state"
	"github.com/rybka/fishledger/foundation/blockchain/worker"
	"github.com/rybka/fishledger/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// nodeTest holds a node's public mux and its ledger.
type nodeTest struct {
	app   http.Handler
	state *state.State
}

func newNodeTest(t *testing.T) *nodeTest {
	t.Helper()

	ev := func(v string, args ...any) { t.Logf(v, args...) }

	st, err := state.New(state.Config{
		NodeID:    "node1",
		Host:      "localhost:5000",
		EvHandler: ev,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	w := worker.Run(st, ev, worker.Config{})
	t.Cleanup(func() { st.Shutdown() })

	app := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		Miner:    w,
		Evts:     events.New(),
	})

	return &nodeTest{
		app:   app,
		state: st,
	}
}

func (nt *nodeTest) do(method string, path string, body string) *httptest.ResponseRecorder {
	var r *http.Request
	switch body {
	case "":
		r = httptest.NewRequest(method, path, nil)
	default:
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	w := httptest.NewRecorder()
	nt.app.ServeHTTP(w, r)

	return w
}

// =============================================================================

func Test_Ledger(t *testing.T) {
	nt := newNodeTest(t)

	t.Log("Given the need to use the ledger through the public api.")
	{
		t.Logf("\tTest 0:\tWhen recording a catch.")
		{
			w := nt.do(http.MethodPost, "/transactions/new", `{"angler":"bill","fishery":"wisla","fish":"karas","weight":2.5}`)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 200, got %d: %s", failed, w.Code, w.Body)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 200.", success)

			var got map[string]string
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to unmarshal the response: %v", failed, err)
			}

			if exp := "Transaction will be added to Block 2"; got["message"] != exp {
				t.Logf("\t%s\tTest 0:\tgot: %q", failed, got["message"])
				t.Logf("\t%s\tTest 0:\texp: %q", failed, exp)
				t.Fatalf("\t%s\tTest 0:\tShould get back the expected block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the expected block.", success)
		}

		t.Logf("\tTest 1:\tWhen listing the mempool.")
		{
			w := nt.do(http.MethodGet, "/v1/tx/uncommitted/list", "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 1:\tShould receive a status code of 200, got %d.", failed, w.Code)
			}

			var trans []database.Tx
			if err := json.NewDecoder(w.Body).Decode(&trans); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to unmarshal the response: %v", failed, err)
			}

			exp := database.NewTx("bill", "wisla", "karas", hashing.Float(2.5))
			if len(trans) != 1 || trans[0] != exp {
				t.Fatalf("\t%s\tTest 1:\tShould get back the pending catch: %v", failed, trans)
			}
			t.Logf("\t%s\tTest 1:\tShould get back the pending catch.", success)
		}

		t.Logf("\tTest 2:\tWhen mining a block.")
		{
			w := nt.do(http.MethodGet, "/mine", "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 2:\tShould receive a status code of 200, got %d: %s", failed, w.Code, w.Body)
			}
			t.Logf("\t%s\tTest 2:\tShould receive a status code of 200.", success)

			if raw := w.Body.String(); !strings.Contains(raw, `"amount":2.5}`) || !strings.Contains(raw, `"amount":1}`) {
				t.Fatalf("\t%s\tTest 2:\tShould send the catch as a float and the credit as an integer: %s", failed, raw)
			}
			t.Logf("\t%s\tTest 2:\tShould send the catch as a float and the credit as an integer.", success)

			var blk database.Block
			if err := json.NewDecoder(w.Body).Decode(&blk); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to unmarshal the response: %v", failed, err)
			}

			if blk.Index != 2 || blk.Proof != 35293 || len(blk.Transactions) != 2 {
				t.Fatalf("\t%s\tTest 2:\tShould get back block 2 with the catch and reward: %+v", failed, blk)
			}
			t.Logf("\t%s\tTest 2:\tShould get back block 2 with the catch and reward.", success)
		}

		t.Logf("\tTest 3:\tWhen asking for the chain.")
		{
			w := nt.do(http.MethodGet, "/chain", "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 3:\tShould receive a status code of 200, got %d.", failed, w.Code)
			}

			var blocks []database.Block
			if err := json.NewDecoder(w.Body).Decode(&blocks); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to unmarshal the response: %v", failed, err)
			}

			if len(blocks) != 2 {
				t.Fatalf("\t%s\tTest 3:\tShould get back 2 blocks, got %d.", failed, len(blocks))
			}
			t.Logf("\t%s\tTest 3:\tShould get back 2 blocks.", success)

			if err := database.ValidateChain(blocks); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould get back a chain a peer would accept: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould get back a chain a peer would accept.", success)

			if blocks[1].Hash() != nt.state.RetrieveLatestBlock().Hash() {
				t.Fatalf("\t%s\tTest 3:\tShould hash the same after the round trip.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould hash the same after the round trip.", success)
		}
	}
}

func Test_BadRequests(t *testing.T) {
	type table struct {
		name   string
		method string
		path   string
		body   string
		status int
		fields bool
	}

	tt := []table{
		{name: "missing-fish", method: http.MethodPost, path: "/transactions/new", body: `{"angler":"bill","fishery":"wisla","weight":1}`, status: http.StatusBadRequest, fields: true},
		{name: "zero-weight", method: http.MethodPost, path: "/transactions/new", body: `{"angler":"bill","fishery":"wisla","fish":"karas"}`, status: http.StatusBadRequest, fields: true},
		{name: "bad-json", method: http.MethodPost, path: "/transactions/new", body: `{"angler":`, status: http.StatusBadRequest},
		{name: "no-nodes", method: http.MethodPost, path: "/nodes/register", body: `{"nodes":[]}`, status: http.StatusBadRequest, fields: true},
	}

	nt := newNodeTest(t)

	t.Log("Given the need to reject bad requests.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				w := nt.do(tst.method, tst.path, tst.body)

				if w.Code != tst.status {
					t.Fatalf("\t%s\tTest %d:\tShould receive a status code of %d, got %d: %s", failed, testID, tst.status, w.Code, w.Body)
				}
				t.Logf("\t%s\tTest %d:\tShould receive a status code of %d.", success, testID, tst.status)

				var er errs.Response
				if err := json.NewDecoder(w.Body).Decode(&er); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the error: %v", failed, testID, err)
				}

				if er.Error == "" || (tst.fields && len(er.Fields) == 0) {
					t.Fatalf("\t%s\tTest %d:\tShould get back a descriptive error: %+v", failed, testID, er)
				}
				t.Logf("\t%s\tTest %d:\tShould get back a descriptive error: %s", success, testID, er.Error)

				if n := len(nt.state.RetrieveMempool()); n != 0 {
					t.Fatalf("\t%s\tTest %d:\tShould not add to the mempool, got %d.", failed, testID, n)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Nodes(t *testing.T) {
	t.Log("Given the need to work with peers through the public api.")
	{
		peerNode := newNodeTest(t)
		peerNode.state.NewBlock(peerNode.state.ProofOfWork(100), "")
		peerNode.state.NewBlock(peerNode.state.ProofOfWork(35293), "")

		srv := httptest.NewServer(peerNode.app)
		defer srv.Close()

		nt := newNodeTest(t)

		t.Logf("\tTest 0:\tWhen registering nodes.")
		{
			body, _ := json.Marshal(map[string][]string{"nodes": {srv.URL, srv.URL}})

			w := nt.do(http.MethodPost, "/nodes/register", string(body))
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 200, got %d: %s", failed, w.Code, w.Body)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 200.", success)

			var got struct {
				Message    string   `json:"message"`
				TotalNodes []string `json:"total_nodes"`
			}
			if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to unmarshal the response: %v", failed, err)
			}

			host := strings.TrimPrefix(srv.URL, "http://")
			if got.Message != "New nodes have been added" || len(got.TotalNodes) != 1 || got.TotalNodes[0] != host {
				t.Fatalf("\t%s\tTest 0:\tShould get back the registered host once: %+v", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the registered host once.", success)
		}

		t.Logf("\tTest 1:\tWhen resolving against a longer peer chain.")
		{
			w := nt.do(http.MethodGet, "/nodes/resolve", "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 1:\tShould receive a status code of 200, got %d.", failed, w.Code)
			}

			var got struct {
				Message  string           `json:"message"`
				NewChain []database.Block `json:"new_chain"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to unmarshal the response: %v", failed, err)
			}

			if got.Message != "Our chain was replaced" || len(got.NewChain) != 3 {
				t.Fatalf("\t%s\tTest 1:\tShould replace the chain: %s: %d", failed, got.Message, len(got.NewChain))
			}
			t.Logf("\t%s\tTest 1:\tShould replace the chain.", success)
		}

		t.Logf("\tTest 2:\tWhen resolving a second time.")
		{
			w := nt.do(http.MethodGet, "/nodes/resolve", "")

			var got struct {
				Message string           `json:"message"`
				Chain   []database.Block `json:"chain"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to unmarshal the response: %v", failed, err)
			}

			if got.Message != "Our chain is authoritative" || len(got.Chain) != 3 {
				t.Fatalf("\t%s\tTest 2:\tShould keep the chain: %s: %d", failed, got.Message, len(got.Chain))
			}
			t.Logf("\t%s\tTest 2:\tShould keep the chain.", success)
		}
	}
}
