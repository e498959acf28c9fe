package state

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/rybka/fishledger/foundation/blockchain/database"
	"github.com/rybka/fishledger/foundation/blockchain/peer"
)

const chainURL = "http://%s/chain"

// maxErrorBody limits how much of a failed response is kept for the error.
const maxErrorBody = 512

// maxRetries bounds how often a transport failure is retried against a
// single peer. The per-peer timeout still bounds the whole exchange.
const maxRetries = 2

// =============================================================================

// Fetcher represents the behavior required to ask a peer for its chain.
type Fetcher interface {
	FetchChain(ctx context.Context, pr peer.Peer) ([]database.Block, error)
}

// PeerError is returned when a peer can't provide its chain, either because
// it can't be reached, timed out, or answered with something other than
// a chain.
type PeerError struct {
	Host   string
	Status int
	Err    error
}

// Error implements the error interface.
func (pe *PeerError) Error() string {
	if pe.Status != 0 {
		return fmt.Sprintf("peer %s: status %d: %s", pe.Host, pe.Status, pe.Err)
	}
	return fmt.Sprintf("peer %s: %s", pe.Host, pe.Err)
}

// Unwrap returns the underlying error.
func (pe *PeerError) Unwrap() error {
	return pe.Err
}

// =============================================================================

// HTTPFetcher asks peers for their chain over HTTP.
type HTTPFetcher struct {
	client http.Client
}

// NewHTTPFetcher constructs a fetcher where each request is bounded by the
// specified timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: http.Client{
			Timeout: timeout,
		},
	}
}

// FetchChain performs a GET against the peer's chain route and decodes the
// blocks. Transport failures are retried with backoff until the context
// expires, a peer that answers with anything other than a chain is not.
func (hf *HTTPFetcher) FetchChain(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	var blocks []database.Block

	op := func() error {
		var err error
		blocks, err = hf.fetch(ctx, pr)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)); err != nil {
		return nil, err
	}

	return blocks, nil
}

// fetch performs a single request for the peer's chain.
func (hf *HTTPFetcher) fetch(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	url := fmt.Sprintf(chainURL, pr.Host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(&PeerError{Host: pr.Host, Err: err})
	}

	resp, err := hf.client.Do(req)
	if err != nil {
		return nil, &PeerError{Host: pr.Host, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return nil, backoff.Permanent(&PeerError{Host: pr.Host, Status: resp.StatusCode, Err: err})
		}
		return nil, backoff.Permanent(&PeerError{Host: pr.Host, Status: resp.StatusCode, Err: fmt.Errorf("%s", msg)})
	}

	var blocks []database.Block
	if err := json.NewDecoder(resp.Body).Decode(&blocks); err != nil {
		return nil, backoff.Permanent(&PeerError{Host: pr.Host, Status: resp.StatusCode, Err: fmt.Errorf("decoding chain: %w", err)})
	}

	return blocks, nil
}
