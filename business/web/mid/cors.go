package mid

import (
	"context"
	"net/http"

	"github.com/rybka/fishledger/foundation/web"
)

// Cors sets the response headers needed for Cross-Origin Resource Sharing.
// Browsers refuse credentials with a wildcard origin, so when any origin is
// allowed the caller's Origin is echoed back instead.
func Cors(origin string) web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			// Set the CORS headers to the response.
			allow := origin
			if reqOrigin := r.Header.Get("Origin"); origin == "*" && reqOrigin != "" {
				allow = reqOrigin
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Origin", allow)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Origin, Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
			if allow != "*" {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			// Call the next handler.
			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
