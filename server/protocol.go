package server

import (
	"net/http"
)

const protocolVersionHeader = "MCP-Protocol-Version"

// protocolVersionMiddleware advertises the server protocol version. A differing
// client version is not rejected: initialize echoes what the client asked for.
func protocolVersionMiddleware(version string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if w.Header().Get(protocolVersionHeader) == "" {
				w.Header().Set(protocolVersionHeader, version)
			}
			next.ServeHTTP(w, r)
		})
	}
}
