// Package server exposes a tool registry as a JSON-RPC 2.0 gateway.
//
// A single Server answers over several transports:
//   - synchronous HTTP: POST one envelope, receive one JSON object
//   - SSE: GET <prefix>/sse opens a session and announces a relay endpoint
//   - relay: POST <prefix>/messages?sessionId=<token> answers in plain JSON
//   - stdio: newline delimited envelopes
//
// Callers typically construct a server via `server.New` and then expose it over HTTP:
//
//	s, _ := server.New(server.WithRegistry(registry))
//	log.Fatal(s.HTTP(ctx, ":5000").ListenAndServe())
package server
