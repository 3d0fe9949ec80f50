// Package mcpgate is a JSON-RPC 2.0 tool-calling gateway.
//
// It exposes a fixed tool registry over synchronous HTTP, a session scoped SSE
// stream with a plain JSON relay endpoint, and stdio. Tool names are resolved
// through a static alias table so that several client spellings reach one handler.
//
// Example:
//
//	registry, _ := mcpgate.NewRegistry(graph.NewMemoryStore())
//	srv, _ := mcpgate.NewServer(registry, &mcpgate.ServerOptions{Name: "gate", Version: "1.0"})
//	log.Fatal(srv.HTTP(ctx, ":5000").ListenAndServe())
package mcpgate
