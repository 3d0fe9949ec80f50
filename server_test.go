package mcpgate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mcpgate/tool/graph"
)

func TestNewServer(t *testing.T) {
	registry, err := NewRegistry(graph.NewMemoryStore())
	require.NoError(t, err)
	for _, name := range []string{"create_node", "create_edge", "get_node", "list_nodes", "delete_node", "search_nodes"} {
		_, ok := registry.Lookup(name)
		assert.True(t, ok, name)
	}
	canonical, ok := registry.Resolve("vector_search")
	assert.True(t, ok)
	assert.Equal(t, "search_nodes", canonical)

	srv, err := NewServer(registry, &ServerOptions{
		Name:        "gate",
		Version:     "2.1",
		ToolTimeout: time.Second,
		Transport: &ServerTransport{Options: &ServerTransportOptions{
			Port:   7001,
			SSEURI: "/stream",
		}},
	})
	require.NoError(t, err)
	httpServer := srv.HTTP(context.Background(), "")
	assert.Equal(t, ":7001", httpServer.Addr)
	assert.Equal(t, "gate", srv.Info().Name)
	assert.Equal(t, "2.1", srv.Info().Version)

	recorder := httptest.NewRecorder()
	httpServer.Handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/register", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"search_nodes"`)
	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestNewServer_NilRegistry(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)
}
