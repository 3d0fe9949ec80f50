package server

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/jsonrpc/transport/server/stdio"
	"github.com/viant/mcpgate/codec"
	"github.com/viant/mcpgate/tool/graph"
)

func TestServerAsClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.server.AsClient()

	initialized, err := client.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, "mcpgate", initialized.ServerInfo.Name)
	require.NoError(t, client.Ping(ctx))

	tools, err := client.ListTools(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.server.Registry().Len(), len(tools.Tools))

	node := &graph.Node{}
	require.NoError(t, client.CallTool(ctx, "graph_create_node", map[string]interface{}{"type": "habit", "label": "Stretch", "userId": "u3"}, node))
	assert.Equal(t, "habit", node.Type)
	assert.Equal(t, "u3", node.UserID)

	err = client.CallTool(ctx, "missing", nil, nil)
	rpcErr, ok := err.(*codec.Error)
	require.True(t, ok)
	assert.Equal(t, codec.MethodNotFound, rpcErr.Code)
}

func TestServer_Stdio(t *testing.T) {
	f := newFixture(t)
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"ping"}`,
		``,
		`{broken`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"1.0","id":"v1","method":"ping"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"say","arguments":{"text":"x"}}}`,
	}, "\n")
	output := captureStdout(t, func() {
		server := f.server.Stdio(context.Background(), stdio.WithReader(io.NopCloser(strings.NewReader(input))))
		require.NoError(t, server.ListenAndServe())
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":{}}`, lines[0])
	response := &codec.Response{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), response))
	require.NotNil(t, response.Error)
	assert.Equal(t, codec.InvalidRequest, response.Error.Code)
	assert.Equal(t, `"v1"`, string(response.Id))
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":2,"result":{"text":"x"}}`, lines[2])
}

func TestServer_StdioCancel(t *testing.T) {
	f := newFixture(t)
	reader, writer := io.Pipe()
	defer writer.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- f.server.Stdio(ctx, stdio.WithReader(reader)).ListenAndServe()
	}()
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("stdio server did not stop")
	}
}

// captureStdout points os.Stdout at a pipe while run executes and returns what was written.
func captureStdout(t *testing.T, run func()) string {
	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	original := os.Stdout
	os.Stdout = writer
	output := make(chan []byte, 1)
	go func() {
		data, _ := io.ReadAll(reader)
		output <- data
	}()
	func() {
		defer func() { os.Stdout = original }()
		run()
	}()
	require.NoError(t, writer.Close())
	return string(<-output)
}
