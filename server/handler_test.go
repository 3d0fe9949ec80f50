package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mcpgate/codec"
	"github.com/viant/mcpgate/internal/telemetry"
	"github.com/viant/mcpgate/schema"
	"github.com/viant/mcpgate/tool"
	"github.com/viant/mcpgate/tool/graph"
)

type echoInput struct {
	Text string `json:"text"`
}

type fixture struct {
	server  *Server
	calls   *atomic.Int32
	metrics *telemetry.Metrics
}

func newFixture(t *testing.T, options ...Option) *fixture {
	calls := &atomic.Int32{}
	echo, err := tool.NewEntry("echo", "Echo arguments", &echoInput{}, func(_ context.Context, args map[string]interface{}) (interface{}, error) {
		calls.Add(1)
		return args, nil
	}, "say", "echoText")
	require.NoError(t, err)
	fail, err := tool.NewEntry("fail", "Always fails", &echoInput{}, func(_ context.Context, args map[string]interface{}) (interface{}, error) {
		if args["kind"] == "invalid" {
			return nil, schema.NewInvalidParams("Invalid arguments: text is required")
		}
		return nil, errors.New("Unknown backend failure")
	})
	require.NoError(t, err)
	slow, err := tool.NewEntry("slow", "Blocks until cancelled", &echoInput{}, func(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	require.NoError(t, err)
	panicking, err := tool.NewEntry("panic", "Panics", &echoInput{}, func(context.Context, map[string]interface{}) (interface{}, error) {
		panic("boom")
	})
	require.NoError(t, err)

	graphService := graph.New(graph.NewMemoryStore())
	graphEntries, err := graphService.Entries()
	require.NoError(t, err)
	registry, err := tool.NewRegistry(append([]*tool.Entry{echo, fail, slow, panicking}, graphEntries...)...)
	require.NoError(t, err)

	metrics := telemetry.New()
	options = append([]Option{
		WithRegistry(registry),
		WithMetrics(metrics),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, options...)
	srv, err := New(options...)
	require.NoError(t, err)
	return &fixture{server: srv, calls: calls, metrics: metrics}
}

func request(t *testing.T, id, method string, params interface{}) *codec.Request {
	ret := &codec.Request{Jsonrpc: codec.Version, Method: method}
	if id != "" {
		ret.Id = json.RawMessage(id)
	}
	if params != nil {
		data, err := json.Marshal(params)
		require.NoError(t, err)
		ret.Params = data
	}
	return ret
}

func TestHandler_Serve(t *testing.T) {
	f := newFixture(t, WithInstructions("use tools"))
	var testCases = []struct {
		description string
		request     *codec.Request
		expect      string
	}{
		{
			description: "initialized ack",
			request:     request(t, `"a"`, schema.MethodInitialized, nil),
			expect:      `{"jsonrpc":"2.0","id":"a","result":{}}`,
		},
		{
			description: "notification alias of initialized",
			request:     request(t, ``, schema.MethodNotificationInitialized, nil),
			expect:      `{"jsonrpc":"2.0","id":null,"result":{}}`,
		},
		{
			description: "ping",
			request:     request(t, `2`, schema.MethodPing, nil),
			expect:      `{"jsonrpc":"2.0","id":2,"result":{}}`,
		},
		{
			description: "notifications list",
			request:     request(t, `3`, schema.MethodNotificationsList, nil),
			expect:      `{"jsonrpc":"2.0","id":3,"result":{"notifications":[]}}`,
		},
		{
			description: "prompts list",
			request:     request(t, `4`, schema.MethodPromptsList, nil),
			expect:      `{"jsonrpc":"2.0","id":4,"result":{"prompts":[]}}`,
		},
		{
			description: "resources list",
			request:     request(t, `5`, schema.MethodResourcesList, nil),
			expect:      `{"jsonrpc":"2.0","id":5,"result":{"resources":[]}}`,
		},
		{
			description: "unknown method",
			request:     request(t, `2`, "bogus/method", nil),
			expect:      `{"jsonrpc":"2.0","id":2,"error":{"code":-32601,"message":"Unknown method: bogus/method"}}`,
		},
		{
			description: "tool call by alias",
			request:     request(t, `6`, schema.MethodToolsCall, map[string]interface{}{"name": "say", "arguments": map[string]interface{}{"text": "hi"}}),
			expect:      `{"jsonrpc":"2.0","id":6,"result":{"text":"hi"}}`,
		},
		{
			description: "missing arguments default to empty object",
			request:     request(t, `7`, schema.MethodToolsCall, map[string]interface{}{"name": "echo"}),
			expect:      `{"jsonrpc":"2.0","id":7,"result":{}}`,
		},
		{
			description: "missing tool name",
			request:     request(t, `8`, schema.MethodToolsCall, map[string]interface{}{"arguments": map[string]interface{}{}}),
			expect:      `{"jsonrpc":"2.0","id":8,"error":{"code":-32602,"message":"Invalid params: name is required"}}`,
		},
		{
			description: "handler reported invalid arguments",
			request:     request(t, `9`, schema.MethodToolsCall, map[string]interface{}{"name": "fail", "arguments": map[string]interface{}{"kind": "invalid"}}),
			expect:      `{"jsonrpc":"2.0","id":9,"error":{"code":-32602,"message":"Invalid arguments: text is required"}}`,
		},
		{
			description: "untagged handler error is internal regardless of text",
			request:     request(t, `10`, schema.MethodToolsCall, map[string]interface{}{"name": "fail"}),
			expect:      `{"jsonrpc":"2.0","id":10,"error":{"code":-32603,"message":"Unknown backend failure"}}`,
		},
		{
			description: "panicking handler",
			request:     request(t, `11`, schema.MethodToolsCall, map[string]interface{}{"name": "panic"}),
			expect:      `{"jsonrpc":"2.0","id":11,"error":{"code":-32603,"message":"tool panicked: panic"}}`,
		},
		{
			description: "invalid envelope",
			request:     &codec.Request{Jsonrpc: "1.0", Method: "ping", Id: json.RawMessage(`12`)},
			expect:      `{"jsonrpc":"2.0","id":12,"error":{"code":-32600,"message":"Invalid Request: jsonrpc must be \"2.0\""}}`,
		},
	}
	handler := f.server.NewHandler(transportLocal)
	for _, testCase := range testCases {
		response := handler.Serve(context.Background(), testCase.request)
		data, err := codec.Marshal(response)
		require.NoError(t, err, testCase.description)
		assert.JSONEq(t, testCase.expect, string(data), testCase.description)
	}
	assert.Equal(t, 0, f.server.InFlight())
}

func TestHandler_Initialize(t *testing.T) {
	f := newFixture(t, WithInstructions("use tools"))
	handler := f.server.NewHandler(transportLocal)
	response := handler.Serve(context.Background(), request(t, `1`, schema.MethodInitialize, map[string]interface{}{"protocolVersion": "2024-11-05"}))
	require.Nil(t, response.Error)
	assert.Equal(t, json.RawMessage(`1`), response.Id)
	result := &InitializeResult{}
	require.NoError(t, json.Unmarshal(response.Result, result))
	assert.Equal(t, "2024-11-05", result.ProtocolVersion)
	assert.Equal(t, "mcpgate", result.ServerInfo.Name)
	assert.Equal(t, map[string]interface{}{"listChanged": false}, result.Capabilities["tools"])
	require.NotNil(t, result.Instructions)
	assert.Equal(t, "use tools", *result.Instructions)

	response = handler.Serve(context.Background(), request(t, `2`, schema.MethodInitialize, nil))
	require.Nil(t, response.Error)
	require.NoError(t, json.Unmarshal(response.Result, result))
	assert.Equal(t, f.server.protocolVersion, result.ProtocolVersion)
}

func TestHandler_UnknownToolNeverInvokesHandler(t *testing.T) {
	f := newFixture(t)
	handler := f.server.NewHandler(transportLocal)
	response := handler.Serve(context.Background(), request(t, `1`, schema.MethodToolsCall, map[string]interface{}{"name": "echo_v2", "arguments": map[string]interface{}{"text": "x"}}))
	require.NotNil(t, response.Error)
	assert.Equal(t, codec.MethodNotFound, response.Error.Code)
	assert.Equal(t, "Unknown tool: echo_v2", response.Error.Message)
	assert.Equal(t, int32(0), f.calls.Load())

	handler.Serve(context.Background(), request(t, `2`, schema.MethodToolsCall, map[string]interface{}{"name": "echo"}))
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestHandler_AliasesProduceIdenticalOutput(t *testing.T) {
	handlerFor := func() *Handler {
		return newFixture(t).server.NewHandler(transportLocal)
	}
	args := map[string]interface{}{"type": "goal", "label": "Run 5k", "userId": "u1"}
	var results []map[string]interface{}
	for _, name := range []string{"create_node", "graph_create_node", "createNode"} {
		response := handlerFor().Serve(context.Background(), request(t, `1`, schema.MethodToolsCall, map[string]interface{}{"name": name, "arguments": args}))
		require.Nil(t, response.Error, name)
		result := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(response.Result, &result))
		assert.NotEmpty(t, result["id"], name)
		delete(result, "id")
		delete(result, "created_at")
		results = append(results, result)
	}
	assert.Equal(t, map[string]interface{}{"node_type": "goal", "label": "Run 5k", "user_id": "u1"}, results[0])
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, results[0], results[2])
}

func TestHandler_InstructionsShim(t *testing.T) {
	f := newFixture(t)
	handler := f.server.NewHandler(transportLocal)
	response := handler.Serve(context.Background(), request(t, `1`, schema.MethodToolsCall, map[string]interface{}{
		"name":      "createNode",
		"arguments": map[string]interface{}{"instructions": "Create a goal to run a 5k. Soon."},
	}))
	require.Nil(t, response.Error)
	result := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(response.Result, &result))
	assert.Equal(t, "goal", result["node_type"])
	assert.Equal(t, "run a 5k", result["label"])
}

func TestHandler_ToolsListIdempotent(t *testing.T) {
	f := newFixture(t)
	handler := f.server.NewHandler(transportLocal)
	first := handler.Serve(context.Background(), request(t, `1`, schema.MethodToolsList, nil))
	require.Nil(t, first.Error)
	for i := 0; i < 3; i++ {
		next := handler.Serve(context.Background(), request(t, `1`, schema.MethodToolsList, nil))
		assert.JSONEq(t, string(first.Result), string(next.Result))
	}
	listed := &ListToolsResult{}
	require.NoError(t, json.Unmarshal(first.Result, listed))
	assert.Equal(t, f.server.Registry().Len(), len(listed.Tools))
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestHandler_ToolTimeout(t *testing.T) {
	f := newFixture(t, WithToolTimeout(20*time.Millisecond))
	handler := f.server.NewHandler(transportLocal)
	started := time.Now()
	response := handler.Serve(context.Background(), request(t, `1`, schema.MethodToolsCall, map[string]interface{}{"name": "slow"}))
	require.NotNil(t, response.Error)
	assert.Equal(t, codec.InternalError, response.Error.Code)
	assert.Equal(t, "tool call timed out: slow", response.Error.Message)
	assert.Less(t, time.Since(started), 2*time.Second)
	assert.Contains(t, scrape(t, f.metrics), `mcpgate_tool_calls_total{status="timeout",tool="slow"} 1`)
}

func scrape(t *testing.T, metrics *telemetry.Metrics) string {
	recorder := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	return recorder.Body.String()
}

func TestServer_ShutdownCancelsInFlightCalls(t *testing.T) {
	f := newFixture(t)
	handler := f.server.NewHandler(transportLocal)
	done := make(chan *codec.Response, 1)
	go func() {
		done <- handler.Serve(context.Background(), request(t, `1`, schema.MethodToolsCall, map[string]interface{}{"name": "slow"}))
	}()
	require.Eventually(t, func() bool { return f.server.InFlight() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, f.server.Shutdown(context.Background()))
	select {
	case response := <-done:
		require.NotNil(t, response.Error)
		assert.Equal(t, codec.InternalError, response.Error.Code)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight call was not cancelled")
	}
}

func TestNew_RequiresRegistry(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
}
