package server

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"

	"github.com/viant/mcpgate/codec"
	"github.com/viant/mcpgate/schema"
)

// Adapter calls the router in process, going through the same envelope path as remote clients.
type Adapter struct {
	handler *Handler
	seq     atomic.Int64
}

// AsClient returns an in-process client of the server.
func (s *Server) AsClient() *Adapter {
	return &Adapter{handler: s.NewHandler(transportLocal)}
}

func (a *Adapter) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	request := &codec.Request{Jsonrpc: codec.Version, Method: method, Id: json.RawMessage(strconv.FormatInt(a.seq.Add(1), 10))}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return err
		}
		request.Params = data
	}
	response := a.handler.Serve(ctx, request)
	if response.Error != nil {
		return response.Error
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(response.Result, result)
}

// Initialize initializes the client
func (a *Adapter) Initialize(ctx context.Context) (*InitializeResult, error) {
	result := &InitializeResult{}
	if err := a.call(ctx, schema.MethodInitialize, &InitializeParams{}, result); err != nil {
		return nil, err
	}
	if err := a.call(ctx, schema.MethodNotificationInitialized, nil, nil); err != nil {
		return nil, err
	}
	return result, nil
}

// Ping pings the server
func (a *Adapter) Ping(ctx context.Context) error {
	return a.call(ctx, schema.MethodPing, nil, nil)
}

// ListTools lists tools
func (a *Adapter) ListTools(ctx context.Context) (*ListToolsResult, error) {
	result := &ListToolsResult{}
	if err := a.call(ctx, schema.MethodToolsList, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

// CallTool calls a tool and decodes its result into result when not nil.
func (a *Adapter) CallTool(ctx context.Context, name string, args map[string]interface{}, result interface{}) error {
	return a.call(ctx, schema.MethodToolsCall, &CallToolParams{Name: name, Arguments: args}, result)
}
