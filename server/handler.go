package server

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/viant/mcpgate/codec"
	"github.com/viant/mcpgate/schema"
)

const (
	transportHTTP  = "http"
	transportRelay = "relay"
	transportStdio = "stdio"
	transportLocal = "local"
)

// Handler dispatches validated envelopes for one transport.
type Handler struct {
	*Server
	transport string
}

// NewHandler creates a handler bound to transport, used for metrics and logging.
func (s *Server) NewHandler(transport string) *Handler {
	return &Handler{Server: s, transport: transport}
}

// Serve handles one validated JSON-RPC request and always returns a response envelope.
func (h *Handler) Serve(parent context.Context, request *codec.Request) *codec.Response {
	if rpcErr := codec.Validate(request); rpcErr != nil {
		return h.setResponse(codec.ResponseID(request), nil, rpcErr)
	}
	ctx, done := h.track(parent, request.Method)
	defer done()

	var result interface{}
	var err error
	switch request.Method {
	case schema.MethodInitialize:
		result, err = h.Initialize(ctx, request)
	case schema.MethodInitialized, schema.MethodNotificationInitialized:
		result, err = h.Initialized(ctx, request)
	case schema.MethodPing:
		result, err = h.Ping(ctx, request)
	case schema.MethodNotificationsList:
		result, err = h.ListNotifications(ctx, request)
	case schema.MethodPromptsList:
		result, err = h.ListPrompts(ctx, request)
	case schema.MethodResourcesList:
		result, err = h.ListResources(ctx, request)
	case schema.MethodToolsList:
		result, err = h.ListTools(ctx, request)
	case schema.MethodToolsCall:
		result, err = h.CallTool(ctx, request)
	default:
		err = schema.NewUnknownMethod(request.Method)
	}
	return h.setResponse(request.Id, result, err)
}

func (h *Handler) setResponse(id json.RawMessage, result interface{}, err error) *codec.Response {
	var response *codec.Response
	if err != nil {
		response = codec.NewErrorResponse(id, codec.FromError(err))
	} else {
		response = codec.EncodeResult(id, result)
	}
	code := "0"
	if response.Error != nil {
		code = strconv.Itoa(response.Error.Code)
	}
	h.metrics.ObserveRequest(h.transport, code)
	return response
}
