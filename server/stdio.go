package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
	"github.com/viant/jsonrpc/transport/server/stdio"
	"github.com/viant/mcpgate/codec"
)

// Stdio returns a stdio server that reads newline delimited envelopes from
// stdin (or the stdio.WithReader source) and answers one line per request on stdout.
func (s *Server) Stdio(ctx context.Context, options ...stdio.Option) *stdio.Server {
	options = append([]stdio.Option{stdio.WithLogger(stdio.NewLogger(&stdioLogger{logger: s.logger}))}, options...)
	return stdio.New(ctx, s.newStdioHandler, options...)
}

func (s *Server) newStdioHandler(_ context.Context, _ transport.Transport) transport.Handler {
	return &stdioHandler{handler: s.NewHandler(transportStdio)}
}

// stdioHandler bridges the jsonrpc transport envelopes to the gateway router.
type stdioHandler struct {
	handler *Handler
}

func (h *stdioHandler) Serve(ctx context.Context, request *jsonrpc.Request, response *jsonrpc.Response) {
	var result *codec.Response
	envelope, rpcErr := fromTransportRequest(request)
	if rpcErr == nil {
		rpcErr = codec.Validate(envelope)
	}
	if rpcErr != nil {
		result = h.handler.setResponse(codec.ResponseID(envelope), nil, rpcErr)
	} else {
		result = h.handler.Serve(ctx, envelope)
	}
	response.Jsonrpc = codec.Version
	if len(result.Id) == 0 {
		response.Id = nil
	}
	response.Result = result.Result
	response.Error = toTransportError(result.Error)
}

// OnNotification routes id-less envelopes and drops the answer.
func (h *stdioHandler) OnNotification(ctx context.Context, notification *jsonrpc.Notification) {
	envelope := &codec.Request{Jsonrpc: notification.Jsonrpc, Method: notification.Method, Params: notification.Params}
	if codec.Validate(envelope) != nil {
		return
	}
	h.handler.Serve(ctx, envelope)
}

func fromTransportRequest(request *jsonrpc.Request) (*codec.Request, *codec.Error) {
	envelope := &codec.Request{Jsonrpc: request.Jsonrpc, Method: request.Method, Params: request.Params}
	if request.Id == nil {
		return envelope, nil
	}
	id, err := json.Marshal(request.Id)
	if err != nil {
		return envelope, &codec.Error{Code: codec.InvalidRequest, Message: "Invalid Request: " + err.Error()}
	}
	envelope.Id = id
	return envelope, nil
}

func toTransportError(rpcErr *codec.Error) *jsonrpc.Error {
	if rpcErr == nil {
		return nil
	}
	ret := &jsonrpc.Error{Code: rpcErr.Code, Message: rpcErr.Message}
	if rpcErr.Data != nil {
		if data, err := json.Marshal(rpcErr.Data); err == nil {
			ret.Data = data
		}
	}
	return ret
}

// stdioLogger routes transport errors to the gateway logger.
type stdioLogger struct {
	logger *slog.Logger
}

func (l *stdioLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...), "transport", transportStdio)
}
