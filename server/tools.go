package server

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"time"

	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcpgate/codec"
	"github.com/viant/mcpgate/internal/telemetry"
	"github.com/viant/mcpgate/schema"
	"github.com/viant/mcpgate/tool"
)

type (
	ListToolsResult struct {
		Tools []mcpschema.Tool `json:"tools"`
	}

	CallToolParams struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments,omitempty"`
	}

	callOutcome struct {
		result interface{}
		err    error
	}
)

// ListTools handles the tools/list method
func (h *Handler) ListTools(_ context.Context, _ *codec.Request) (*ListToolsResult, error) {
	return &ListToolsResult{Tools: h.registry.Descriptors()}, nil
}

// CallTool resolves the tool name through the alias table and runs its handler.
func (h *Handler) CallTool(ctx context.Context, request *codec.Request) (interface{}, error) {
	params := &CallToolParams{}
	if err := unmarshalParams(request, params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, schema.NewInvalidParams("Invalid params: name is required")
	}
	entry, ok := h.registry.Lookup(params.Name)
	if !ok {
		h.logger.Debug("unknown tool", "tool", params.Name, "transport", h.transport)
		return nil, schema.NewUnknownTool(params.Name)
	}
	args := params.Arguments
	if args == nil {
		args = map[string]interface{}{}
	}
	if entry.Adapt != nil {
		args = entry.Adapt(args)
	}
	return h.invoke(ctx, entry, args)
}

func (h *Handler) invoke(ctx context.Context, entry *tool.Entry, args map[string]interface{}) (interface{}, error) {
	name := entry.Name()
	started := h.now()
	if h.toolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.toolTimeout)
		defer cancel()
	}
	outcome := make(chan callOutcome, 1)
	go func() {
		result, err := safeCall(ctx, h.logger, name, entry.Handler, args)
		outcome <- callOutcome{result: result, err: err}
	}()
	select {
	case out := <-outcome:
		h.observeCall(name, started, out.err)
		return out.result, out.err
	case <-ctx.Done():
		elapsed := h.now().Sub(started)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			h.metrics.ObserveToolCall(name, telemetry.StatusTimeout, elapsed)
			h.logger.Warn("tool call timed out", "tool", name, "timeout", h.toolTimeout)
			return nil, schema.NewInternal("tool call timed out: %v", name)
		}
		h.metrics.ObserveToolCall(name, telemetry.StatusError, elapsed)
		return nil, schema.Wrap(schema.KindInternal, ctx.Err(), "tool call cancelled: %v", name)
	}
}

func (h *Handler) observeCall(name string, started time.Time, err error) {
	elapsed := h.now().Sub(started)
	if err == nil {
		h.metrics.ObserveToolCall(name, telemetry.StatusOK, elapsed)
		h.logger.Debug("tool call", "tool", name, "elapsed", elapsed, "transport", h.transport)
		return
	}
	h.metrics.ObserveToolCall(name, telemetry.StatusError, elapsed)
	if schema.KindOf(err) == schema.KindInternal {
		h.logger.Error("tool call failed", "tool", name, "err", err, "transport", h.transport)
		return
	}
	h.logger.Debug("tool call rejected", "tool", name, "err", err, "transport", h.transport)
}

func safeCall(ctx context.Context, logger *slog.Logger, name string, handler tool.Handler, args map[string]interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("tool panicked", "tool", name, "panic", r, "stack", string(debug.Stack()))
			err = schema.NewInternal("tool panicked: %v", name)
		}
	}()
	return handler(ctx, args)
}
