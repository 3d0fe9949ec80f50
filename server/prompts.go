package server

import (
	"context"

	"github.com/viant/mcpgate/codec"
)

// ListPrompts handles the prompts/list method; no prompts are served.
func (h *Handler) ListPrompts(_ context.Context, _ *codec.Request) (map[string]interface{}, error) {
	return map[string]interface{}{"prompts": []interface{}{}}, nil
}
