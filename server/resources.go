package server

import (
	"context"

	"github.com/viant/mcpgate/codec"
)

// ListResources handles the resources/list method; no resources are served.
func (h *Handler) ListResources(_ context.Context, _ *codec.Request) (map[string]interface{}, error) {
	return map[string]interface{}{"resources": []interface{}{}}, nil
}
