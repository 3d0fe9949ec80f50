package server

import (
	"context"
	"encoding/json"

	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcpgate/codec"
	"github.com/viant/mcpgate/schema"
)

type (
	InitializeParams struct {
		ProtocolVersion string                 `json:"protocolVersion,omitempty"`
		ClientInfo      map[string]interface{} `json:"clientInfo,omitempty"`
	}

	InitializeResult struct {
		ProtocolVersion string                   `json:"protocolVersion"`
		Capabilities    map[string]interface{}   `json:"capabilities"`
		ServerInfo      mcpschema.Implementation `json:"serverInfo"`
		Instructions    *string                  `json:"instructions,omitempty"`
	}
)

// Initialize echoes the requested protocol version with a fixed capability descriptor.
func (h *Handler) Initialize(_ context.Context, request *codec.Request) (*InitializeResult, error) {
	params := &InitializeParams{}
	if err := unmarshalParams(request, params); err != nil {
		return nil, err
	}
	version := params.ProtocolVersion
	if version == "" {
		version = h.protocolVersion
	}
	return &InitializeResult{
		ProtocolVersion: version,
		Capabilities: map[string]interface{}{
			"tools":     map[string]interface{}{"listChanged": false},
			"prompts":   map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
		ServerInfo:   h.info,
		Instructions: h.instructions,
	}, nil
}

// Initialized acknowledges the client handshake.
func (h *Handler) Initialized(_ context.Context, _ *codec.Request) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

// Ping handles the ping method
func (h *Handler) Ping(_ context.Context, _ *codec.Request) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

// ListNotifications returns an empty collection; the gateway never pushes notifications.
func (h *Handler) ListNotifications(_ context.Context, _ *codec.Request) (map[string]interface{}, error) {
	return map[string]interface{}{"notifications": []interface{}{}}, nil
}

func unmarshalParams(request *codec.Request, target interface{}) error {
	if len(request.Params) == 0 || string(request.Params) == "null" {
		return nil
	}
	if err := json.Unmarshal(request.Params, target); err != nil {
		return schema.NewInvalidParams("Invalid params: %v", err)
	}
	return nil
}
