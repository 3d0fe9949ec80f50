package tool

import (
	"fmt"

	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcpgate/schema"
)

// NewEntry creates an entry whose input schema is derived from the input struct.
func NewEntry(name, description string, input interface{}, handler Handler, aliases ...string) (*Entry, error) {
	inputSchema, err := schema.LoadInputSchema(input)
	if err != nil {
		return nil, fmt.Errorf("tool %v: %w", name, err)
	}
	return &Entry{
		Descriptor: mcpschema.Tool{
			Name:        name,
			Description: &description,
			InputSchema: inputSchema,
		},
		Handler: handler,
		Aliases: aliases,
	}, nil
}

// WithAdapter sets the free-text argument adapter.
func (e *Entry) WithAdapter(adapter Adapter) *Entry {
	e.Adapt = adapter
	return e
}
