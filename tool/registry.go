package tool

import (
	"context"
	"fmt"
	"sort"

	mcpschema "github.com/viant/mcp-protocol/schema"
)

type (
	// Handler executes a tool. Returned errors should be *schema.Error so that
	// they map onto a specific protocol code.
	Handler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

	// Adapter rewrites loosely specified arguments before strict dispatch.
	Adapter func(args map[string]interface{}) map[string]interface{}

	// Entry declares one canonical tool: its descriptor, handler and accepted spellings.
	Entry struct {
		Descriptor mcpschema.Tool
		Handler    Handler
		Aliases    []string
		Adapt      Adapter
	}

	// Registry is an immutable catalog built once at startup.
	Registry struct {
		entries     map[string]*Entry
		aliases     map[string]string
		descriptors []mcpschema.Tool
	}
)

// Name returns the canonical tool name.
func (e *Entry) Name() string {
	return e.Descriptor.Name
}

// NewRegistry builds a registry; descriptors and alias table are derived from
// the same entries so that tools/list always matches dispatch.
func NewRegistry(entries ...*Entry) (*Registry, error) {
	ret := &Registry{
		entries: make(map[string]*Entry, len(entries)),
		aliases: make(map[string]string),
	}
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		name := entry.Name()
		if name == "" {
			return nil, fmt.Errorf("tool name was empty")
		}
		if entry.Handler == nil {
			return nil, fmt.Errorf("tool %v: handler was nil", name)
		}
		if _, ok := ret.entries[name]; ok {
			return nil, fmt.Errorf("tool %v: already registered", name)
		}
		ret.entries[name] = entry
		for _, spelling := range append([]string{name}, entry.Aliases...) {
			if owner, ok := ret.aliases[spelling]; ok && owner != name {
				return nil, fmt.Errorf("tool %v: alias %v already maps to %v", name, spelling, owner)
			}
			ret.aliases[spelling] = name
		}
		ret.descriptors = append(ret.descriptors, entry.Descriptor)
	}
	// a canonical name can not be shadowed by another tool's alias
	for name := range ret.entries {
		if owner := ret.aliases[name]; owner != name {
			return nil, fmt.Errorf("tool %v: name is used as alias of %v", name, owner)
		}
	}
	return ret, nil
}

// MustRegistry is NewRegistry that panics on error.
func MustRegistry(entries ...*Entry) *Registry {
	ret, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return ret
}

// Descriptors returns a copy of tool descriptors in registration order.
func (r *Registry) Descriptors() []mcpschema.Tool {
	ret := make([]mcpschema.Tool, len(r.descriptors))
	copy(ret, r.descriptors)
	return ret
}

// Resolve maps any accepted spelling onto its canonical name.
func (r *Registry) Resolve(name string) (string, bool) {
	canonical, ok := r.aliases[name]
	return canonical, ok
}

// Lookup returns the entry for name or any of its aliases.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	canonical, ok := r.Resolve(name)
	if !ok {
		return nil, false
	}
	entry, ok := r.entries[canonical]
	return entry, ok
}

// Aliases returns all accepted spellings of canonical, sorted.
func (r *Registry) Aliases(canonical string) []string {
	var ret []string
	for alias, owner := range r.aliases {
		if owner == canonical {
			ret = append(ret, alias)
		}
	}
	sort.Strings(ret)
	return ret
}

// Len returns the number of canonical tools.
func (r *Registry) Len() int {
	return len(r.entries)
}
