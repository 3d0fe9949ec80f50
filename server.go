package mcpgate

import (
	"fmt"
	"net/http"
	"time"

	"github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcpgate/server"
	"github.com/viant/mcpgate/tool"
	"github.com/viant/mcpgate/tool/graph"
	"github.com/viant/mcpgate/tool/search"
)

// ServerOptions defines options for configuring a gateway server.
type ServerOptions struct {
	Name            string           `yaml:"name" json:"name"`
	Version         string           `yaml:"version" json:"version"`
	ProtocolVersion string           `yaml:"protocol" json:"protocol"`
	Instructions    string           `yaml:"instructions" json:"instructions"`
	ToolTimeout     time.Duration    `yaml:"toolTimeout" json:"toolTimeout"`
	Transport       *ServerTransport `yaml:"transport" json:"transport"`
}

type ServerTransport struct {
	Type           string                      `yaml:"type" json:"type"`
	Options        *ServerTransportOptions     `yaml:"options" json:"options"`
	CustomHandlers map[string]http.HandlerFunc `yaml:"-" json:"-"`
}

type ServerTransportOptions struct {
	Port              int           `yaml:"port" json:"port"`
	Addr              string        `yaml:"addr" json:"addr"`
	Cors              *server.Cors  `yaml:"cors" json:"cors"`
	SSEURI            string        `yaml:"sseURI" json:"sseURI"`
	MessageURI        string        `yaml:"messageURI" json:"messageURI"`
	HeartbeatInterval time.Duration `yaml:"heartbeatInterval" json:"heartbeatInterval"`
	SessionIdleTTL    time.Duration `yaml:"sessionIdleTTL" json:"sessionIdleTTL"`
	SweepInterval     time.Duration `yaml:"sweepInterval" json:"sweepInterval"`
	StrictSessions    bool          `yaml:"strictSessions" json:"strictSessions"`
}

// NewServer creates a gateway server for registry; extra options are applied last.
func NewServer(registry *tool.Registry, options *ServerOptions, extra ...server.Option) (*server.Server, error) {
	if registry == nil {
		return nil, fmt.Errorf("tool registry was nil")
	}
	var serverOptions []server.Option
	serverOptions = append(serverOptions, server.WithRegistry(registry))

	if options != nil {
		if options.Name != "" || options.Version != "" {
			impl := schema.Implementation{
				Name:    options.Name,
				Version: options.Version,
			}
			serverOptions = append(serverOptions, server.WithImplementation(impl))
		}
		if options.ProtocolVersion != "" {
			serverOptions = append(serverOptions, server.WithProtocolVersion(options.ProtocolVersion))
		}
		if options.Instructions != "" {
			serverOptions = append(serverOptions, server.WithInstructions(options.Instructions))
		}
		if options.ToolTimeout > 0 {
			serverOptions = append(serverOptions, server.WithToolTimeout(options.ToolTimeout))
		}
		if options.Transport != nil {
			if transportOptions := options.Transport.Options; transportOptions != nil {
				serverOptions = append(serverOptions, transportOptions.serverOptions()...)
			}
			for path, handler := range options.Transport.CustomHandlers {
				serverOptions = append(serverOptions, server.WithCustomHTTPHandler(path, handler))
			}
		}
	}
	serverOptions = append(serverOptions, extra...)
	return server.New(serverOptions...)
}

func (o *ServerTransportOptions) serverOptions() []server.Option {
	var ret []server.Option
	switch {
	case o.Addr != "":
		ret = append(ret, server.WithAddr(o.Addr))
	case o.Port > 0:
		ret = append(ret, server.WithAddr(fmt.Sprintf(":%v", o.Port)))
	}
	if o.Cors != nil {
		ret = append(ret, server.WithCORS(o.Cors))
	}
	if o.SSEURI != "" {
		ret = append(ret, server.WithSSEURI(o.SSEURI))
	}
	if o.MessageURI != "" {
		ret = append(ret, server.WithMessageURI(o.MessageURI))
	}
	if o.HeartbeatInterval > 0 {
		ret = append(ret, server.WithHeartbeatInterval(o.HeartbeatInterval))
	}
	if o.SessionIdleTTL > 0 {
		ret = append(ret, server.WithSessionIdleTTL(o.SessionIdleTTL, o.SweepInterval))
	}
	if o.StrictSessions {
		ret = append(ret, server.WithStrictSessions(true))
	}
	return ret
}

// NewRegistry registers the graph and search tools over store.
func NewRegistry(store graph.Store, searchOptions ...search.Option) (*tool.Registry, error) {
	graphEntries, err := graph.New(store).Entries()
	if err != nil {
		return nil, err
	}
	searchEntries, err := search.New(store, searchOptions...).Entries()
	if err != nil {
		return nil, err
	}
	return tool.NewRegistry(append(graphEntries, searchEntries...)...)
}
