package graph

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viant/mcpgate/internal/conv"
	"github.com/viant/mcpgate/schema"
	"github.com/viant/mcpgate/tool"
)

const (
	ToolCreateNode = "create_node"
	ToolCreateEdge = "create_edge"
	ToolGetNode    = "get_node"
	ToolListNodes  = "list_nodes"
	ToolDeleteNode = "delete_node"

	defaultEdgeType  = "related_to"
	defaultListLimit = 50
	maxListLimit     = 500
)

type (
	CreateNodeInput struct {
		Type         string                 `json:"type" description:"node type, e.g. goal, task, habit, milestone, skill, note"`
		Label        string                 `json:"label" description:"short human readable label"`
		UserID       string                 `json:"userId,omitempty" description:"owner of the node"`
		Description  string                 `json:"description,omitempty"`
		Properties   map[string]interface{} `json:"properties,omitempty"`
		Instructions string                 `json:"instructions,omitempty" description:"free text used to infer missing fields"`
	}

	CreateEdgeInput struct {
		SourceID string `json:"sourceId" description:"source node id"`
		TargetID string `json:"targetId" description:"target node id"`
		Type     string `json:"type,omitempty" description:"relation type, defaults to related_to"`
		UserID   string `json:"userId,omitempty"`
	}

	NodeInput struct {
		ID string `json:"id" description:"node id"`
	}

	ListNodesInput struct {
		UserID string `json:"userId,omitempty"`
		Type   string `json:"type,omitempty"`
		Limit  int    `json:"limit,omitempty"`
	}
)

// Service exposes graph operations as tool handlers.
type Service struct {
	store Store
	now   func() time.Time
	newID func() string
}

func New(store Store) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Service{store: store, now: time.Now, newID: uuid.NewString}
}

// Store returns the backing store.
func (s *Service) Store() Store {
	return s.store
}

// CreateNode stores a new node built from args.
func (s *Service) CreateNode(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	node := &Node{
		ID:          s.newID(),
		Type:        strings.ToLower(conv.Lookup(args, "type", "node_type", "nodeType")),
		Label:       conv.Lookup(args, "label", "title", "name"),
		UserID:      userID(args),
		Description: conv.Lookup(args, "description"),
		CreatedAt:   s.now().UTC(),
	}
	if properties, ok := conv.AsStringMap(args["properties"]); ok && len(properties) > 0 {
		node.Properties = properties
	}
	if node.Type == "" {
		return nil, schema.NewInvalidParams("Invalid arguments: type is required")
	}
	if node.Label == "" {
		return nil, schema.NewInvalidParams("Invalid arguments: label is required")
	}
	if err := s.store.CreateNode(ctx, node); err != nil {
		return nil, schema.Wrap(schema.KindInternal, err, "failed to create node")
	}
	return node, nil
}

// CreateEdge links two existing nodes.
func (s *Service) CreateEdge(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	edge := &Edge{
		ID:        s.newID(),
		SourceID:  conv.Lookup(args, "sourceId", "source_id", "source", "from"),
		TargetID:  conv.Lookup(args, "targetId", "target_id", "target", "to"),
		Type:      strings.ToLower(conv.Lookup(args, "type", "edge_type", "relation")),
		UserID:    userID(args),
		CreatedAt: s.now().UTC(),
	}
	if edge.SourceID == "" || edge.TargetID == "" {
		return nil, schema.NewInvalidParams("Invalid arguments: sourceId and targetId are required")
	}
	if edge.Type == "" {
		edge.Type = defaultEdgeType
	}
	for _, id := range []string{edge.SourceID, edge.TargetID} {
		_, ok, err := s.store.Node(ctx, id)
		if err != nil {
			return nil, schema.Wrap(schema.KindInternal, err, "failed to load node %v", id)
		}
		if !ok {
			return nil, schema.NewInvalidParams("Invalid arguments: node %v not found", id)
		}
	}
	if err := s.store.CreateEdge(ctx, edge); err != nil {
		return nil, schema.Wrap(schema.KindInternal, err, "failed to create edge")
	}
	return edge, nil
}

// GetNode returns a node with its edges.
func (s *Service) GetNode(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id := conv.Lookup(args, "id", "nodeId", "node_id")
	if id == "" {
		return nil, schema.NewInvalidParams("Invalid arguments: id is required")
	}
	node, ok, err := s.store.Node(ctx, id)
	if err != nil {
		return nil, schema.Wrap(schema.KindInternal, err, "failed to load node %v", id)
	}
	if !ok {
		return nil, schema.NewInvalidParams("Invalid arguments: node %v not found", id)
	}
	edges, err := s.store.Edges(ctx, id)
	if err != nil {
		return nil, schema.Wrap(schema.KindInternal, err, "failed to load edges of %v", id)
	}
	return map[string]interface{}{"node": node, "edges": edges}, nil
}

// ListNodes returns nodes of a user, optionally of one type.
func (s *Service) ListNodes(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	filter := &Filter{
		UserID: conv.Lookup(args, "userId", "user_id"),
		Type:   strings.ToLower(conv.Lookup(args, "type", "node_type", "nodeType")),
		Limit:  defaultListLimit,
	}
	if raw := args["limit"]; raw != nil {
		limit, ok := conv.AsInt(raw)
		if !ok || limit <= 0 || limit > maxListLimit {
			return nil, schema.NewInvalidParams("Invalid arguments: limit must be an integer between 1 and %v", maxListLimit)
		}
		filter.Limit = limit
	}
	nodes, err := s.store.Nodes(ctx, filter)
	if err != nil {
		return nil, schema.Wrap(schema.KindInternal, err, "failed to list nodes")
	}
	if nodes == nil {
		nodes = []*Node{}
	}
	return map[string]interface{}{"nodes": nodes, "count": len(nodes)}, nil
}

// DeleteNode removes a node and its edges.
func (s *Service) DeleteNode(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id := conv.Lookup(args, "id", "nodeId", "node_id")
	if id == "" {
		return nil, schema.NewInvalidParams("Invalid arguments: id is required")
	}
	deleted, err := s.store.DeleteNode(ctx, id)
	if err != nil {
		return nil, schema.Wrap(schema.KindInternal, err, "failed to delete node %v", id)
	}
	return map[string]interface{}{"id": id, "deleted": deleted}, nil
}

// Entries declares the graph tools and their accepted spellings.
func (s *Service) Entries() ([]*tool.Entry, error) {
	var ret []*tool.Entry
	for _, def := range []struct {
		name        string
		description string
		input       interface{}
		handler     tool.Handler
		aliases     []string
		adapter     tool.Adapter
	}{
		{ToolCreateNode, "Create a graph node (goal, task, habit, ...) for a user", &CreateNodeInput{}, s.CreateNode, []string{"graph_create_node", "createNode"}, InferNode},
		{ToolCreateEdge, "Link two graph nodes", &CreateEdgeInput{}, s.CreateEdge, []string{"graph_create_edge", "createEdge"}, nil},
		{ToolGetNode, "Get a graph node with its edges", &NodeInput{}, s.GetNode, []string{"graph_get_node", "getNode"}, nil},
		{ToolListNodes, "List graph nodes of a user", &ListNodesInput{}, s.ListNodes, []string{"graph_list_nodes", "listNodes"}, nil},
		{ToolDeleteNode, "Delete a graph node and its edges", &NodeInput{}, s.DeleteNode, []string{"graph_delete_node", "deleteNode"}, nil},
	} {
		entry, err := tool.NewEntry(def.name, def.description, def.input, def.handler, def.aliases...)
		if err != nil {
			return nil, err
		}
		if def.adapter != nil {
			entry.WithAdapter(def.adapter)
		}
		ret = append(ret, entry)
	}
	return ret, nil
}

func userID(args map[string]interface{}) string {
	if id := conv.Lookup(args, "userId", "user_id", "userID"); id != "" {
		return id
	}
	return defaultUserID
}
