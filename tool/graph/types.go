package graph

import (
	"context"
	"time"
)

const defaultUserID = "default"

type (
	Node struct {
		ID          string                 `json:"id"`
		Type        string                 `json:"node_type"`
		Label       string                 `json:"label"`
		UserID      string                 `json:"user_id"`
		Description string                 `json:"description,omitempty"`
		Properties  map[string]interface{} `json:"properties,omitempty"`
		CreatedAt   time.Time              `json:"created_at"`
	}

	Edge struct {
		ID        string    `json:"id"`
		SourceID  string    `json:"source_id"`
		TargetID  string    `json:"target_id"`
		Type      string    `json:"edge_type"`
		UserID    string    `json:"user_id"`
		CreatedAt time.Time `json:"created_at"`
	}

	// Filter narrows List; zero values match everything.
	Filter struct {
		UserID string
		Type   string
		Limit  int
	}

	// Store persists graph nodes and edges.
	Store interface {
		CreateNode(ctx context.Context, node *Node) error
		Node(ctx context.Context, id string) (*Node, bool, error)
		Nodes(ctx context.Context, filter *Filter) ([]*Node, error)
		DeleteNode(ctx context.Context, id string) (bool, error)
		CreateEdge(ctx context.Context, edge *Edge) error
		Edges(ctx context.Context, nodeID string) ([]*Edge, error)
	}
)

func (f *Filter) matches(node *Node) bool {
	if f == nil {
		return true
	}
	if f.UserID != "" && f.UserID != node.UserID {
		return false
	}
	if f.Type != "" && f.Type != node.Type {
		return false
	}
	return true
}
