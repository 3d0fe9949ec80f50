package graph

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps the graph in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	order []string
	edges map[string][]*Edge
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]*Node),
		edges: make(map[string][]*Edge),
	}
}

func (s *MemoryStore) CreateNode(_ context.Context, node *Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[node.ID]; ok {
		return fmt.Errorf("node %v already exists", node.ID)
	}
	clone := *node
	s.nodes[node.ID] = &clone
	s.order = append(s.order, node.ID)
	return nil
}

func (s *MemoryStore) Node(_ context.Context, id string) (*Node, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[id]
	if !ok {
		return nil, false, nil
	}
	clone := *node
	return &clone, true, nil
}

// Nodes returns matching nodes in creation order.
func (s *MemoryStore) Nodes(_ context.Context, filter *Filter) ([]*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ret []*Node
	for _, id := range s.order {
		node, ok := s.nodes[id]
		if !ok || !filter.matches(node) {
			continue
		}
		clone := *node
		ret = append(ret, &clone)
		if filter != nil && filter.Limit > 0 && len(ret) >= filter.Limit {
			break
		}
	}
	return ret, nil
}

// DeleteNode removes the node together with its edges.
func (s *MemoryStore) DeleteNode(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[id]; !ok {
		return false, nil
	}
	delete(s.nodes, id)
	for i, candidate := range s.order {
		if candidate == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for _, edge := range s.edges[id] {
		other := edge.TargetID
		if other == id {
			other = edge.SourceID
		}
		if other == id {
			continue // self loop, dropped with s.edges[id]
		}
		s.edges[other] = removeEdge(s.edges[other], edge.ID)
	}
	delete(s.edges, id)
	return true, nil
}

func removeEdge(edges []*Edge, id string) []*Edge {
	ret := edges[:0]
	for _, edge := range edges {
		if edge.ID != id {
			ret = append(ret, edge)
		}
	}
	return ret
}

func (s *MemoryStore) CreateEdge(_ context.Context, edge *Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range []string{edge.SourceID, edge.TargetID} {
		if _, ok := s.nodes[id]; !ok {
			return fmt.Errorf("node %v does not exist", id)
		}
	}
	clone := *edge
	s.edges[edge.SourceID] = append(s.edges[edge.SourceID], &clone)
	if edge.TargetID != edge.SourceID {
		s.edges[edge.TargetID] = append(s.edges[edge.TargetID], &clone)
	}
	return nil
}

func (s *MemoryStore) Edges(_ context.Context, nodeID string) ([]*Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]*Edge, 0, len(s.edges[nodeID]))
	for _, edge := range s.edges[nodeID] {
		clone := *edge
		ret = append(ret, &clone)
	}
	return ret, nil
}
