package search

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/viant/mcpgate/internal/conv"
	"github.com/viant/mcpgate/schema"
	"github.com/viant/mcpgate/tool"
	"github.com/viant/mcpgate/tool/graph"
)

const (
	ToolSearchNodes = "search_nodes"

	defaultLimit = 10
	maxLimit     = 100
)

type (
	Input struct {
		Query  string `json:"query" description:"text to search for"`
		UserID string `json:"userId,omitempty"`
		Type   string `json:"type,omitempty" description:"restrict to one node type"`
		Limit  int    `json:"limit,omitempty"`
	}

	Match struct {
		Node  *graph.Node `json:"node"`
		Score float64     `json:"score"`
	}

	// FallbackRecorder counts degradations of the primary strategy.
	FallbackRecorder interface {
		IncFallback(tool string)
	}

	Option func(s *Service)

	// Service searches graph nodes.
	Service struct {
		store    graph.Store
		embedder Embedder
		logger   *slog.Logger
		recorder FallbackRecorder
	}
)

func WithEmbedder(embedder Embedder) Option {
	return func(s *Service) {
		s.embedder = embedder
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithFallbackRecorder(recorder FallbackRecorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

func New(store graph.Store, options ...Option) *Service {
	ret := &Service{store: store, logger: slog.Default()}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Search ranks nodes by embedding similarity; when the embedding provider
// fails it silently falls back to substring matching.
func (s *Service) Search(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	query := conv.Lookup(args, "query", "q", "text")
	if query == "" {
		return nil, schema.NewInvalidParams("Invalid arguments: query is required")
	}
	limit := defaultLimit
	if raw := args["limit"]; raw != nil {
		value, ok := conv.AsInt(raw)
		if !ok || value <= 0 || value > maxLimit {
			return nil, schema.NewInvalidParams("Invalid arguments: limit must be an integer between 1 and %v", maxLimit)
		}
		limit = value
	}
	candidates, err := s.store.Nodes(ctx, &graph.Filter{
		UserID: conv.Lookup(args, "userId", "user_id"),
		Type:   strings.ToLower(conv.Lookup(args, "type", "node_type")),
	})
	if err != nil {
		return nil, schema.Wrap(schema.KindInternal, err, "failed to load nodes")
	}

	var matches []*Match
	if s.embedder != nil && len(candidates) > 0 {
		matches, err = s.similarity(ctx, query, candidates)
		if err != nil {
			s.logger.Warn("vector search unavailable, falling back to substring match", "tool", ToolSearchNodes, "err", err)
			if s.recorder != nil {
				s.recorder.IncFallback(ToolSearchNodes)
			}
			matches = Substring(query, candidates)
		}
	} else {
		matches = Substring(query, candidates)
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		matches = []*Match{}
	}
	return map[string]interface{}{"query": query, "results": matches, "count": len(matches)}, nil
}

func (s *Service) similarity(ctx context.Context, query string, candidates []*graph.Node) ([]*Match, error) {
	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, query)
	for _, node := range candidates {
		texts = append(texts, nodeText(node))
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	ret := make([]*Match, 0, len(candidates))
	for i, node := range candidates {
		ret = append(ret, &Match{Node: node, Score: Cosine(vectors[0], vectors[i+1])})
	}
	sortMatches(ret)
	return ret, nil
}

// Substring matches query case-insensitively against label (score 1) and description (0.5).
func Substring(query string, candidates []*graph.Node) []*Match {
	needle := strings.ToLower(strings.TrimSpace(query))
	var ret []*Match
	for _, node := range candidates {
		switch {
		case strings.Contains(strings.ToLower(node.Label), needle):
			ret = append(ret, &Match{Node: node, Score: 1})
		case node.Description != "" && strings.Contains(strings.ToLower(node.Description), needle):
			ret = append(ret, &Match{Node: node, Score: 0.5})
		}
	}
	sortMatches(ret)
	return ret
}

// Cosine returns the cosine similarity of a and b, 0 for mismatched or zero vectors.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func sortMatches(matches []*Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}

func nodeText(node *graph.Node) string {
	if node.Description == "" {
		return node.Label
	}
	return node.Label + ": " + node.Description
}

// Entries declares the search tool.
func (s *Service) Entries() ([]*tool.Entry, error) {
	entry, err := tool.NewEntry(ToolSearchNodes, "Search graph nodes by meaning, falling back to text match", &Input{}, s.Search,
		"graph_search", "searchNodes", "vector_search")
	if err != nil {
		return nil, err
	}
	return []*tool.Entry{entry}, nil
}
