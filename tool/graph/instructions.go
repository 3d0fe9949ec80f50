package graph

import (
	"regexp"
	"strings"

	"github.com/viant/mcpgate/internal/conv"
)

const maxInferredLabel = 120

// nodeKeywords is scanned in order; the first keyword found decides the type.
var nodeKeywords = []struct {
	keyword  string
	nodeType string
}{
	{"milestone", "milestone"},
	{"goal", "goal"},
	{"objective", "goal"},
	{"habit", "habit"},
	{"every day", "habit"},
	{"daily", "habit"},
	{"skill", "skill"},
	{"learn", "skill"},
	{"task", "task"},
	{"todo", "task"},
	{"to-do", "task"},
	{"note", "note"},
}

var (
	quotedExpr  = regexp.MustCompile(`["“]([^"”]{2,})["”]`)
	leadingExpr = regexp.MustCompile(`(?i)^\s*(?:please\s+)?(?:create|add|make|record|set|new)\s+(?:(?:an|a|the|my)\s+)?(?:new\s+)?(?:(?:milestone|goal|objective|habit|skill|task|todo|to-do|note|node)\b\s*)?(?:(?:called|named|titled|to|for|of)\b\s*|[:\-]\s*)?`)
	userExpr    = regexp.MustCompile(`(?i)\bfor user\s+([A-Za-z0-9_\-]+)`)
)

// InferNode fills missing create_node fields from a free text "instructions"
// argument. Explicit arguments always win; args is not modified.
func InferNode(args map[string]interface{}) map[string]interface{} {
	instructions := conv.Lookup(args, "instructions")
	if instructions == "" {
		return args
	}
	ret := make(map[string]interface{}, len(args)+3)
	for k, v := range args {
		ret[k] = v
	}
	if conv.Lookup(ret, "type", "node_type", "nodeType") == "" {
		ret["type"] = inferNodeType(instructions)
	}
	if conv.Lookup(ret, "userId", "user_id", "userID") == "" {
		if match := userExpr.FindStringSubmatch(instructions); len(match) == 2 {
			ret["userId"] = match[1]
		}
	}
	if conv.Lookup(ret, "label", "title", "name") == "" {
		if label := inferLabel(instructions); label != "" {
			ret["label"] = label
		}
	}
	return ret
}

func inferNodeType(instructions string) string {
	text := strings.ToLower(instructions)
	for _, candidate := range nodeKeywords {
		if strings.Contains(text, candidate.keyword) {
			return candidate.nodeType
		}
	}
	return "note"
}

func inferLabel(instructions string) string {
	if match := quotedExpr.FindStringSubmatch(instructions); len(match) == 2 {
		return truncate(strings.TrimSpace(match[1]))
	}
	text := userExpr.ReplaceAllString(instructions, "")
	if i := strings.IndexAny(text, ".\n!?"); i > 0 {
		text = text[:i]
	}
	text = leadingExpr.ReplaceAllString(text, "")
	return truncate(strings.TrimSpace(text))
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) > maxInferredLabel {
		return string(runes[:maxInferredLabel])
	}
	return text
}
