package graph

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mcpgate/schema"
)

func newService() *Service {
	srv := New(NewMemoryStore())
	seq := 0
	srv.newID = func() string {
		seq++
		return fmt.Sprintf("n%d", seq)
	}
	srv.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return srv
}

func TestService_CreateNode(t *testing.T) {
	ctx := context.Background()
	var testCases = []struct {
		description string
		args        map[string]interface{}
		expect      *Node
		expectKind  schema.Kind
		expectErr   bool
	}{
		{
			description: "explicit fields",
			args:        map[string]interface{}{"type": "goal", "label": "Run 5k", "userId": "u1"},
			expect:      &Node{ID: "n1", Type: "goal", Label: "Run 5k", UserID: "u1"},
		},
		{
			description: "snake case spelling",
			args:        map[string]interface{}{"node_type": "Task", "title": "Buy shoes", "user_id": "u2", "properties": map[string]interface{}{"priority": "high"}},
			expect:      &Node{ID: "n1", Type: "task", Label: "Buy shoes", UserID: "u2", Properties: map[string]interface{}{"priority": "high"}},
		},
		{
			description: "default user",
			args:        map[string]interface{}{"type": "note", "label": "x"},
			expect:      &Node{ID: "n1", Type: "note", Label: "x", UserID: defaultUserID},
		},
		{
			description: "missing label",
			args:        map[string]interface{}{"type": "goal"},
			expectErr:   true,
			expectKind:  schema.KindInvalid,
		},
		{
			description: "missing type",
			args:        map[string]interface{}{"label": "Run"},
			expectErr:   true,
			expectKind:  schema.KindInvalid,
		},
	}
	for _, testCase := range testCases {
		srv := newService()
		result, err := srv.CreateNode(ctx, testCase.args)
		if testCase.expectErr {
			require.Error(t, err, testCase.description)
			assert.Equal(t, testCase.expectKind, schema.KindOf(err), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		node := result.(*Node)
		testCase.expect.CreatedAt = srv.now()
		assert.Equal(t, testCase.expect, node, testCase.description)
		stored, ok, err := srv.store.Node(ctx, node.ID)
		require.NoError(t, err)
		assert.True(t, ok, testCase.description)
		assert.Equal(t, node, stored, testCase.description)
	}
}

func TestService_Edges(t *testing.T) {
	ctx := context.Background()
	srv := newService()
	_, err := srv.CreateNode(ctx, map[string]interface{}{"type": "goal", "label": "Run 5k", "userId": "u1"})
	require.NoError(t, err)
	_, err = srv.CreateNode(ctx, map[string]interface{}{"type": "habit", "label": "Jog daily", "userId": "u1"})
	require.NoError(t, err)

	result, err := srv.CreateEdge(ctx, map[string]interface{}{"sourceId": "n2", "targetId": "n1", "type": "supports"})
	require.NoError(t, err)
	assert.Equal(t, "supports", result.(*Edge).Type)

	_, err = srv.CreateEdge(ctx, map[string]interface{}{"sourceId": "n2", "targetId": "missing"})
	assert.Equal(t, schema.KindInvalid, schema.KindOf(err))

	result, err = srv.GetNode(ctx, map[string]interface{}{"id": "n1"})
	require.NoError(t, err)
	edges := result.(map[string]interface{})["edges"].([]*Edge)
	require.Len(t, edges, 1)
	assert.Equal(t, "n2", edges[0].SourceID)

	result, err = srv.DeleteNode(ctx, map[string]interface{}{"id": "n2"})
	require.NoError(t, err)
	assert.Equal(t, true, result.(map[string]interface{})["deleted"])

	result, err = srv.GetNode(ctx, map[string]interface{}{"id": "n1"})
	require.NoError(t, err)
	assert.Len(t, result.(map[string]interface{})["edges"].([]*Edge), 0)

	_, err = srv.GetNode(ctx, map[string]interface{}{"id": "n2"})
	assert.Equal(t, schema.KindInvalid, schema.KindOf(err))
}

func TestService_DeleteNodeWithSelfLoop(t *testing.T) {
	ctx := context.Background()
	srv := newService()
	for _, label := range []string{"a", "b", "c"} {
		_, err := srv.CreateNode(ctx, map[string]interface{}{"type": "goal", "label": label, "userId": "u1"})
		require.NoError(t, err)
	}
	for _, target := range []string{"n1", "n2", "n3"} {
		_, err := srv.CreateEdge(ctx, map[string]interface{}{"sourceId": "n1", "targetId": target})
		require.NoError(t, err)
	}

	result, err := srv.DeleteNode(ctx, map[string]interface{}{"id": "n1"})
	require.NoError(t, err)
	assert.Equal(t, true, result.(map[string]interface{})["deleted"])

	for _, id := range []string{"n2", "n3"} {
		result, err = srv.GetNode(ctx, map[string]interface{}{"id": id})
		require.NoError(t, err)
		assert.Empty(t, result.(map[string]interface{})["edges"].([]*Edge), id)
	}
	edges, err := srv.store.Edges(ctx, "n1")
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestService_ListNodes(t *testing.T) {
	ctx := context.Background()
	srv := newService()
	for _, args := range []map[string]interface{}{
		{"type": "goal", "label": "a", "userId": "u1"},
		{"type": "task", "label": "b", "userId": "u1"},
		{"type": "goal", "label": "c", "userId": "u2"},
	} {
		_, err := srv.CreateNode(ctx, args)
		require.NoError(t, err)
	}
	result, err := srv.ListNodes(ctx, map[string]interface{}{"userId": "u1"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.(map[string]interface{})["count"])

	result, err = srv.ListNodes(ctx, map[string]interface{}{"type": "goal", "limit": float64(1)})
	require.NoError(t, err)
	nodes := result.(map[string]interface{})["nodes"].([]*Node)
	require.Len(t, nodes, 1)
	assert.Equal(t, "a", nodes[0].Label)

	for _, limit := range []interface{}{float64(0), 1.9, 1e300, "ten"} {
		_, err = srv.ListNodes(ctx, map[string]interface{}{"limit": limit})
		assert.Equal(t, schema.KindInvalid, schema.KindOf(err), limit)
	}
}

func TestService_Entries(t *testing.T) {
	entries, err := newService().Entries()
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, ToolCreateNode, entries[0].Name())
	assert.Equal(t, []string{"graph_create_node", "createNode"}, entries[0].Aliases)
	assert.NotNil(t, entries[0].Adapt)
	assert.Nil(t, entries[1].Adapt)
	assert.Equal(t, []string{"type", "label"}, entries[0].Descriptor.InputSchema.Required)
}
