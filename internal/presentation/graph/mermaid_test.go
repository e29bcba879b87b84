package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	presentation "github.com/sunbun/assistant/internal/presentation/graph"
	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/graph"
)

func noopNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	return domain.Patch{}, nil
}

func TestGenerateMermaid(t *testing.T) {
	g := graph.New("start")
	g.AddNode("start", noopNode)
	g.AddNode("ask-name", noopNode)
	g.AddNode("done", noopNode)
	g.AddEdge("start", "ask-name")
	g.AddRouter("ask-name", func(s *domain.State) graph.NodeID { return "done" })
	g.AddEdge("done", graph.End)
	require.NoError(t, g.Validate())

	out := presentation.GenerateMermaid(g)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `start(("start"))`)
	assert.Contains(t, out, "start --> ask_name")
	assert.Contains(t, out, `ask_name -.-> ask_name_router{"?"}`)
	// Hyphens are not valid Mermaid IDs but labels keep the original.
	assert.Contains(t, out, `ask_name["ask-name"]`)
	// Terminal edge renders no arrow.
	assert.NotContains(t, out, "done --> ")
}
