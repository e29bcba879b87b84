// Package graph renders the conversation graph as a Mermaid flowchart for
// documentation and debugging.
package graph

import (
	"fmt"
	"strings"

	"github.com/sunbun/assistant/pkg/graph"
)

// GenerateMermaid produces Mermaid flowchart syntax from a validated graph.
// Semantic styling:
// - Entry node: ((Circle))
// - Routed node (dynamic successor): {Diamond} decision marker
// - Static edge: solid arrow
func GenerateMermaid(g *graph.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	edges := g.Edges()
	for _, id := range g.Nodes() {
		safeID := sanitizeMermaidID(string(id))

		opener, closer := "[", "]"
		if id == g.Entry() {
			opener, closer = "((", "))" // Circle
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, id, closer))

		if to, ok := edges[id]; ok && to != graph.End {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(string(to))))
		}
		if g.Routed(id) {
			// Routers pick the successor at run time, so render a decision
			// marker instead of guessing targets.
			sb.WriteString(fmt.Sprintf("    %s -.-> %s_router{\"?\"}\n", safeID, safeID))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
