package graph

import (
	"context"
	"fmt"
	"slices"

	"github.com/sunbun/assistant/pkg/domain"
)

// NodeID names a node in the graph. The zero value is the terminal marker.
type NodeID string

// End terminates a run when returned by a router.
const End NodeID = ""

// Node computes a patch from the current state. Nodes must be pure with
// respect to the state: all reads go through the argument, all writes come
// back in the patch. Re-running a node against the state it produced must
// yield a zero patch.
type Node func(ctx context.Context, s *domain.State) (domain.Patch, error)

// Router picks the next node from the state, or End to finish the run.
type Router func(s *domain.State) NodeID

// UnknownNodeError is returned when a router targets a node that was never
// registered. It points at a wiring bug, not bad input.
type UnknownNodeError struct {
	From NodeID
	To   NodeID
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("graph: router on %q returned unknown node %q", e.From, e.To)
}

// Graph is an immutable flow definition once validated.
type Graph struct {
	entry   NodeID
	nodes   map[NodeID]Node
	edges   map[NodeID]NodeID
	routers map[NodeID]Router
}

// New creates an empty graph rooted at the given entry node.
func New(entry NodeID) *Graph {
	return &Graph{
		entry:   entry,
		nodes:   make(map[NodeID]Node),
		edges:   make(map[NodeID]NodeID),
		routers: make(map[NodeID]Router),
	}
}

// Entry returns the configured entry node.
func (g *Graph) Entry() NodeID { return g.entry }

// Edges returns the static edges, keyed by source node.
func (g *Graph) Edges() map[NodeID]NodeID {
	out := make(map[NodeID]NodeID, len(g.edges))
	for from, to := range g.edges {
		out[from] = to
	}
	return out
}

// Routed reports whether the node's successor is chosen dynamically.
func (g *Graph) Routed(id NodeID) bool {
	_, ok := g.routers[id]
	return ok
}

// Nodes returns the registered node IDs in sorted order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// AddNode registers a node under an ID. Re-registering an ID panics: graphs
// are assembled once at startup and a duplicate is a programming error.
func (g *Graph) AddNode(id NodeID, n Node) *Graph {
	if id == End {
		panic("graph: node id must not be the terminal marker")
	}
	if _, dup := g.nodes[id]; dup {
		panic(fmt.Sprintf("graph: duplicate node %q", id))
	}
	g.nodes[id] = n
	return g
}

// AddEdge connects a node to a fixed successor.
func (g *Graph) AddEdge(from, to NodeID) *Graph {
	if _, dup := g.edges[from]; dup {
		panic(fmt.Sprintf("graph: duplicate edge from %q", from))
	}
	if _, dup := g.routers[from]; dup {
		panic(fmt.Sprintf("graph: node %q already has a router", from))
	}
	g.edges[from] = to
	return g
}

// AddRouter attaches a conditional successor to a node.
func (g *Graph) AddRouter(from NodeID, r Router) *Graph {
	if _, dup := g.routers[from]; dup {
		panic(fmt.Sprintf("graph: duplicate router on %q", from))
	}
	if _, dup := g.edges[from]; dup {
		panic(fmt.Sprintf("graph: node %q already has an edge", from))
	}
	g.routers[from] = r
	return g
}

// Validate checks that the entry exists, every edge target is registered,
// and every node has a successor (edge or router). Routers are opaque, so
// their targets are checked at run time instead.
func (g *Graph) Validate() error {
	if _, ok := g.nodes[g.entry]; !ok {
		return fmt.Errorf("graph: entry node %q is not registered", g.entry)
	}
	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return fmt.Errorf("graph: edge source %q is not registered", from)
		}
		if to != End {
			if _, ok := g.nodes[to]; !ok {
				return fmt.Errorf("graph: edge %q -> %q targets an unknown node", from, to)
			}
		}
	}
	for from := range g.routers {
		if _, ok := g.nodes[from]; !ok {
			return fmt.Errorf("graph: router source %q is not registered", from)
		}
	}
	for id := range g.nodes {
		_, hasEdge := g.edges[id]
		_, hasRouter := g.routers[id]
		if !hasEdge && !hasRouter {
			return fmt.Errorf("graph: node %q has no successor", id)
		}
	}
	return nil
}

// next resolves the successor of a node against the state.
func (g *Graph) next(id NodeID, s *domain.State) (NodeID, error) {
	if to, ok := g.edges[id]; ok {
		return to, nil
	}
	if r, ok := g.routers[id]; ok {
		to := r(s)
		if to != End {
			if _, known := g.nodes[to]; !known {
				return End, &UnknownNodeError{From: id, To: to}
			}
		}
		return to, nil
	}
	return End, fmt.Errorf("graph: node %q has no successor", id)
}
