package graph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sunbun/assistant/pkg/domain"
)

// Snapshot is emitted after each node application.
type Snapshot struct {
	NodeID NodeID
	Patch  domain.Patch
	State  *domain.State
}

// YieldFunc receives snapshots during a run. Returning an error aborts the
// run and surfaces the error to the caller.
type YieldFunc func(Snapshot) error

// Engine drives a graph over a session state.
type Engine struct {
	graph  *Graph
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger for node tracing.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) { e.hooks = hooks }
}

// NewEngine validates the graph and builds an engine over it.
func NewEngine(g *Graph, opts ...EngineOption) (*Engine, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		graph:  g,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Graph returns the validated graph the engine runs.
func (e *Engine) Graph() *Graph { return e.graph }

// Stream runs the graph from its entry node, mutating state in place and
// yielding a snapshot after every node. The run stops when a node requests
// input, a router returns End, the context is cancelled, or a node or yield
// fails. There is no implicit step cap: termination is the graph's contract,
// enforced by the pause primitive.
func (e *Engine) Stream(ctx context.Context, state *domain.State, yield YieldFunc) error {
	current := e.graph.Entry()
	visited := 0
	paused := false
	defer func() {
		if e.hooks.OnRunEnd != nil {
			e.hooks.OnRunEnd(state.ThreadID, visited, paused)
		}
	}()

	for current != End {
		if err := ctx.Err(); err != nil {
			return err
		}

		node := e.graph.nodes[current]
		if e.hooks.OnNodeStart != nil {
			e.hooks.OnNodeStart(state.ThreadID, string(current))
		}
		started := time.Now()
		patch, err := node(ctx, state)
		if e.hooks.OnNodeEnd != nil {
			e.hooks.OnNodeEnd(domain.NodeVisit{
				ThreadID: state.ThreadID,
				NodeID:   string(current),
				Duration: time.Since(started),
				Err:      err,
			})
		}
		if err != nil {
			return fmt.Errorf("node %q: %w", current, err)
		}
		visited++

		patch.Apply(state)
		e.logger.Debug("node applied",
			"thread_id", state.ThreadID,
			"node", current,
			"await_input", patch.AwaitInput,
			"messages", len(patch.Messages),
		)
		if yield != nil {
			if err := yield(Snapshot{NodeID: current, Patch: patch, State: state}); err != nil {
				return err
			}
		}

		if patch.AwaitInput {
			paused = true
			return nil
		}

		next, err := e.graph.next(current, state)
		if err != nil {
			return err
		}
		current = next
	}
	return nil
}

// Run executes Stream without observing intermediate snapshots.
func (e *Engine) Run(ctx context.Context, state *domain.State) error {
	return e.Stream(ctx, state, nil)
}
