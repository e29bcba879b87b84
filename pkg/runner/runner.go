package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sunbun/assistant/internal/flow"
	"github.com/sunbun/assistant/internal/logging"
	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/graph"
	"github.com/sunbun/assistant/pkg/session"
)

// Input is one submission to a thread: zero or more inbound messages plus an
// optional set of typed state overrides.
type Input struct {
	Messages  []domain.Message
	Overrides map[string]any
}

// Runner drives runs against the conversation graph.
type Runner struct {
	sessions *session.Manager
	engine   *graph.Engine
	logger   *slog.Logger
}

// Option configures the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New builds a Runner over a session manager and a compiled engine.
func New(sessions *session.Manager, engine *graph.Engine, opts ...Option) *Runner {
	r := &Runner{
		sessions: sessions,
		engine:   engine,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sessions exposes the underlying session manager, mainly for transports that
// serve thread state and history directly.
func (r *Runner) Sessions() *session.Manager {
	return r.sessions
}

// Bootstrap ensures the thread exists and, when it is new, runs the engine
// once so the greeting is already in the history when the client first loads
// it. Existing threads are returned untouched.
func (r *Runner) Bootstrap(ctx context.Context, threadID string) (*domain.State, error) {
	var state *domain.State
	err := r.sessions.WithLock(ctx, threadID, func(ctx context.Context) error {
		store := r.sessions.Store()

		var err error
		state, err = store.Load(ctx, threadID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to load thread: %w", err)
		}

		state = domain.NewState(threadID)
		if err := r.engine.Run(ctx, state); err != nil {
			return fmt.Errorf("bootstrap run: %w", err)
		}
		return store.Save(ctx, threadID, state)
	})
	return state, err
}

// Submit processes one inbound submission under the thread's lock and reports
// progress to sink: a metadata event carrying the run ID, a pulse values
// event with the state after the input is applied, one values event per node
// snapshot, then end. On failure the sink receives a single generic error
// event; the cause is logged, never surfaced to the client.
func (r *Runner) Submit(ctx context.Context, threadID string, in Input, sink Sink) error {
	runID := uuid.NewString()
	emit := func(ev Event) error {
		if sink == nil {
			return nil
		}
		ev.RunID = runID
		return sink(ev)
	}

	err := r.sessions.WithLock(ctx, threadID, func(ctx context.Context) error {
		store := r.sessions.Store()

		state, err := store.Load(ctx, threadID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			state = domain.NewState(threadID)
		} else if err != nil {
			return fmt.Errorf("failed to load thread: %w", err)
		}

		if err := emit(Event{Type: EventMetadata}); err != nil {
			return err
		}

		for _, msg := range in.Messages {
			content, err := SanitizeInput(msg.Content)
			if err != nil {
				return fmt.Errorf("rejected message: %w", err)
			}
			msg.Content = content
			if msg.Role == "" {
				msg.Role = domain.RoleHuman
			}
			state.AppendMessage(msg)
			if msg.Role == domain.RoleHuman {
				flow.ApplyIntent(state, content).Apply(state)
			}
		}

		patch, err := decodeOverrides(in.Overrides)
		if err != nil {
			return fmt.Errorf("rejected overrides: %w", err)
		}
		patch.Apply(state)

		// Persist before the run so the inbound turn survives a node failure.
		if err := store.Save(ctx, threadID, state); err != nil {
			return fmt.Errorf("failed to persist input: %w", err)
		}
		if err := emit(Event{Type: EventValues, State: state}); err != nil {
			return err
		}

		streamErr := r.engine.Stream(ctx, state, func(snap graph.Snapshot) error {
			if err := store.Save(ctx, threadID, snap.State); err != nil {
				return fmt.Errorf("failed to persist snapshot: %w", err)
			}
			return emit(Event{Type: EventValues, State: snap.State})
		})
		if streamErr != nil {
			return streamErr
		}

		return emit(Event{Type: EventEnd})
	})
	if err != nil {
		r.logger.Error("Run failed",
			"thread_id", threadID,
			"run_id", runID,
			"err", err,
		)
		if sink != nil {
			_ = sink(Event{Type: EventError, RunID: runID, Error: "run failed"})
		}
		return err
	}
	return nil
}
