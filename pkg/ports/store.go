package ports

import (
	"context"

	"github.com/sunbun/assistant/pkg/domain"
)

// StateStore defines the interface for persisting session state.
// This allows durable execution, enabling stop-and-resume conversations.
type StateStore interface {
	// Save persists the state for a given thread ID.
	Save(ctx context.Context, threadID string, state *domain.State) error

	// Load retrieves the state for a given thread ID.
	// Returns domain.ErrSessionNotFound if the thread does not exist.
	Load(ctx context.Context, threadID string) (*domain.State, error)

	// Delete removes the state for a given thread ID.
	Delete(ctx context.Context, threadID string) error

	// List returns the IDs of all live threads.
	List(ctx context.Context) ([]string, error)
}
