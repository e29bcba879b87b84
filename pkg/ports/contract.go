package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunbun/assistant/pkg/domain"
)

// RunStateStoreContract runs a suite of tests verifying that a StateStore
// implementation adheres to the interface contract. Adapter test files call
// this against their concrete store.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	threadID := "contract-test-thread-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(threadID)
		state.SupportType = domain.SupportService
		state.Auth.Step = domain.AuthStepOTP
		state.Auth.Identifier = "ana@example.com"
		state.Registry.Found = domain.Ptr(true)
		state.AppendMessage(domain.NewAssistant("Welcome!", domain.Option{Label: "Sales", Value: "sales"}))

		require.NoError(t, store.Save(ctx, threadID, state))

		loaded, err := store.Load(ctx, threadID)
		require.NoError(t, err)
		assert.Equal(t, state.ThreadID, loaded.ThreadID)
		assert.Equal(t, domain.SupportService, loaded.SupportType)
		assert.Equal(t, domain.AuthStepOTP, loaded.Auth.Step)
		assert.Equal(t, "ana@example.com", loaded.Auth.Identifier)
		require.NotNil(t, loaded.Registry.Found)
		assert.True(t, *loaded.Registry.Found)
		require.Len(t, loaded.Messages, 1)
		assert.Equal(t, state.Messages[0].ID, loaded.Messages[0].ID)
		require.Len(t, loaded.Messages[0].Options, 1)
		assert.Equal(t, "sales", loaded.Messages[0].Options[0].Value)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+threadID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		state := domain.NewState(threadID)
		state.Greeted = true
		require.NoError(t, store.Save(ctx, threadID, state))

		state.Closed = true
		require.NoError(t, store.Save(ctx, threadID, state))

		loaded, err := store.Load(ctx, threadID)
		require.NoError(t, err)
		assert.True(t, loaded.Greeted)
		assert.True(t, loaded.Closed)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, threadID, domain.NewState(threadID)))
		require.NoError(t, store.Delete(ctx, threadID))

		_, err := store.Load(ctx, threadID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1 := threadID + "-1"
		id2 := threadID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewState(id1)))
		require.NoError(t, store.Save(ctx, id2, domain.NewState(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		threads, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, threads, id1)
		assert.Contains(t, threads, id2)
	})
}
