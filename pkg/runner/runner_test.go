package runner

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunbun/assistant/internal/dataset"
	"github.com/sunbun/assistant/internal/flow"
	"github.com/sunbun/assistant/pkg/adapters/memory"
	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/graph"
	"github.com/sunbun/assistant/pkg/session"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()

	data, err := dataset.Load()
	require.NoError(t, err)

	g := flow.Build(flow.Deps{
		Directory: data,
		OTP:       data,
		Telemetry: data,
		Catalog:   data,
		Presence:  data,
	})
	engine, err := graph.NewEngine(g)
	require.NoError(t, err)

	return New(session.NewManager(memory.NewStore()), engine)
}

func collect(t *testing.T, r *Runner, threadID, text string) []Event {
	t.Helper()

	var events []Event
	err := r.Submit(context.Background(), threadID, Input{
		Messages: []domain.Message{domain.NewHuman(text)},
	}, func(ev Event) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)
	return events
}

func TestBootstrapEmitsGreeting(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	state, err := r.Bootstrap(ctx, "t-boot")
	require.NoError(t, err)
	require.NotEmpty(t, state.Messages)
	assert.Contains(t, state.Messages[0].Content, "how can we help you today")
	assert.True(t, state.Greeted)

	// A second bootstrap must not greet again.
	again, err := r.Bootstrap(ctx, "t-boot")
	require.NoError(t, err)
	assert.Len(t, again.Messages, len(state.Messages))
}

func TestSubmitEventOrder(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Bootstrap(context.Background(), "t-order")
	require.NoError(t, err)

	events := collect(t, r, "t-order", "I need service support")

	require.GreaterOrEqual(t, len(events), 3)
	assert.Equal(t, EventMetadata, events[0].Type)
	assert.Equal(t, EventValues, events[1].Type)
	assert.Equal(t, EventEnd, events[len(events)-1].Type)

	runID := events[0].RunID
	require.NotEmpty(t, runID)
	for _, ev := range events {
		assert.Equal(t, runID, ev.RunID)
	}
	for _, ev := range events[1 : len(events)-1] {
		assert.Equal(t, EventValues, ev.Type)
		require.NotNil(t, ev.State)
	}
}

func TestSubmitPersistsEveryTurn(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	_, err := r.Bootstrap(ctx, "t-persist")
	require.NoError(t, err)

	collect(t, r, "t-persist", "service please")
	collect(t, r, "t-persist", "ana@example.com")

	state, err := r.Sessions().Load(ctx, "t-persist")
	require.NoError(t, err)
	assert.Equal(t, domain.SupportService, state.SupportType)
	assert.Equal(t, "ana@example.com", state.Auth.Identifier)
	assert.Equal(t, domain.AuthStepOTP, state.Auth.Step)
}

func TestSubmitWithoutBootstrapCreatesThread(t *testing.T) {
	r := newTestRunner(t)

	events := collect(t, r, "t-fresh", "hello")
	final := events[len(events)-2].State
	require.NotNil(t, final)
	assert.True(t, final.Greeted)

	_, err := r.Sessions().Load(context.Background(), "t-fresh")
	require.NoError(t, err)
}

func TestSubmitFirstMessageSelectsBranch(t *testing.T) {
	r := newTestRunner(t)

	// "Service Support" as the opening message of a never-loaded thread
	// must pick the service branch and move straight into auth.
	events := collect(t, r, "t-first", "Service Support")
	final := events[len(events)-2].State
	require.NotNil(t, final)
	assert.Equal(t, domain.SupportService, final.SupportType)
	assert.Equal(t, domain.AuthStepIdentifier, final.Auth.Step)
}

func TestSubmitRejectsOversizedInput(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Bootstrap(context.Background(), "t-big")
	require.NoError(t, err)

	var events []Event
	err = r.Submit(context.Background(), "t-big", Input{
		Messages: []domain.Message{domain.NewHuman(strings.Repeat("a", DefaultMaxInputSize+1))},
	}, func(ev Event) error {
		events = append(events, ev)
		return nil
	})
	require.ErrorIs(t, err, ErrInputTooLarge)

	last := events[len(events)-1]
	assert.Equal(t, EventError, last.Type)
	assert.Equal(t, "run failed", last.Error)
}

func TestSubmitAppliesOverrides(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	_, err := r.Bootstrap(ctx, "t-override")
	require.NoError(t, err)

	err = r.Submit(ctx, "t-override", Input{
		Overrides: map[string]any{"support_type": "sales", "note": "vip lead"},
	}, nil)
	require.NoError(t, err)

	state, err := r.Sessions().Load(ctx, "t-override")
	require.NoError(t, err)
	assert.Equal(t, domain.SupportSales, state.SupportType)
	assert.Equal(t, "vip lead", state.Note)
}

func TestSubmitRejectsUnknownOverride(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Bootstrap(context.Background(), "t-badkey")
	require.NoError(t, err)

	err = r.Submit(context.Background(), "t-badkey", Input{
		Overrides: map[string]any{"auth": map[string]any{"verified": true}},
	}, nil)
	require.ErrorIs(t, err, ErrUnknownOverride)
}

func TestSubmitControlCharactersStripped(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	_, err := r.Bootstrap(ctx, "t-ctrl")
	require.NoError(t, err)

	collect(t, r, "t-ctrl", "service\x1b[31m support")

	state, err := r.Sessions().Load(ctx, "t-ctrl")
	require.NoError(t, err)

	var human string
	for _, m := range state.Messages {
		if m.Role == domain.RoleHuman {
			human = m.Content
		}
	}
	assert.Equal(t, "service[31m support", human)
	assert.Equal(t, domain.SupportService, state.SupportType)
}
