package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunbun/assistant/pkg/domain"
)

func sayNode(content string) Node {
	return func(ctx context.Context, s *domain.State) (domain.Patch, error) {
		return domain.Patch{Messages: []domain.Message{domain.NewAssistant(content)}}, nil
	}
}

func TestValidateRejectsMissingEntry(t *testing.T) {
	g := New("start")
	assert.Error(t, g.Validate())
}

func TestValidateRejectsDanglingEdge(t *testing.T) {
	g := New("start")
	g.AddNode("start", sayNode("hi")).AddEdge("start", "missing")
	assert.Error(t, g.Validate())
}

func TestValidateRejectsNodeWithoutSuccessor(t *testing.T) {
	g := New("start")
	g.AddNode("start", sayNode("hi"))
	assert.Error(t, g.Validate())
}

func TestStreamRunsUntilEnd(t *testing.T) {
	g := New("a")
	g.AddNode("a", sayNode("one")).AddEdge("a", "b")
	g.AddNode("b", sayNode("two")).AddRouter("b", func(s *domain.State) NodeID { return End })

	eng, err := NewEngine(g)
	require.NoError(t, err)

	state := domain.NewState("t1")
	var seen []NodeID
	err = eng.Stream(context.Background(), state, func(snap Snapshot) error {
		seen = append(seen, snap.NodeID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []NodeID{"a", "b"}, seen)
	require.Len(t, state.Messages, 2)
	assert.Equal(t, "one", state.Messages[0].Content)
	assert.Equal(t, "two", state.Messages[1].Content)
}

func TestStreamPausesOnAwaitInput(t *testing.T) {
	g := New("ask")
	g.AddNode("ask", func(ctx context.Context, s *domain.State) (domain.Patch, error) {
		return domain.Patch{
			Messages:   []domain.Message{domain.NewAssistant("name?")},
			AwaitInput: true,
		}, nil
	}).AddEdge("ask", "never")
	g.AddNode("never", sayNode("unreachable")).AddRouter("never", func(s *domain.State) NodeID { return End })

	eng, err := NewEngine(g)
	require.NoError(t, err)

	state := domain.NewState("t1")
	require.NoError(t, eng.Run(context.Background(), state))
	require.Len(t, state.Messages, 1)
	assert.Equal(t, "name?", state.Messages[0].Content)
}

func TestStreamRoutesOnState(t *testing.T) {
	g := New("mark")
	g.AddNode("mark", func(ctx context.Context, s *domain.State) (domain.Patch, error) {
		return domain.Patch{Greeted: domain.Ptr(true)}, nil
	}).AddRouter("mark", func(s *domain.State) NodeID {
		if s.Greeted {
			return "greeted"
		}
		return "cold"
	})
	g.AddNode("greeted", sayNode("welcome back")).AddRouter("greeted", func(s *domain.State) NodeID { return End })
	g.AddNode("cold", sayNode("hello")).AddRouter("cold", func(s *domain.State) NodeID { return End })

	eng, err := NewEngine(g)
	require.NoError(t, err)

	state := domain.NewState("t1")
	require.NoError(t, eng.Run(context.Background(), state))
	require.Len(t, state.Messages, 1)
	assert.Equal(t, "welcome back", state.Messages[0].Content)
}

func TestStreamNodeErrorStopsRun(t *testing.T) {
	boom := errors.New("boom")
	g := New("bad")
	g.AddNode("bad", func(ctx context.Context, s *domain.State) (domain.Patch, error) {
		return domain.Patch{}, boom
	}).AddEdge("bad", End)

	eng, err := NewEngine(g)
	require.NoError(t, err)

	err = eng.Run(context.Background(), domain.NewState("t1"))
	assert.ErrorIs(t, err, boom)
}

func TestStreamUnknownRouterTarget(t *testing.T) {
	g := New("a")
	g.AddNode("a", sayNode("hi")).AddRouter("a", func(s *domain.State) NodeID { return "ghost" })

	eng, err := NewEngine(g)
	require.NoError(t, err)

	err = eng.Run(context.Background(), domain.NewState("t1"))
	var unknown *UnknownNodeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, NodeID("ghost"), unknown.To)
}

func TestStreamHonorsContextCancellation(t *testing.T) {
	g := New("loop")
	g.AddNode("loop", func(ctx context.Context, s *domain.State) (domain.Patch, error) {
		return domain.Patch{}, nil
	}).AddEdge("loop", "loop")

	eng, err := NewEngine(g)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	steps := 0
	err = eng.Stream(ctx, domain.NewState("t1"), func(Snapshot) error {
		steps++
		if steps == 5 {
			cancel()
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, steps)
}

func TestStreamFiresHooks(t *testing.T) {
	g := New("a")
	g.AddNode("a", sayNode("hi")).AddRouter("a", func(s *domain.State) NodeID { return End })

	var starts, ends int
	var runEnded bool
	hooks := domain.LifecycleHooks{
		OnNodeStart: func(threadID, nodeID string) { starts++ },
		OnNodeEnd:   func(v domain.NodeVisit) { ends++ },
		OnRunEnd: func(threadID string, visited int, paused bool) {
			runEnded = true
			assert.Equal(t, 1, visited)
			assert.False(t, paused)
		},
	}

	eng, err := NewEngine(g, WithLifecycleHooks(hooks))
	require.NoError(t, err)
	require.NoError(t, eng.Run(context.Background(), domain.NewState("t1")))
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, ends)
	assert.True(t, runEnded)
}

func TestYieldErrorAbortsRun(t *testing.T) {
	g := New("a")
	g.AddNode("a", sayNode("hi")).AddEdge("a", "b")
	g.AddNode("b", sayNode("never")).AddRouter("b", func(s *domain.State) NodeID { return End })

	eng, err := NewEngine(g)
	require.NoError(t, err)

	stop := errors.New("client gone")
	state := domain.NewState("t1")
	err = eng.Stream(context.Background(), state, func(Snapshot) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Len(t, state.Messages, 1)
}
