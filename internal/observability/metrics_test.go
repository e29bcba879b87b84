package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunbun/assistant/pkg/domain"
)

func TestHooksFeedCollectors(t *testing.T) {
	m := New()
	hooks := m.Hooks()
	require.NotNil(t, hooks.OnNodeStart)
	require.NotNil(t, hooks.OnNodeEnd)
	require.NotNil(t, hooks.OnRunEnd)

	hooks.OnNodeStart("t-1", "entry")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeThreads))

	hooks.OnNodeEnd(domain.NodeVisit{
		ThreadID: "t-1",
		NodeID:   "entry",
		Duration: 5 * time.Millisecond,
	})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeThreads))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.nodeVisits.WithLabelValues("entry", "ok")))

	hooks.OnNodeEnd(domain.NodeVisit{
		ThreadID: "t-1",
		NodeID:   "customer_lookup",
		Duration: time.Millisecond,
		Err:      errors.New("boom"),
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.nodeVisits.WithLabelValues("customer_lookup", "error")))

	hooks.OnRunEnd("t-1", 2, true)
	hooks.OnRunEnd("t-1", 4, false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("paused")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("completed")))
}

func TestRegistryGathers(t *testing.T) {
	m := New()
	m.Hooks().OnRunEnd("t-1", 1, false)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "sunbun_runs_total")
	assert.Contains(t, names, "sunbun_run_nodes")
}
