package domain

import "time"

// NodeVisit describes one node execution inside a run.
type NodeVisit struct {
	ThreadID string
	NodeID   string
	Duration time.Duration
	Err      error
}

// LifecycleHooks receives callbacks from the graph engine as a run progresses.
// All fields are optional; a zero value disables observation entirely. Hooks
// must not mutate the state they observe.
type LifecycleHooks struct {
	// OnNodeStart fires before a node runs.
	OnNodeStart func(threadID, nodeID string)
	// OnNodeEnd fires after a node returns, success or not.
	OnNodeEnd func(visit NodeVisit)
	// OnRunEnd fires once per run with the number of nodes visited and
	// whether the run paused for input or reached a terminal.
	OnRunEnd func(threadID string, visited int, paused bool)
}
