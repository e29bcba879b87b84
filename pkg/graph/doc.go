// Package graph implements a small state-machine engine for conversational
// flows. A graph is a set of named nodes producing patches over a shared
// typed state, connected by static edges or routers that pick the next node
// from the state alone. The engine runs nodes until a patch requests input,
// a router returns the terminal marker, or the context is cancelled.
package graph
