/*
Package assistant is the SunBun Solar customer support assistant: a
deterministic conversational state machine that walks a customer through
authentication, registry lookup, and either service triage or sales proposal
intake.

The conversation is a graph of pure nodes over one typed session state
(pkg/graph, pkg/domain). Nodes compute patches, never mutate state directly,
and pause the run by requesting input, which makes every thread resumable and
every turn idempotent: replaying a turn against its own output produces no
new effects. State persists through pkg/session over a pluggable store
(in-memory or Redis), so a thread survives restarts and can be picked up by
any replica holding the distributed lock.

Transports live at the edges: an HTTP/SSE API (internal/httpapi), an MCP
server (pkg/adapters/mcp), and an interactive terminal client wired through
the sunbun CLI (cmd/sunbun).
*/
package assistant
