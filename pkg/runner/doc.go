// Package runner orchestrates a single conversational run: it appends the
// inbound messages to the thread state, classifies the reply against the
// pending choice, streams the graph engine, persists every snapshot, and
// reports progress as a stream of events.
//
// All work for a thread happens under the session manager's per-thread lock,
// so concurrent submissions to the same thread are serialized while different
// threads run in parallel.
package runner
