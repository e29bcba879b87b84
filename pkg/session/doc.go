// Package session serializes access to per-thread conversation state.
// A Manager pairs a StateStore with reference-counted local mutexes, and
// optionally a distributed lock for multi-replica deployments, so that at
// most one run mutates a thread at a time.
package session
