// Package domain contains the core value types of the assistant: the typed
// session state, the message model, the patch format produced by graph nodes,
// and the records returned by the backing data collaborators.
//
// Everything in this package is transport-agnostic and free of side effects;
// adapters and the graph engine depend on it, never the other way around.
package domain
