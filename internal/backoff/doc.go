// Package backoff decides whether a stabilization loop should poll again
// and how long the caller should wait before doing so.
//
// Policies never sleep. They are pure functions of the elapsed time and the
// attempt count, the orchestrator owns the actual waiting.
package backoff
