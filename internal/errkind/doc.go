// Package errkind defines the closed error taxonomy handed back to the
// orchestrator and the classifier that maps provider failures onto it.
//
// The classifier is a pure function: it never logs and never retries.
// Callers decide what to do with the resulting [Kind], the only kind that
// changes control flow inside the engine is [Throttling].
package errkind
