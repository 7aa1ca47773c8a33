// Package stabilize polls a resource until it leaves its transient state.
//
// A [Stabilizer] performs exactly one probe per call and reports one of
// four states. Waiting between polls is the caller's job: a Probing outcome
// carries the delay the backoff policy asks for and the backoff state the
// caller must hand back on the next call.
package stabilize
