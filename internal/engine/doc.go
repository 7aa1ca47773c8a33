// Package engine is the resource reconciliation engine.
//
// One [Engine] is built per resource type from an [Adapter], a bundle of
// injected capabilities: bound translate/invoke calls for create, update and
// delete, a describe probe, a list call and optional tag support. The engine
// drives a single operation per [Engine.Handle] call and returns as soon as
// it reaches a decision point:
//
//   - Success with the observed model (no model for delete).
//   - InProgress with a delay hint and a [Progress] value. The caller waits,
//     then calls Handle again with the returned model and progress.
//   - Failed with a classified error.
//
// Throttling anywhere in the flow is reported as InProgress so the caller
// retries instead of failing.
package engine
