// Package driver is the orchestrator loop around a resource handler.
//
// [Run] calls the handler until it returns a terminal result, sleeping for
// the callback delay between calls. With a checkpoint store attached, every
// in-progress result is persisted so a later run with the same document
// resumes polling instead of issuing the mutation again.
package driver
