// Package resource holds the vocabulary shared by the reconciliation engine
// and every resource adapter: operations, tags and status phases.
package resource
