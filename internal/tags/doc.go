// Package tags reconciles resource tags by set difference.
//
// Tags are unordered key/value pairs with unique keys. [Diff] computes what
// has to be added and removed to turn one tag set into another, [Validate]
// rejects malformed tag documents before any diffing happens.
package tags
