// Package async runs independent named tasks concurrently and collects
// their errors.
package async
