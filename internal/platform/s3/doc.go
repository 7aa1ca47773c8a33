// Package s3 is a small object store client over S3 used to persist
// in-progress operation checkpoints.
//
// It works against AWS S3 and S3 compatible endpoints (path style
// addressing is used whenever a custom endpoint is set).
package s3
