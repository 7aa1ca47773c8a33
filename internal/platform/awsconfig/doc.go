// Package awsconfig builds the AWS SDK configuration shared by the
// SageMaker and S3 clients, and resolves the caller identity.
package awsconfig
