// Package sagemaker holds the pieces shared by every SageMaker resource
// adapter: client construction, tagging and not-found detection for APIs
// that report missing resources as validation errors.
package sagemaker
