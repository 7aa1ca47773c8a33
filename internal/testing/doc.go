// Package testing provides test doubles and fixtures shared by unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - MockTagAPI: testify mock of the engine tag API
//   - MockSageMakerAPI: testify mock of the SageMaker client surface used by adapters
//   - Clock: manually advanced clock for backoff and stabilization tests
//   - APIError: smithy API error builder mimicking SDK failures
//
// Usage:
//
//	clock := testing.NewClock(start)
//	tags := &testing.MockTagAPI{}
//	tags.On("ListTags", mock.Anything, arn).Return(map[string]string{"a": "1"}, nil)
package testing
