// Package errors provides foundational, type-safe error primitives.
//
// A ClassifiedError carries a category, a severity, a retry hint and
// structured context. Errors are created through the fluent ErrorBuilder:
//
//	err := errors.RemoteError("HTTP 404: not found").
//		WithContext("status", 404).
//		Build()
//
// CLIErrorAdapter and HTTPErrorAdapter turn classified errors into exit
// codes, status codes and short human-readable messages.
package errors
