// Package errors provides the structured error type shared by fluxkit
// packages. An AppError carries a machine-readable code, a human-readable
// message, a retryable hint and optional details, and wraps its cause so
// the standard errors.Is/As helpers keep working.
package errors
