package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// A missing vector store record is never treated as empty.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates invalid configuration (bad chunk or
	// overlap sizes, unknown provider, non-positive top-k). Configuration
	// errors fail fast and are never retried.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAlignment indicates mismatched chunk and vector list lengths.
	// The alignment invariant is never repaired by truncating one list;
	// the offending operation fails outright.
	ErrAlignment = errors.New("chunk/vector alignment violation")

	// ErrDimensionMismatch indicates a query vector and a stored record
	// disagree on embedding dimension. Comparison is refused rather than
	// attempted best-effort.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrProviderUnavailable indicates an embedding provider is not
	// usable at all (missing credential or configuration). Distinct from
	// ErrProviderRequest so callers can tell setup problems from
	// transient failures.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrProviderRequest indicates an embedding provider request failed
	// (network error, timeout, non-2xx response). Retries, if any, are
	// the caller's responsibility.
	ErrProviderRequest = errors.New("embedding provider request failed")
)
