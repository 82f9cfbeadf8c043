// Package domain defines the core domain model for keva.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - Entry: a stored value with an optional absolute expiration instant
//   - Errors: domain-specific error definitions with stable codes
//
// All timestamps are Unix milliseconds; a zero expiration instant
// means the entry never expires.
package domain
