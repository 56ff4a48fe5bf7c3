// Package common defines shared constants and sentinel errors used across
// the vault client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Registry-level errors.
	ErrNotFound = errors.New("not found")

	// ErrStaleWriteIgnored is reported internally when a write loses the
	// version race. It is an expected condition, never surfaced to the UI.
	ErrStaleWriteIgnored = errors.New("stale write ignored")

	// Transport-level errors. A transient failure leaves no server state
	// behind and is safe to retry or roll back.
	ErrTransientNetwork = errors.New("transient network error")

	// ErrMalformedEvent marks a push message that could not be parsed.
	// Ingestion drops the message and continues.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrConflictOnMutation means the server rejected a mutation (for
	// example, the target user does not exist). The optimistic change has
	// been rolled back by the time the caller sees this.
	ErrConflictOnMutation = errors.New("mutation rejected by server")

	// ErrMutationPending is returned when a caller gives up waiting for an
	// earlier mutation on the same record to finish.
	ErrMutationPending = errors.New("another mutation is pending on this record")
)
