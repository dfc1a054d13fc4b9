// Package store implements the multi-backend persistence layer: a Redis
// primary, a gist-style document backup, and a read-only static file, composed
// behind a single facade with defined fallback order.
package store

import (
	"context"

	"readtrack/internal/model"
)

// Backend is one concrete storage integration. Read never errors for "not
// configured" or "not connected": it returns the empty sentinel snapshot.
// Errors are reserved for genuine I/O failures on an otherwise-available
// connection.
type Backend interface {
	Name() string
	Available(ctx context.Context) bool
	Read(ctx context.Context) (*model.Snapshot, error)
}

// WritableBackend is a backend that can also persist the full snapshot.
// Write errors when the backend is supposed to be available: callers rely on
// that to escalate to a fallback.
type WritableBackend interface {
	Backend
	Write(ctx context.Context, snap *model.Snapshot) error
}
