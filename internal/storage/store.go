// Package storage provides abstractions for holding live sessions.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/tabsplit/internal/session"
)

// ErrNotFound is returned when a session ID is unknown or has expired.
var ErrNotFound = errors.New("session not found")

// Store defines the interface for session registry operations.
// Sessions live only as long as the process; nothing is written to disk.
type Store interface {
	// Create registers a new session. Returns an error if the ID is taken.
	Create(ctx context.Context, s *session.Session) error

	// Get retrieves a session by its ID and marks it as active.
	// Returns ErrNotFound if the session does not exist.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Delete ends a session. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// Len reports how many sessions are live.
	Len() int

	// Sweep ends every session idle since before cutoff and returns how
	// many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
