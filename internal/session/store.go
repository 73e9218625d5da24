package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"crimetracker/internal/model"
)

// ErrNotFound is returned when a session token is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Store holds active sessions. Implementations are selected at startup via
// SESSION_BACKEND: the database and redis stores survive restarts, the memory
// store does not.
type Store interface {
	// Create issues a new session for the user with the given lifetime and
	// returns it with a fresh opaque token.
	Create(ctx context.Context, userID uint, ttl time.Duration) (*model.Session, error)
	// Get resolves a token to its live session. Expired or unknown tokens
	// return ErrNotFound.
	Get(ctx context.Context, token string) (*model.Session, error)
	// Touch extends the session's expiry, implementing the sliding window.
	Touch(ctx context.Context, token string, ttl time.Duration) error
	// Delete revokes a session. Deleting an unknown token is a no-op.
	Delete(ctx context.Context, token string) error
}

func newToken() string {
	return uuid.NewString()
}
