// Package sessions declares the repository contract for authentication
// sessions in persistent storage.
package sessions

import (
	"context"
	"time"

	"thesisarchive/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking sessions.
type Repository interface {
	// Create stores a new session row.
	Create(ctx context.Context, session *models.Session) error

	// Find looks up a session by its identifier. Implementations return
	// common.ErrorNotFound when the session is absent (never issued or
	// already revoked).
	Find(ctx context.Context, id string) (*models.Session, error)

	// Delete revokes a session by id. Deleting a non-existent session is
	// not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes sessions whose validity window elapsed before
	// now and reports how many were removed. Expiry is otherwise checked
	// lazily at use time; this is housekeeping only.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
