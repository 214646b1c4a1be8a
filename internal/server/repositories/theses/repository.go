// Package theses declares the repository contract for thesis records in
// persistent storage.
package theses

import (
	"context"

	"thesisarchive/internal/server/models"
)

// Repository defines operations for storing and retrieving thesis records.
// There is no update or delete: identifiers are immutable once assigned and
// records are never physically removed.
type Repository interface {
	// Insert persists a new record and returns the store-assigned id.
	Insert(ctx context.Context, thesis *models.Thesis) (int64, error)

	// Get returns the record with the given id, or common.ErrorNotFound.
	Get(ctx context.Context, id int64) (*models.Thesis, error)

	// List returns all records ordered by ascending id.
	List(ctx context.Context) ([]*models.Thesis, error)
}
