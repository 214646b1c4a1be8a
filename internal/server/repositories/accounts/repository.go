// Package accounts declares the repository contract for user accounts in
// persistent storage.
package accounts

import (
	"context"

	"thesisarchive/internal/server/models"
)

// Repository defines operations for creating and retrieving accounts.
type Repository interface {
	// Create stores a new account and returns it with the store-assigned id.
	// A duplicate email (case-insensitive) yields common.ErrorAlreadyExists.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByEmail looks up an account by email, case-insensitively.
	// Implementations return common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetByID looks up an account by its identifier.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// SetVerified flips the verification flag. There is no way back to
	// unverified.
	SetVerified(ctx context.Context, id string) error
}
