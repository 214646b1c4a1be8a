// Package services contains server-side business logic. This file implements
// IdentityService, which owns accounts, credential verification, and session
// issuance, and enforces the verified-account gate.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"thesisarchive/internal/common"
	"thesisarchive/internal/dbx"
	"thesisarchive/internal/server/auth"
	"thesisarchive/internal/server/config"
	"thesisarchive/internal/server/models"
	"thesisarchive/internal/server/repositories/repomanager"
)

// IdentityService provides authentication-related operations:
//   - Register: create accounts (unverified by default)
//   - Authenticate: verify credentials, enforce the verified gate, mint a session token
//   - CheckSession: validate a token against its session row and bound account
//   - Logout: revoke a session
//
// It holds no mutable state of its own; every call goes through the store,
// so concurrent calls do not interfere.
type IdentityService struct {
	db                        *sql.DB
	repomanager               repomanager.RepositoryManager
	secretKey                 []byte
	sessionValidity           time.Duration
	persistentSessionValidity time.Duration
}

// NewIdentityService constructs an IdentityService using repositories and
// server config.
func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *IdentityService {
	return &IdentityService{
		db:                        db,
		repomanager:               m,
		secretKey:                 []byte(cfg.SecretKey),
		sessionValidity:           cfg.SessionValidityDuration,
		persistentSessionValidity: cfg.PersistentSessionValidityDuration,
	}
}

// Register creates a new, unverified account with the given email, password,
// and display name. The password is stored only as an argon2id hash. A
// duplicate email yields common.ErrorAlreadyExists.
func (s *IdentityService) Register(ctx context.Context, email, password, displayName string) (*models.Account, error) {
	if email == "" || password == "" {
		return nil, common.ErrInvalidInput
	}

	hash, salt := auth.HashPassword(password)
	account := &models.Account{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Salt:         salt,
	}

	repo := s.repomanager.Accounts(s.db)
	created, err := repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return created, nil
}

// MarkVerified flips the account's verification flag. The confirmation
// delivery itself (email etc.) lives outside this service; only the gate
// does not. Lookup and update run in one transaction.
func (s *IdentityService) MarkVerified(ctx context.Context, email string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error searching account: %w", err)
		}

		return repo.SetVerified(ctx, account.ID)
	})
}

// Authenticate verifies the credentials and, on success, creates a session
// and returns its signed token. Unknown email, wrong password, and an
// unverified account all produce common.ErrInvalidCredentials so the caller
// cannot probe which accounts exist. Store failures propagate as-is.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string, persistent bool) (string, error) {
	if email == "" || password == "" {
		return "", common.ErrInvalidCredentials
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn a verification cycle against a random salt so a miss
			// costs the same as a mismatch.
			auth.VerifyPassword(password, nil, auth.RandomSalt())
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("error searching account: %w", err)
	}

	if !auth.VerifyPassword(password, account.PasswordHash, account.Salt) {
		return "", common.ErrInvalidCredentials
	}
	if !account.IsVerified {
		return "", common.ErrInvalidCredentials
	}

	validity := s.sessionValidity
	if persistent {
		validity = s.persistentSessionValidity
	}

	now := time.Now()
	session := &models.Session{
		ID:         uuid.NewString(),
		AccountID:  account.ID,
		Persistent: persistent,
		CreatedAt:  now,
		ExpiresAt:  now.Add(validity),
	}

	if err := s.repomanager.Sessions(s.db).Create(ctx, session); err != nil {
		return "", fmt.Errorf("error creating session: %w", err)
	}

	token, err := auth.GenerateSessionToken(session.ID, s.secretKey, session.ExpiresAt)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// CheckSession validates a session token and returns the bound account.
// Malformed, expired, and revoked tokens all yield common.ErrorUnauthorized;
// callers must not learn which. Store failures propagate as-is.
func (s *IdentityService) CheckSession(ctx context.Context, token string) (*models.Account, error) {
	sessionID, err := auth.GetSessionIDFromToken(token, s.secretKey)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	sessionRepo := s.repomanager.Sessions(s.db)
	session, err := sessionRepo.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching session: %w", err)
	}

	if session.Expired(time.Now()) {
		_ = sessionRepo.Delete(ctx, session.ID)
		return nil, common.ErrorUnauthorized
	}

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching account: %w", err)
	}

	return account, nil
}

// Logout revokes the session referenced by the token. Revoking an already
// revoked session is not an error.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	sessionID, err := auth.GetSessionIDFromToken(token, s.secretKey)
	if err != nil {
		return common.ErrorUnauthorized
	}

	if err := s.repomanager.Sessions(s.db).Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}

	return nil
}

// PurgeExpiredSessions removes sessions whose validity window has elapsed.
// Housekeeping only: expiry is enforced lazily in CheckSession regardless.
func (s *IdentityService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repomanager.Sessions(s.db).DeleteExpired(ctx, time.Now())
}
