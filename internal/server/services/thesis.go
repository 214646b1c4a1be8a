package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"thesisarchive/internal/common"
	"thesisarchive/internal/server/models"
	"thesisarchive/internal/server/repositories/repomanager"
)

// SessionChecker validates a session token and resolves the bound account.
// Implemented by IdentityService.
type SessionChecker interface {
	CheckSession(ctx context.Context, token string) (*models.Account, error)
}

// ThesisInput is the typed submission payload. Every field is optional; a
// record may be created entirely empty.
type ThesisInput struct {
	Author   *string
	Abstract *string
	Filepath *string
	Year     *int
}

// ThesisService owns create/read/list of thesis records. Creation requires a
// valid session; reads are public. Records carry no link back to the
// submitting account.
type ThesisService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    SessionChecker
}

// NewThesisService constructs a ThesisService.
func NewThesisService(db *sql.DB, m repomanager.RepositoryManager, sessions SessionChecker) *ThesisService {
	return &ThesisService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
	}
}

// Create validates the session and the input, persists the record, and
// returns the store-assigned identifier. An invalid session yields
// common.ErrorUnauthorized; a year outside 1–9999 yields
// common.ErrInvalidInput.
func (s *ThesisService) Create(ctx context.Context, token string, input *ThesisInput) (int64, error) {
	if _, err := s.sessions.CheckSession(ctx, token); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return 0, common.ErrorUnauthorized
		}
		return 0, err
	}

	if input.Year != nil && (*input.Year < 1 || *input.Year > 9999) {
		return 0, common.ErrInvalidInput
	}

	thesis := &models.Thesis{
		Author:   input.Author,
		Abstract: input.Abstract,
		Filepath: input.Filepath,
		Year:     input.Year,
	}

	id, err := s.repomanager.Theses(s.db).Insert(ctx, thesis)
	if err != nil {
		return 0, fmt.Errorf("error creating thesis: %w", err)
	}

	return id, nil
}

// Get returns a single record by id. No session is required: browsing the
// archive is public.
func (s *ThesisService) Get(ctx context.Context, id int64) (*models.Thesis, error) {
	thesis, err := s.repomanager.Theses(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error reading thesis: %w", err)
	}
	return thesis, nil
}

// List returns all records in ascending id order.
func (s *ThesisService) List(ctx context.Context) ([]*models.Thesis, error) {
	list, err := s.repomanager.Theses(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing theses: %w", err)
	}
	return list, nil
}
