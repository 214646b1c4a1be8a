package theses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"thesisarchive/internal/common"
	"thesisarchive/internal/dbx"
	"thesisarchive/internal/server/models"
)

// PostgresRepository implements the thesis repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, thesis *models.Thesis) (int64, error) {
	query := `
		INSERT INTO theses (author, abstract, filepath, year)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		thesis.Author, thesis.Abstract, thesis.Filepath, thesis.Year).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	thesis.ID = id
	return id, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Thesis, error) {
	query := `
		SELECT id, author, abstract, filepath, year
		FROM theses
		WHERE id = $1
	`
	thesis := &models.Thesis{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&thesis.ID, &thesis.Author, &thesis.Abstract, &thesis.Filepath, &thesis.Year)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return thesis, nil
}

// List orders by ascending id so repeated calls see the same sequence.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Thesis, error) {
	query := `
		SELECT id, author, abstract, filepath, year
		FROM theses
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Thesis
	for rows.Next() {
		thesis := &models.Thesis{}
		if err := rows.Scan(&thesis.ID, &thesis.Author, &thesis.Abstract, &thesis.Filepath, &thesis.Year); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, thesis)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
