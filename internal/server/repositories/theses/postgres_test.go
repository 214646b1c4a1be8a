package theses

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"thesisarchive/internal/common"
	"thesisarchive/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func thesisColumns() []string {
	return []string{"id", "author", "abstract", "filepath", "year"}
}

func TestInsert_AllFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO theses .* RETURNING id`).
		WithArgs("J. Doe", "An abstract", "/f1.pdf", 2023).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	thesis := &models.Thesis{
		Author:   strptr("J. Doe"),
		Abstract: strptr("An abstract"),
		Filepath: strptr("/f1.pdf"),
		Year:     intptr(2023),
	}
	id, err := repo.Insert(context.Background(), thesis)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 1 || thesis.ID != 1 {
		t.Fatalf("expected id 1 assigned, got %d / %d", id, thesis.ID)
	}
}

func TestInsert_AllFieldsAbsent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO theses .* RETURNING id`).
		WithArgs(nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.Insert(context.Background(), &models.Thesis{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}
}

func TestInsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO theses`).
		WillReturnError(errors.New("db is down"))

	_, err := repo.Insert(context.Background(), &models.Thesis{})
	if err == nil {
		t.Fatalf("expected wrapped db error, got nil")
	}
}

func TestGet_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM theses\s+WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(thesisColumns()).
			AddRow(int64(1), "J. Doe", nil, "/f1.pdf", 2023))

	thesis, err := repo.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if thesis.Abstract != nil {
		t.Fatalf("expected nil abstract, got %v", *thesis.Abstract)
	}
	if thesis.Author == nil || *thesis.Author != "J. Doe" {
		t.Fatalf("unexpected author: %v", thesis.Author)
	}
	if thesis.Year == nil || *thesis.Year != 2023 {
		t.Fatalf("unexpected year: %v", thesis.Year)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM theses`).
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 2)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestList_OrderedById(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM theses\s+ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(thesisColumns()).
			AddRow(int64(1), "A", nil, nil, nil).
			AddRow(int64(2), nil, "abs", nil, 1999))

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[0].ID != 1 || list[1].ID != 2 {
		t.Fatalf("expected ids in ascending order, got %d, %d", list[0].ID, list[1].ID)
	}
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM theses`).
		WillReturnRows(sqlmock.NewRows(thesisColumns()))

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d records", len(list))
	}
}
