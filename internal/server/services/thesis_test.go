package services

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"thesisarchive/internal/common"
	"thesisarchive/internal/dbx"
	"thesisarchive/internal/server/models"
	accountsrepo "thesisarchive/internal/server/repositories/accounts"
	sessionsrepo "thesisarchive/internal/server/repositories/sessions"
	thesesrepo "thesisarchive/internal/server/repositories/theses"
)

type fakeThesesRepo struct {
	rows   map[int64]*models.Thesis
	nextID int64

	insertErr error
	listErr   error
}

func newFakeThesesRepo() *fakeThesesRepo {
	return &fakeThesesRepo{rows: map[int64]*models.Thesis{}, nextID: 1}
}

func (f *fakeThesesRepo) Insert(ctx context.Context, thesis *models.Thesis) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	thesis.ID = f.nextID
	f.nextID++
	copied := *thesis
	f.rows[thesis.ID] = &copied
	return thesis.ID, nil
}

func (f *fakeThesesRepo) Get(ctx context.Context, id int64) (*models.Thesis, error) {
	thesis, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return thesis, nil
}

func (f *fakeThesesRepo) List(ctx context.Context) ([]*models.Thesis, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []*models.Thesis
	for id := int64(1); id < f.nextID; id++ {
		if thesis, ok := f.rows[id]; ok {
			result = append(result, thesis)
		}
	}
	return result, nil
}

type thesisRepoMgr struct {
	t *fakeThesesRepo
}

func (m *thesisRepoMgr) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *thesisRepoMgr) Accounts(db dbx.DBTX) accountsrepo.Repository { return nil }
func (m *thesisRepoMgr) Sessions(db dbx.DBTX) sessionsrepo.Repository { return nil }
func (m *thesisRepoMgr) Theses(db dbx.DBTX) thesesrepo.Repository     { return m.t }

type fakeChecker struct {
	account *models.Account
	err     error
}

func (f *fakeChecker) CheckSession(ctx context.Context, token string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

func newThesisFixture(t *testing.T, checker SessionChecker) (*ThesisService, *fakeThesesRepo) {
	t.Helper()
	repo := newFakeThesesRepo()
	svc := NewThesisService(newSQLMockDB(t), &thesisRepoMgr{t: repo}, checker)
	return svc, repo
}

func authorized() *fakeChecker {
	return &fakeChecker{account: &models.Account{ID: "acc-1", Email: "a@x.com", IsVerified: true}}
}

// --- Create ---

func TestThesisCreate_InvalidSession(t *testing.T) {
	svc, _ := newThesisFixture(t, &fakeChecker{err: common.ErrorUnauthorized})

	_, err := svc.Create(context.Background(), "stale-token", &ThesisInput{})
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestThesisCreate_SessionStoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("db is down")
	svc, _ := newThesisFixture(t, &fakeChecker{err: storeErr})

	_, err := svc.Create(context.Background(), "token", &ThesisInput{})
	if !errors.Is(err, storeErr) {
		t.Fatalf("store failure must propagate, got %v", err)
	}
}

func TestThesisCreate_YearValidation(t *testing.T) {
	tests := []struct {
		name    string
		year    *int
		wantErr bool
	}{
		{"absent year is fine", nil, false},
		{"lower bound", intp(1), false},
		{"upper bound", intp(9999), false},
		{"zero", intp(0), true},
		{"negative", intp(-5), true},
		{"five digits", intp(10000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newThesisFixture(t, authorized())

			_, err := svc.Create(context.Background(), "token", &ThesisInput{Year: tt.year})
			if tt.wantErr {
				if !errors.Is(err, common.ErrInvalidInput) {
					t.Fatalf("want ErrInvalidInput, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestThesisCreateThenGet_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input ThesisInput
	}{
		{"all fields", ThesisInput{Author: strp("J. Doe"), Abstract: strp("About things"), Filepath: strp("/f1.pdf"), Year: intp(2023)}},
		{"all fields absent", ThesisInput{}},
		{"abstract only", ThesisInput{Abstract: strp("Only an abstract")}},
		{"file and year", ThesisInput{Filepath: strp("theses/2023/k1"), Year: intp(2023)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newThesisFixture(t, authorized())

			id, err := svc.Create(context.Background(), "token", &tt.input)
			if err != nil {
				t.Fatalf("Create error: %v", err)
			}

			got, err := svc.Get(context.Background(), id)
			if err != nil {
				t.Fatalf("Get error: %v", err)
			}

			want := &models.Thesis{
				ID:       id,
				Author:   tt.input.Author,
				Abstract: tt.input.Abstract,
				Filepath: tt.input.Filepath,
				Year:     tt.input.Year,
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}
		})
	}
}

// Concrete scenario: first record gets id 1, reading id 2 is NotFound.
func TestThesisCreate_FirstIdThenMissing(t *testing.T) {
	svc, _ := newThesisFixture(t, authorized())

	id, err := svc.Create(context.Background(), "token", &ThesisInput{
		Author:   strp("J. Doe"),
		Filepath: strp("/f1.pdf"),
		Year:     intp(2023),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected first id 1, got %d", id)
	}

	if _, err := svc.Get(context.Background(), 2); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for id 2, got %v", err)
	}
}

// --- Get / List ---

func TestThesisGet_NotFound(t *testing.T) {
	svc, _ := newThesisFixture(t, authorized())

	_, err := svc.Get(context.Background(), 42)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestThesisList_ContainsAllCreated(t *testing.T) {
	svc, _ := newThesisFixture(t, authorized())

	const n = 5
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id, err := svc.Create(context.Background(), "token", &ThesisInput{Year: intp(2000 + i)})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		ids = append(ids, id)
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != n {
		t.Fatalf("expected %d records, got %d", n, len(list))
	}
	for i, id := range ids {
		if list[i].ID != id {
			t.Fatalf("expected list[%d].ID == %d, got %d", i, id, list[i].ID)
		}
		if _, err := svc.Get(context.Background(), id); err != nil {
			t.Fatalf("each listed record must be retrievable: Get(%d): %v", id, err)
		}
	}
}

func TestThesisList_StoreFailureIsNotNotFound(t *testing.T) {
	svc, repo := newThesisFixture(t, authorized())
	repo.listErr = errors.New("db is down")

	_, err := svc.List(context.Background())
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("store failure must not be converted, got %v", err)
	}
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }
