package related

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/relatedwords/internal/adapter/postgres"
	"github.com/heartmarshall/relatedwords/internal/domain"
)

func strPtr(s string) *string { return &s }

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return New(mock, postgres.NewTxManager(mock)), mock
}

func columns() []string { return selectColumns }

func TestRepo_Create(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	rec := domain.NewRelated(strPtr("happy"), strPtr("synonym"), nil, nil, []string{"glad", "joyful"}, strPtr("adjective"), nil)

	mock.ExpectQuery(`INSERT INTO related_records \(id,label1,relationship_type,label2,label3,words,gram,label4\) VALUES .* RETURNING created_at`).
		WithArgs(pgxmock.AnyArg(), rec.Label1, rec.RelationshipType, rec.Label2, rec.Label3, rec.Words, rec.Gram, rec.Label4).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	got, err := repo.Create(context.Background(), rec)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, now, got.CreatedAt)
	assert.True(t, rec.Equal(got.Related))

	rec.Words[0] = "changed"
	assert.Equal(t, "glad", got.Related.Words[0], "stored record must not alias the input")
}

func TestRepo_Create_UniqueViolation(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`INSERT INTO related_records`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Related{})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRepo_GetByID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	now := time.Now().UTC()

	tests := []struct {
		name    string
		rows    *pgxmock.Rows
		wantErr error
		check   func(t *testing.T, got *domain.StoredRelated)
	}{
		{
			name: "found",
			rows: pgxmock.NewRows(columns()).
				AddRow(id, strPtr("happy"), strPtr("synonym"), nil, nil, []string{"glad"}, strPtr("adjective"), nil, now),
			check: func(t *testing.T, got *domain.StoredRelated) {
				assert.Equal(t, id, got.ID)
				assert.Equal(t, "happy", *got.Related.Label1)
				assert.Nil(t, got.Related.Label2)
				assert.Equal(t, []string{"glad"}, got.Related.Words)
				assert.Equal(t, now, got.CreatedAt)
			},
		},
		{
			name:    "not found",
			rows:    pgxmock.NewRows(columns()),
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMockRepo(t)
			mock.ExpectQuery(`SELECT .* FROM related_records WHERE id = \$1`).
				WithArgs(id.String()).
				WillReturnRows(tt.rows)

			got, err := repo.GetByID(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestRepo_Find_AppliesFilters(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .* FROM related_records WHERE label1 = \$1 AND relationship_type = \$2 ORDER BY created_at, id LIMIT 10`).
		WithArgs("happy", "synonym").
		WillReturnRows(pgxmock.NewRows(columns()).
			AddRow(a, strPtr("happy"), strPtr("synonym"), nil, nil, []string{"glad"}, nil, nil, now).
			AddRow(b, strPtr("happy"), strPtr("synonym"), nil, nil, []string{}, nil, nil, now))

	got, err := repo.Find(context.Background(), domain.RelatedFilter{
		Label1:           strPtr("happy"),
		RelationshipType: strPtr("synonym"),
		Limit:            10,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].ID)
	assert.Equal(t, b, got[1].ID)
	assert.NotNil(t, got[1].Related.Words)
	assert.Empty(t, got[1].Related.Words)
}

func TestRepo_Find_NoFilters(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT .* FROM related_records ORDER BY created_at, id LIMIT 5`).
		WillReturnRows(pgxmock.NewRows(columns()))

	got, err := repo.Find(context.Background(), domain.RelatedFilter{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepo_Find_QueryError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT`).
		WithArgs("noun").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Find(context.Background(), domain.RelatedFilter{Gram: strPtr("noun"), Limit: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRepo_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "deleted", affected: 1},
		{name: "missing", affected: 0, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMockRepo(t)
			id := uuid.New()
			mock.ExpectExec(`DELETE FROM related_records WHERE id = \$1`).
				WithArgs(id.String()).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			err := repo.Delete(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRepo_CreateBatch_Empty(t *testing.T) {
	t.Parallel()

	repo, _ := newMockRepo(t)
	n, err := repo.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// batchTx is a pgx.Tx that answers SendBatch from a canned list of results.
type batchTx struct {
	pgx.Tx
	results    []error
	queued     []*pgx.QueuedQuery
	committed  bool
	rolledBack bool
}

func (tx *batchTx) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	tx.queued = append(tx.queued, b.QueuedQueries...)
	return &batchResults{errs: tx.results}
}

func (tx *batchTx) Commit(context.Context) error   { tx.committed = true; return nil }
func (tx *batchTx) Rollback(context.Context) error { tx.rolledBack = true; return nil }

type batchResults struct {
	errs []error
	n    int
}

func (r *batchResults) Exec() (pgconn.CommandTag, error) {
	i := r.n
	r.n++
	if i < len(r.errs) && r.errs[i] != nil {
		return pgconn.CommandTag{}, r.errs[i]
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *batchResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *batchResults) QueryRow() pgx.Row        { return nil }
func (r *batchResults) Close() error             { return nil }

type txBeginner struct{ tx *batchTx }

func (b txBeginner) Begin(context.Context) (pgx.Tx, error) { return b.tx, nil }

func TestRepo_CreateBatch(t *testing.T) {
	t.Parallel()

	recs := []*domain.Related{
		domain.NewRelated(strPtr("happy"), strPtr("synonym"), nil, nil, []string{"glad"}, strPtr("adjective"), nil),
		domain.NewRelated(strPtr("joy"), nil, nil, nil, nil, nil, nil),
	}

	t.Run("all inserted", func(t *testing.T) {
		t.Parallel()

		tx := &batchTx{}
		repo := New(nil, postgres.NewTxManager(txBeginner{tx: tx}))

		n, err := repo.CreateBatch(context.Background(), recs)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.True(t, tx.committed)
		assert.False(t, tx.rolledBack)

		require.Len(t, tx.queued, 2)
		for i, q := range tx.queued {
			assert.Contains(t, q.SQL, "INSERT INTO related_records")
			require.Len(t, q.Arguments, len(insertColumns))
			assert.Equal(t, recs[i].Label1, q.Arguments[1])
		}
		first := fmt.Sprint(tx.queued[0].Arguments[0])
		second := fmt.Sprint(tx.queued[1].Arguments[0])
		assert.Less(t, first, second, "ids must sort in insertion order")
	})

	t.Run("unique violation rolls back", func(t *testing.T) {
		t.Parallel()

		tx := &batchTx{results: []error{nil, &pgconn.PgError{Code: "23505"}}}
		repo := New(nil, postgres.NewTxManager(txBeginner{tx: tx}))

		n, err := repo.CreateBatch(context.Background(), recs)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
		assert.Zero(t, n)
		assert.True(t, tx.rolledBack)
		assert.False(t, tx.committed)
	})
}
