package related

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/relatedwords/internal/adapter/sqlite"
	"github.com/heartmarshall/relatedwords/internal/domain"
)

func strPtr(s string) *string { return &s }

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, sqlite.Migrate(ctx, db, slog.New(slog.NewTextHandler(io.Discard, nil))))
	return New(db)
}

func TestStore_CreateAndGet_PreservesPresence(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		rec  *domain.Related
	}{
		{"scenario", domain.NewRelated(strPtr("happy"), strPtr("synonym"), nil, nil, []string{"glad", "joyful"}, strPtr("adjective"), nil)},
		{"empty words", &domain.Related{Words: []string{}}},
		{"absent words", &domain.Related{Label4: strPtr("x")}},
		{"empty label", &domain.Related{Label2: strPtr("")}},
		{"all absent", &domain.Related{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored, err := s.Create(ctx, tt.rec)
			require.NoError(t, err)

			got, err := s.GetByID(ctx, stored.ID)
			require.NoError(t, err)
			assert.True(t, tt.rec.Equal(got.Related), "got %#v want %#v", got.Related, tt.rec)
			assert.Equal(t, tt.rec.ToMapping(), got.Related.ToMapping())
			assert.Equal(t, stored.CreatedAt, got.CreatedAt)
		})
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Find_FiltersAndOrder(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	// Same clock reading for every row: order must fall back to id.
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	recs := []*domain.Related{
		domain.NewRelated(strPtr("happy"), strPtr("synonym"), nil, nil, []string{"glad"}, strPtr("adjective"), nil),
		domain.NewRelated(strPtr("happy"), strPtr("antonym"), nil, nil, []string{"sad"}, strPtr("adjective"), nil),
		domain.NewRelated(strPtr("happy"), strPtr("synonym"), nil, nil, []string{"joyful"}, strPtr("adjective"), nil),
		domain.NewRelated(strPtr("run"), strPtr("synonym"), nil, nil, []string{"sprint"}, strPtr("verb"), nil),
	}
	n, err := s.CreateBatch(ctx, recs)
	require.NoError(t, err)
	require.Equal(t, len(recs), n)

	got, err := s.Find(ctx, domain.RelatedFilter{Label1: strPtr("happy"), RelationshipType: strPtr("synonym"), Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"glad"}, got[0].Related.Words)
	assert.Equal(t, []string{"joyful"}, got[1].Related.Words)

	got, err = s.Find(ctx, domain.RelatedFilter{Gram: strPtr("verb"), Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "run", *got[0].Related.Label1)

	got, err = s.Find(ctx, domain.RelatedFilter{Limit: 3})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range got {
		assert.True(t, recs[i].Equal(got[i].Related), "record %d out of order", i)
	}
}

func TestStore_CreateBatch_Empty(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	n, err := s.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_CreateBatch_ContextCanceled(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CreateBatch(ctx, []*domain.Related{{Label1: strPtr("a")}})
	require.Error(t, err)

	all, err := s.Find(context.Background(), domain.RelatedFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	stored, err := s.Create(ctx, &domain.Related{Label1: strPtr("happy")})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, stored.ID))
	assert.ErrorIs(t, s.Delete(ctx, stored.ID), domain.ErrNotFound)

	_, err = s.GetByID(ctx, stored.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := []*domain.Related{
				{Label1: strPtr("w"), Words: []string{string(rune('a' + i))}},
				{Label1: strPtr("w")},
			}
			_, err := s.CreateBatch(ctx, batch)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Find(ctx, domain.RelatedFilter{Label1: strPtr("w"), Limit: 100})
	require.NoError(t, err)
	assert.Len(t, got, 16)
}

func TestWordsJSON(t *testing.T) {
	t.Parallel()

	v, err := wordsJSON(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = wordsJSON{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var w wordsJSON
	require.NoError(t, w.Scan("[]"))
	assert.NotNil(t, w)
	assert.Empty(t, w)

	require.NoError(t, w.Scan([]byte(`["glad","joyful"]`)))
	assert.Equal(t, wordsJSON{"glad", "joyful"}, w)

	require.NoError(t, w.Scan(nil))
	assert.Nil(t, w)

	assert.Error(t, w.Scan(42))
	assert.Error(t, w.Scan("not json"))
}
