// Package related persists Related records in SQLite.
package related

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/relatedwords/internal/adapter/sqlite"
	"github.com/heartmarshall/relatedwords/internal/domain"
)

const (
	table  = "related_records"
	entity = "related record"

	// Fixed-width so that text order matches time order.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

var (
	insertColumns = []string{"id", "label1", "relationship_type", "label2", "label3", "words", "gram", "label4", "created_at"}
	selectColumns = insertColumns
)

// wordsJSON stores words as a JSON array. SQL NULL is an absent list.
type wordsJSON []string

func (w *wordsJSON) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*w = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("words: unsupported column type %T", src)
	}

	out := []string{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("words: %w", err)
	}
	*w = out
	return nil
}

func (w wordsJSON) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	data, err := json.Marshal([]string(w))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

type row struct {
	ID               uuid.UUID `db:"id"`
	Label1           *string   `db:"label1"`
	RelationshipType *string   `db:"relationship_type"`
	Label2           *string   `db:"label2"`
	Label3           *string   `db:"label3"`
	Words            wordsJSON `db:"words"`
	Gram             *string   `db:"gram"`
	Label4           *string   `db:"label4"`
	CreatedAt        string    `db:"created_at"`
}

func (r row) toDomain() (domain.StoredRelated, error) {
	createdAt, err := time.Parse(timeLayout, r.CreatedAt)
	if err != nil {
		return domain.StoredRelated{}, fmt.Errorf("%s %s: created_at: %w", entity, r.ID, err)
	}
	return domain.StoredRelated{
		ID: r.ID,
		Related: domain.Related{
			Label1:           r.Label1,
			RelationshipType: r.RelationshipType,
			Label2:           r.Label2,
			Label3:           r.Label3,
			Words:            []string(r.Words),
			Gram:             r.Gram,
			Label4:           r.Label4,
		},
		CreatedAt: createdAt,
	}, nil
}

// Store provides related_records persistence on SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a Store over an opened and migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// execer is implemented by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Create inserts rec under a fresh ID.
func (s *Store) Create(ctx context.Context, rec *domain.Related) (*domain.StoredRelated, error) {
	return s.insert(ctx, s.db, rec)
}

// CreateBatch inserts all recs in one transaction and returns the number of
// rows written.
func (s *Store) CreateBatch(ctx context.Context, recs []*domain.Related) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, rec := range recs {
		if _, err := s.insert(ctx, tx, rec); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return len(recs), nil
}

func (s *Store) insert(ctx context.Context, ex execer, rec *domain.Related) (*domain.StoredRelated, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}
	createdAt := s.now().UTC()

	query, args, err := squirrel.
		Insert(table).
		Columns(insertColumns...).
		Values(id, rec.Label1, rec.RelationshipType, rec.Label2, rec.Label3, wordsJSON(rec.Words), rec.Gram, rec.Label4, createdAt.Format(timeLayout)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		return nil, sqlite.MapError(err, entity, id)
	}

	return &domain.StoredRelated{ID: id, Related: *rec.Clone(), CreatedAt: createdAt}, nil
}

// GetByID returns the record with the given ID or domain.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredRelated, error) {
	query, args, err := squirrel.
		Select(selectColumns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out row
	if err := sqlscan.Get(ctx, s.db, &out, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		}
		return nil, sqlite.MapError(err, entity, id)
	}

	stored, err := out.toDomain()
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// Find returns records matching f in insertion order. f.Limit must be positive.
func (s *Store) Find(ctx context.Context, f domain.RelatedFilter) ([]domain.StoredRelated, error) {
	q := squirrel.
		Select(selectColumns...).
		From(table).
		OrderBy("created_at", "id").
		Limit(uint64(f.Limit))

	if f.Label1 != nil {
		q = q.Where(squirrel.Eq{"label1": *f.Label1})
	}
	if f.RelationshipType != nil {
		q = q.Where(squirrel.Eq{"relationship_type": *f.RelationshipType})
	}
	if f.Gram != nil {
		q = q.Where(squirrel.Eq{"gram": *f.Gram})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := sqlscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, sqlite.MapError(err, entity, "find")
	}

	out := make([]domain.StoredRelated, 0, len(rows))
	for _, rw := range rows {
		stored, err := rw.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

// Delete removes the record with the given ID. Returns domain.ErrNotFound if
// nothing was deleted.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := squirrel.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return sqlite.MapError(err, entity, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}
