// Package related persists Related records in PostgreSQL.
package related

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/relatedwords/internal/adapter/postgres"
	"github.com/heartmarshall/relatedwords/internal/domain"
)

const (
	table  = "related_records"
	entity = "related record"
)

var (
	insertColumns = []string{"id", "label1", "relationship_type", "label2", "label3", "words", "gram", "label4"}
	selectColumns = append(append([]string{}, insertColumns...), "created_at")
)

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// row mirrors a related_records row for scanning.
type row struct {
	ID               uuid.UUID `db:"id"`
	Label1           *string   `db:"label1"`
	RelationshipType *string   `db:"relationship_type"`
	Label2           *string   `db:"label2"`
	Label3           *string   `db:"label3"`
	Words            []string  `db:"words"`
	Gram             *string   `db:"gram"`
	Label4           *string   `db:"label4"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r row) toDomain() domain.StoredRelated {
	return domain.StoredRelated{
		ID: r.ID,
		Related: domain.Related{
			Label1:           r.Label1,
			RelationshipType: r.RelationshipType,
			Label2:           r.Label2,
			Label3:           r.Label3,
			Words:            r.Words,
			Gram:             r.Gram,
			Label4:           r.Label4,
		},
		CreatedAt: r.CreatedAt,
	}
}

// Repo provides related_records persistence.
type Repo struct {
	db  postgres.Querier
	txm *postgres.TxManager
}

// New creates a new Repo.
func New(db postgres.Querier, txm *postgres.TxManager) *Repo {
	return &Repo{db: db, txm: txm}
}

// Create inserts rec under a fresh ID.
func (r *Repo) Create(ctx context.Context, rec *domain.Related) (*domain.StoredRelated, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	sql, args, err := insertQuery(id, rec).Suffix("RETURNING created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	var createdAt time.Time
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := q.QueryRow(ctx, sql, args...).Scan(&createdAt); err != nil {
		return nil, postgres.MapError(err, entity, id)
	}

	return &domain.StoredRelated{ID: id, Related: *rec.Clone(), CreatedAt: createdAt}, nil
}

// CreateBatch inserts all recs in one transaction using a pgx batch and
// returns the number of rows written.
func (r *Repo) CreateBatch(ctx context.Context, recs []*domain.Related) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, rec := range recs {
		// v7 IDs are time-ordered, so rows sharing the transaction's
		// created_at still sort in insertion order.
		id, err := uuid.NewV7()
		if err != nil {
			return 0, fmt.Errorf("generate id: %w", err)
		}
		sql, args, err := insertQuery(id, rec).ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		batch.Queue(sql, args...)
	}

	var inserted int
	err := r.txm.RunInTx(ctx, func(ctx context.Context) error {
		n, err := r.sendBatchExec(ctx, batch)
		inserted = n
		return err
	})
	if err != nil {
		return 0, postgres.MapError(err, entity, "batch")
	}
	return inserted, nil
}

func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("batch exec: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// GetByID returns the record with the given ID or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredRelated, error) {
	sql, args, err := builder().
		Select(selectColumns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, entity, id)
	}

	stored := out.toDomain()
	return &stored, nil
}

// Find returns records matching f in insertion order. f.Limit must be positive.
func (r *Repo) Find(ctx context.Context, f domain.RelatedFilter) ([]domain.StoredRelated, error) {
	query := builder().
		Select(selectColumns...).
		From(table).
		OrderBy("created_at", "id").
		Limit(uint64(f.Limit))

	if f.Label1 != nil {
		query = query.Where(squirrel.Eq{"label1": *f.Label1})
	}
	if f.RelationshipType != nil {
		query = query.Where(squirrel.Eq{"relationship_type": *f.RelationshipType})
	}
	if f.Gram != nil {
		query = query.Where(squirrel.Eq{"gram": *f.Gram})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, entity, "find")
	}

	out := make([]domain.StoredRelated, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}

// Delete removes the record with the given ID. Returns domain.ErrNotFound if
// nothing was deleted.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := builder().Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, entity, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}

func insertQuery(id uuid.UUID, rec *domain.Related) squirrel.InsertBuilder {
	return builder().
		Insert(table).
		Columns(insertColumns...).
		Values(id, rec.Label1, rec.RelationshipType, rec.Label2, rec.Label3, rec.Words, rec.Gram, rec.Label4)
}
