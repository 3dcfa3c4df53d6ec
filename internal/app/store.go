package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/relatedwords/internal/adapter/postgres"
	pgrelated "github.com/heartmarshall/relatedwords/internal/adapter/postgres/related"
	"github.com/heartmarshall/relatedwords/internal/adapter/sqlite"
	sqliterelated "github.com/heartmarshall/relatedwords/internal/adapter/sqlite/related"
	"github.com/heartmarshall/relatedwords/internal/config"
	"github.com/heartmarshall/relatedwords/internal/domain"
)

// Store is the repository surface shared by both storage backends.
type Store interface {
	Create(ctx context.Context, rec *domain.Related) (*domain.StoredRelated, error)
	CreateBatch(ctx context.Context, recs []*domain.Related) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredRelated, error)
	Find(ctx context.Context, f domain.RelatedFilter) ([]domain.StoredRelated, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	_ Store = (*pgrelated.Repo)(nil)
	_ Store = (*sqliterelated.Store)(nil)
)

// OpenStore connects to the backend selected by cfg.Store.Driver, applying
// migrations first when migrate is set. The returned func releases the
// connection.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if migrate {
			if err := postgres.Migrate(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		logger.Info("store opened", slog.String("driver", config.DriverPostgres))
		return pgrelated.New(pool, postgres.NewTxManager(pool)), pool.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			if err := sqlite.Migrate(ctx, db, logger); err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		logger.Info("store opened",
			slog.String("driver", config.DriverSQLite),
			slog.String("path", cfg.Store.SQLitePath),
		)
		return sqliterelated.New(db), func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
