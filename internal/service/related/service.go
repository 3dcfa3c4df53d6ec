// Package related implements storing, finding and exporting Related records.
package related

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/relatedwords/internal/config"
	"github.com/heartmarshall/relatedwords/internal/domain"
)

type relatedRepo interface {
	Create(ctx context.Context, rec *domain.Related) (*domain.StoredRelated, error)
	CreateBatch(ctx context.Context, recs []*domain.Related) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredRelated, error)
	Find(ctx context.Context, f domain.RelatedFilter) ([]domain.StoredRelated, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const (
	DefaultFindLimit = 100
	MaxFindLimit     = 1000

	defaultChunkSize   = 500
	defaultConcurrency = 4
)

// Service provides Related record operations over a repository.
type Service struct {
	repo relatedRepo
	mode domain.DecodeMode
	cfg  config.ImportConfig
	log  *slog.Logger
}

// NewService creates a new Related service decoding mappings in mode.
func NewService(log *slog.Logger, repo relatedRepo, mode domain.DecodeMode, cfg config.ImportConfig) *Service {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Service{
		repo: repo,
		mode: mode,
		cfg:  cfg,
		log:  log.With("service", "related"),
	}
}
