package related

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/relatedwords/internal/domain"
)

// Save stores a single record and returns its ID.
func (s *Service) Save(ctx context.Context, rec *domain.Related) (uuid.UUID, error) {
	if rec == nil {
		return uuid.Nil, domain.NewValidationError("record", "required")
	}

	stored, err := s.repo.Create(ctx, rec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("save related: %w", err)
	}

	s.log.DebugContext(ctx, "related saved", slog.String("id", stored.ID.String()))
	return stored.ID, nil
}

// Get returns the record stored under id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Related, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}

	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get related: %w", err)
	}
	return &stored.Related, nil
}

// Delete removes the record stored under id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete related: %w", err)
	}
	return nil
}

// Find returns stored records matching input, oldest first.
func (s *Service) Find(ctx context.Context, input FindInput) ([]domain.StoredRelated, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	found, err := s.repo.Find(ctx, input.filter())
	if err != nil {
		return nil, fmt.Errorf("find related: %w", err)
	}
	return found, nil
}

// Export returns the mapping form of every record matching input.
func (s *Service) Export(ctx context.Context, input FindInput) ([]domain.Mapping, error) {
	found, err := s.Find(ctx, input)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Mapping, 0, len(found))
	for i := range found {
		out = append(out, found[i].Related.ToMapping())
	}
	return out, nil
}
