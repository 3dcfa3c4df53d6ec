package related

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/relatedwords/internal/domain"
)

// Import decodes each mapping in the service's decode mode and stores the
// results. Items that fail to decode are reported in ImportResult.Rejected
// and do not stop the import. A storage error aborts the remaining chunks;
// Saved then counts the chunks that were committed.
func (s *Service) Import(ctx context.Context, mappings []domain.Mapping) (ImportResult, error) {
	var result ImportResult
	recs := make([]*domain.Related, 0, len(mappings))

	for i, m := range mappings {
		rec, err := domain.DecodeRelated(m, s.mode)
		if err != nil {
			result.Rejected = append(result.Rejected, Rejection{Index: i, Err: err})
			continue
		}
		recs = append(recs, rec)
	}

	if len(result.Rejected) > 0 {
		s.log.WarnContext(ctx, "rejected malformed items",
			slog.Int("rejected", len(result.Rejected)),
			slog.String("mode", s.mode.String()),
		)
	}

	saved, err := s.store(ctx, recs)
	result.Saved = saved
	return result, err
}

// ImportRecords stores already-built records. Nil entries are rejected.
func (s *Service) ImportRecords(ctx context.Context, recs []*domain.Related) (ImportResult, error) {
	var result ImportResult
	valid := make([]*domain.Related, 0, len(recs))

	for i, rec := range recs {
		if rec == nil {
			result.Rejected = append(result.Rejected, Rejection{
				Index: i,
				Err:   domain.NewValidationError("record", "required"),
			})
			continue
		}
		valid = append(valid, rec)
	}

	saved, err := s.store(ctx, valid)
	result.Saved = saved
	return result, err
}

// store writes recs in chunks of cfg.ChunkSize with at most cfg.Concurrency
// chunks in flight.
func (s *Service) store(ctx context.Context, recs []*domain.Related) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	var saved atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for start := 0; start < len(recs); start += s.cfg.ChunkSize {
		end := min(start+s.cfg.ChunkSize, len(recs))
		chunk := recs[start:end]

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := s.repo.CreateBatch(gctx, chunk)
			if err != nil {
				return fmt.Errorf("store chunk at %d: %w", start, err)
			}
			saved.Add(int64(n))
			return nil
		})
	}

	err := g.Wait()
	total := int(saved.Load())

	s.log.InfoContext(ctx, "import stored",
		slog.Int("records", len(recs)),
		slog.Int("saved", total),
		slog.Int("chunk_size", s.cfg.ChunkSize),
	)
	if err != nil {
		return total, fmt.Errorf("import: %w", err)
	}
	return total, nil
}
