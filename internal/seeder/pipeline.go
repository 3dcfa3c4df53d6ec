// Package seeder loads Related records from WordNet and JSON files and either
// stores them or prints them.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/heartmarshall/relatedwords/internal/codec"
	"github.com/heartmarshall/relatedwords/internal/domain"
	"github.com/heartmarshall/relatedwords/internal/seeder/wordnet"
	"github.com/heartmarshall/relatedwords/internal/service/related"
)

// ErrNoSource is returned when neither a WordNet directory nor an input file is configured.
var ErrNoSource = errors.New("seeder: no source configured")

// Importer stores records. *related.Service satisfies it.
type Importer interface {
	Import(ctx context.Context, mappings []domain.Mapping) (related.ImportResult, error)
	ImportRecords(ctx context.Context, recs []*domain.Related) (related.ImportResult, error)
}

// Result summarizes a pipeline run.
type Result struct {
	Records  int
	Saved    int
	Rejected []related.Rejection
}

// HasErrors reports whether any input item was rejected.
func (r Result) HasErrors() bool { return len(r.Rejected) > 0 }

// Pipeline runs the WordNet and JSON input phases.
type Pipeline struct {
	log   *slog.Logger
	cfg   Config
	codec *codec.Codec
	store Importer
	out   io.Writer
}

// NewPipeline creates a Pipeline. store may be nil when cfg.DryRun is set;
// dry runs write records to out instead.
func NewPipeline(log *slog.Logger, cfg Config, c *codec.Codec, store Importer, out io.Writer) *Pipeline {
	return &Pipeline{
		log:   log.With("component", "seeder"),
		cfg:   cfg,
		codec: c,
		store: store,
		out:   out,
	}
}

// Run executes the configured phases.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	if p.cfg.WordNetPath == "" && p.cfg.InputPath == "" {
		return Result{}, ErrNoSource
	}
	if !p.cfg.DryRun && p.store == nil {
		return Result{}, errors.New("seeder: no store configured")
	}

	var (
		recs     []*domain.Related
		mappings []domain.Mapping
	)

	if p.cfg.WordNetPath != "" {
		wn, err := p.loadWordNet()
		if err != nil {
			return Result{}, err
		}
		recs = wn
	}

	if p.cfg.InputPath != "" {
		ms, err := p.loadInput()
		if err != nil {
			return Result{}, err
		}
		mappings = ms
	}

	if p.cfg.DryRun {
		return p.print(recs, mappings)
	}
	return p.save(ctx, recs, mappings)
}

func (p *Pipeline) loadWordNet() ([]*domain.Related, error) {
	var known map[string]bool
	if p.cfg.KnownWordsPath != "" {
		k, err := LoadKnownWords(p.cfg.KnownWordsPath)
		if err != nil {
			return nil, err
		}
		known = k
	}

	parsed, err := wordnet.Parse(p.cfg.WordNetPath, known)
	if err != nil {
		return nil, fmt.Errorf("seeder: wordnet: %w", err)
	}

	recs := parsed.ToRelated()
	p.log.Info("wordnet parsed",
		slog.Int("entries", parsed.Stats.TotalEntries),
		slog.Int("synsets", parsed.Stats.TotalSynsets),
		slog.Int("relations", parsed.Stats.TotalRelations),
		slog.Int("filtered_by_known", parsed.Stats.FilteredByKnown),
		slog.Int("duplicates", parsed.Stats.Duplicates),
		slog.Int("records", len(recs)),
	)
	return recs, nil
}

func (p *Pipeline) loadInput() ([]domain.Mapping, error) {
	f, err := os.Open(p.cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("seeder: input: %w", err)
	}
	defer f.Close()

	mappings, err := p.codec.DecodeMappings(f)
	if err != nil {
		return nil, fmt.Errorf("seeder: input %s: %w", p.cfg.InputPath, err)
	}
	p.log.Info("input read", slog.String("path", p.cfg.InputPath), slog.Int("items", len(mappings)))
	return mappings, nil
}

// print decodes mappings in the codec's mode and writes every record to out.
// Input indexes in rejections are offset past the WordNet records.
func (p *Pipeline) print(recs []*domain.Related, mappings []domain.Mapping) (Result, error) {
	res := Result{}
	all := append([]*domain.Related{}, recs...)

	for i, m := range mappings {
		rec, err := domain.DecodeRelated(m, p.codec.Mode())
		if err != nil {
			res.Rejected = append(res.Rejected, related.Rejection{Index: len(recs) + i, Err: err})
			continue
		}
		all = append(all, rec)
	}

	if err := p.codec.Encode(p.out, all); err != nil {
		return res, fmt.Errorf("seeder: write: %w", err)
	}
	res.Records = len(all)
	p.log.Info("dry run complete", slog.Int("records", res.Records), slog.Int("rejected", len(res.Rejected)))
	return res, nil
}

func (p *Pipeline) save(ctx context.Context, recs []*domain.Related, mappings []domain.Mapping) (Result, error) {
	res := Result{Records: len(recs) + len(mappings)}

	if len(recs) > 0 {
		r, err := p.store.ImportRecords(ctx, recs)
		res.Saved += r.Saved
		res.Rejected = append(res.Rejected, r.Rejected...)
		if err != nil {
			return res, fmt.Errorf("seeder: wordnet: %w", err)
		}
	}

	if len(mappings) > 0 {
		r, err := p.store.Import(ctx, mappings)
		res.Saved += r.Saved
		for _, rej := range r.Rejected {
			rej.Index += len(recs)
			res.Rejected = append(res.Rejected, rej)
		}
		if err != nil {
			return res, fmt.Errorf("seeder: input: %w", err)
		}
	}

	p.log.InfoContext(ctx, "import complete",
		slog.Int("records", res.Records),
		slog.Int("saved", res.Saved),
		slog.Int("rejected", len(res.Rejected)),
	)
	return res, nil
}
