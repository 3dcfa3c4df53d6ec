// Command related-import loads Related records from an Open English WordNet
// directory and/or a JSON file of record mappings and stores them in the
// configured backend.
//
// Flags:
//
//	-wordnet         OEWN JSON directory
//	-known           word list restricting WordNet relations
//	-input           JSON array of record mappings (or a single mapping)
//	-dry-run         print records as JSON to stdout instead of storing them
//	-migrate         apply migrations before importing
//	-seeder-config   path to seeder YAML config file
//
// Exit codes: 0 = success, 1 = error or rejected items.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/relatedwords/internal/app"
	"github.com/heartmarshall/relatedwords/internal/codec"
	"github.com/heartmarshall/relatedwords/internal/config"
	"github.com/heartmarshall/relatedwords/internal/seeder"
	"github.com/heartmarshall/relatedwords/internal/service/related"
)

type options struct {
	wordnet      string
	known        string
	input        string
	dryRun       bool
	migrate      bool
	seederConfig string
}

func main() {
	var opts options
	flag.StringVar(&opts.wordnet, "wordnet", "", "OEWN JSON directory")
	flag.StringVar(&opts.known, "known", "", "known words file, one word per line")
	flag.StringVar(&opts.input, "input", "", "JSON file with record mappings")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "print records to stdout without storing")
	flag.BoolVar(&opts.migrate, "migrate", false, "apply migrations before importing")
	flag.StringVar(&opts.seederConfig, "seeder-config", "", "path to seeder YAML config file")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(app.BuildVersion())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	os.Exit(run(app.NewLogger(cfg.Log), cfg, opts, os.Stdout))
}

// run performs the import and returns the process exit code. Deferred
// cleanup runs before main exits.
func run(logger *slog.Logger, cfg *config.Config, opts options, stdout io.Writer) int {
	seederCfg, err := seeder.LoadConfig(opts.seederConfig)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		return 1
	}

	// CLI flags override config.
	if opts.wordnet != "" {
		seederCfg.WordNetPath = opts.wordnet
	}
	if opts.known != "" {
		seederCfg.KnownWordsPath = opts.known
	}
	if opts.input != "" {
		seederCfg.InputPath = opts.input
	}
	if opts.dryRun {
		seederCfg.DryRun = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	c := codec.New(logger, cfg.Decode.Mode())

	var store seeder.Importer
	if !seederCfg.DryRun {
		repo, closeStore, err := app.OpenStore(ctx, cfg, logger, opts.migrate)
		if err != nil {
			logger.Error("open store", slog.String("error", err.Error()))
			return 1
		}
		defer closeStore()

		store = related.NewService(logger, repo, cfg.Decode.Mode(), cfg.Import)
	}

	logger.Info("import starting",
		slog.String("build", app.BuildVersion()),
		slog.String("mode", c.Mode().String()),
		slog.Bool("dry_run", seederCfg.DryRun),
	)

	res, err := seeder.NewPipeline(logger, *seederCfg, c, store, stdout).Run(ctx)
	if err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		return 1
	}

	for _, rej := range res.Rejected {
		logger.Warn("item rejected", slog.Int("index", rej.Index), slog.String("error", rej.Err.Error()))
	}
	if res.HasErrors() {
		logger.Warn("import completed with rejected items", slog.Int("rejected", len(res.Rejected)))
		return 1
	}

	logger.Info("import completed successfully", slog.Int("saved", res.Saved), slog.Int("records", res.Records))
	return 0
}
