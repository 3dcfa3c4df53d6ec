// Command related-convert reads Related records as JSON and writes them back
// in normalized form: unknown keys dropped, absent fields omitted, one record
// per line.
//
// Flags:
//
//	-in       input file (default: stdin)
//	-out      output file (default: stdout)
//	-strict   reject malformed fields instead of dropping them
//	-indent   indent each record
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/heartmarshall/relatedwords/internal/app"
	"github.com/heartmarshall/relatedwords/internal/codec"
	"github.com/heartmarshall/relatedwords/internal/config"
	"github.com/heartmarshall/relatedwords/internal/domain"
)

func main() {
	inFlag := flag.String("in", "", "input file (default: stdin)")
	outFlag := flag.String("out", "", "output file (default: stdout)")
	strictFlag := flag.Bool("strict", false, "fail on malformed fields")
	indentFlag := flag.Bool("indent", false, "indent output records")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *strictFlag {
		cfg.Decode.Strict = true
	}

	logger := app.NewLogger(cfg.Log)

	if err := run(logger, cfg, *inFlag, *outFlag, *indentFlag); err != nil {
		logger.Error("convert failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg *config.Config, inPath, outPath string, indent bool) error {
	var in io.Reader = os.Stdin
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	var opts []codec.Option
	if indent {
		opts = append(opts, codec.WithIndent())
	}
	c := codec.New(logger, cfg.Decode.Mode(), opts...)

	recs, err := c.DecodeAll(in)
	if err != nil {
		return err
	}

	if outPath == "" {
		if err := c.Encode(os.Stdout, recs); err != nil {
			return err
		}
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		if err := encodeAndClose(c, f, recs); err != nil {
			return err
		}
	}

	logger.Info("converted", slog.Int("records", len(recs)), slog.String("mode", c.Mode().String()))
	return nil
}

// encodeAndClose writes recs to w and closes it. A close failure is reported
// when encoding succeeded.
func encodeAndClose(c *codec.Codec, w io.WriteCloser, recs []*domain.Related) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return c.Encode(w, recs)
}
