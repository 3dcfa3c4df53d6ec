// Package codec moves Related records between JSON and the domain types.
// JSON is decoded into generic mappings first and turned into records at
// this boundary, so the rest of the code only sees *domain.Related.
package codec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/relatedwords/internal/domain"
)

// ErrNotObject is returned when a JSON document is neither an object nor an array of objects.
var ErrNotObject = errors.New("codec: expected JSON object or array of objects")

// ErrTrailingData is returned when input continues after the top-level JSON value.
var ErrTrailingData = errors.New("codec: unexpected data after top-level JSON value")

// Codec decodes and encodes Related records as JSON.
type Codec struct {
	mode   domain.DecodeMode
	indent bool
	log    *slog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithIndent makes Encode write one indented object per array element.
func WithIndent() Option {
	return func(c *Codec) { c.indent = true }
}

// New creates a Codec decoding in the given mode.
func New(logger *slog.Logger, mode domain.DecodeMode, opts ...Option) *Codec {
	c := &Codec{
		mode: mode,
		log:  logger.With("component", "codec"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the decode mode of the codec.
func (c *Codec) Mode() domain.DecodeMode { return c.mode }

// DecodeOne decodes a single JSON object.
func (c *Codec) DecodeOne(data []byte) (*domain.Related, error) {
	m, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	return domain.DecodeRelated(m, c.mode)
}

// DecodeMappings reads a JSON array of objects, or a single object, and returns
// the raw mappings without turning them into records.
func (c *Codec) DecodeMappings(r io.Reader) ([]domain.Mapping, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("codec: read: %w", err)
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	switch first {
	case '{':
		var m domain.Mapping
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("codec: decode object: %w", err)
		}
		if err := expectEOF(dec); err != nil {
			return nil, err
		}
		return []domain.Mapping{m}, nil
	case '[':
		var raw []json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("codec: decode array: %w", err)
		}
		if err := expectEOF(dec); err != nil {
			return nil, err
		}
		out := make([]domain.Mapping, 0, len(raw))
		for i, item := range raw {
			m, err := decodeObject(item)
			if err != nil {
				return nil, fmt.Errorf("codec: element %d: %w", i, err)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, ErrNotObject
	}
}

// DecodeAll reads a JSON array of objects, or a single object, into records.
// In strict mode the first malformed element stops decoding and the error
// names its index.
func (c *Codec) DecodeAll(r io.Reader) ([]*domain.Related, error) {
	mappings, err := c.DecodeMappings(r)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Related, 0, len(mappings))
	for i, m := range mappings {
		rec, err := domain.DecodeRelated(m, c.mode)
		if err != nil {
			return nil, fmt.Errorf("codec: element %d: %w", i, err)
		}
		out = append(out, rec)
	}

	c.log.Debug("decoded records", slog.Int("count", len(out)), slog.String("mode", c.mode.String()))
	return out, nil
}

// Encode writes recs as a JSON array of mappings, one element per line.
func (c *Codec) Encode(w io.Writer, recs []*domain.Related) error {
	// bufio.Writer keeps the first write error; Flush reports it.
	bw := bufio.NewWriter(w)

	bw.WriteString("[")
	for i, rec := range recs {
		if i > 0 {
			bw.WriteString(",")
		}
		data, err := c.marshal(rec)
		if err != nil {
			return fmt.Errorf("codec: element %d: %w", i, err)
		}
		bw.WriteString("\n")
		bw.Write(data)
	}
	if len(recs) > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("]\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("codec: flush: %w", err)
	}
	return nil
}

func (c *Codec) marshal(rec *domain.Related) ([]byte, error) {
	if rec == nil {
		rec = &domain.Related{}
	}
	if c.indent {
		return json.MarshalIndent(rec.ToMapping(), "", "  ")
	}
	return json.Marshal(rec.ToMapping())
}

func decodeObject(data []byte) (domain.Mapping, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var m domain.Mapping
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("codec: decode object: %w", err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return m, nil
}

// expectEOF fails unless only whitespace remains in dec.
func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}
