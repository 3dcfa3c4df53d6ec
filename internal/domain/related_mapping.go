package domain

import (
	"encoding/json"
	"fmt"
)

// Mapping is the generic string-keyed shape a Related is decoded from and
// encoded to, e.g. a decoded JSON object.
type Mapping map[string]any

// DecodeMode controls how DecodeRelated treats present values of the wrong shape.
type DecodeMode int

const (
	// DecodePermissive leaves mismatched fields absent and never fails.
	DecodePermissive DecodeMode = iota
	// DecodeStrict fails with *MalformedInputError on the first mismatched field.
	DecodeStrict
)

func (m DecodeMode) String() string {
	if m == DecodeStrict {
		return "strict"
	}
	return "permissive"
}

const (
	shapeText  = "text"
	shapeWords = "sequence of text"
)

// NewRelatedFromMapping builds a Related from m, tolerating missing, unknown
// and mismatched keys.
func NewRelatedFromMapping(m Mapping) *Related {
	r, _ := DecodeRelated(m, DecodePermissive)
	return r
}

// DecodeRelated builds a Related from m. Unknown keys are ignored and a
// missing key or a null value leaves the field absent. In strict mode a
// present value of the wrong shape is reported as *MalformedInputError;
// keys are checked in canonical order.
func DecodeRelated(m Mapping, mode DecodeMode) (*Related, error) {
	r := &Related{}
	texts := []struct {
		key string
		dst **string
	}{
		{KeyLabel1, &r.Label1},
		{KeyRelationshipType, &r.RelationshipType},
		{KeyLabel2, &r.Label2},
		{KeyLabel3, &r.Label3},
	}
	for _, f := range texts {
		if err := decodeText(m, f.key, f.dst, mode); err != nil {
			return nil, err
		}
	}

	if v, ok := m[KeyWords]; ok && v != nil {
		words, ok := asWords(v)
		if !ok && mode == DecodeStrict {
			return nil, newMalformed(KeyWords, shapeWords, v)
		}
		r.Words = words
	}

	if err := decodeText(m, KeyGram, &r.Gram, mode); err != nil {
		return nil, err
	}
	if err := decodeText(m, KeyLabel4, &r.Label4, mode); err != nil {
		return nil, err
	}

	return r, nil
}

// ToMapping returns the present fields under their canonical keys. Words is
// copied, so the mapping shares no memory with r.
func (r *Related) ToMapping() Mapping {
	m := make(Mapping, len(Keys))
	putText(m, KeyLabel1, r.Label1)
	putText(m, KeyRelationshipType, r.RelationshipType)
	putText(m, KeyLabel2, r.Label2)
	putText(m, KeyLabel3, r.Label3)
	if r.HasWords() {
		m[KeyWords] = cloneWords(r.Words)
	}
	putText(m, KeyGram, r.Gram)
	putText(m, KeyLabel4, r.Label4)
	return m
}

// MarshalJSON encodes the record as its mapping.
func (r Related) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMapping())
}

// UnmarshalJSON decodes a JSON object permissively. A JSON null leaves r unchanged.
func (r *Related) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("related: %w", err)
	}
	*r = *NewRelatedFromMapping(m)
	return nil
}

func decodeText(m Mapping, key string, dst **string, mode DecodeMode) error {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		if mode == DecodeStrict {
			return newMalformed(key, shapeText, v)
		}
		return nil
	}
	*dst = &s
	return nil
}

// asWords accepts []string and []any holding only strings. The result is a
// fresh non-nil slice.
func asWords(v any) ([]string, bool) {
	switch vv := v.(type) {
	case []string:
		return cloneWords(vv), true
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func putText(m Mapping, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}
