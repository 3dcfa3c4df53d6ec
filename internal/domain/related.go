package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Canonical mapping keys, in declaration order.
const (
	KeyLabel1           = "label1"
	KeyRelationshipType = "relationshipType"
	KeyLabel2           = "label2"
	KeyLabel3           = "label3"
	KeyWords            = "words"
	KeyGram             = "gram"
	KeyLabel4           = "label4"
)

// Keys lists the canonical mapping keys in declaration order.
var Keys = []string{
	KeyLabel1, KeyRelationshipType, KeyLabel2, KeyLabel3, KeyWords, KeyGram, KeyLabel4,
}

// Related is one "related words" entry of a dictionary API response.
//
// Every field is optional. A nil pointer means the field is absent, which is
// different from a pointer to "". Words follows the same rule: nil is absent,
// a non-nil empty slice is a present empty list.
type Related struct {
	Label1           *string
	RelationshipType *string // synonym, antonym, hypernym, ...
	Label2           *string
	Label3           *string
	Words            []string
	Gram             *string
	Label4           *string
}

// NewRelated builds a Related from explicit field values. Values are stored as given.
func NewRelated(label1, relationshipType, label2, label3 *string, words []string, gram, label4 *string) *Related {
	return &Related{
		Label1:           label1,
		RelationshipType: relationshipType,
		Label2:           label2,
		Label3:           label3,
		Words:            words,
		Gram:             gram,
		Label4:           label4,
	}
}

// HasWords reports whether the words field is present.
func (r *Related) HasWords() bool {
	return r.Words != nil
}

// Equal reports whether both records have the same fields present with equal values.
func (r Related) Equal(o Related) bool {
	if r.HasWords() != o.HasWords() {
		return false
	}
	return eqPtr(r.Label1, o.Label1) &&
		eqPtr(r.RelationshipType, o.RelationshipType) &&
		eqPtr(r.Label2, o.Label2) &&
		eqPtr(r.Label3, o.Label3) &&
		slices.Equal(r.Words, o.Words) &&
		eqPtr(r.Gram, o.Gram) &&
		eqPtr(r.Label4, o.Label4)
}

// Clone returns a deep copy that shares no memory with r.
func (r *Related) Clone() *Related {
	if r == nil {
		return nil
	}
	return &Related{
		Label1:           clonePtr(r.Label1),
		RelationshipType: clonePtr(r.RelationshipType),
		Label2:           clonePtr(r.Label2),
		Label3:           clonePtr(r.Label3),
		Words:            cloneWords(r.Words),
		Gram:             clonePtr(r.Gram),
		Label4:           clonePtr(r.Label4),
	}
}

// StoredRelated is a Related record persisted in a store. ID identifies the
// storage row only.
type StoredRelated struct {
	ID        uuid.UUID
	Related   Related
	CreatedAt time.Time
}

// RelatedFilter selects stored records. Nil fields do not filter.
type RelatedFilter struct {
	Label1           *string
	RelationshipType *string
	Gram             *string
	Limit            int
}

func eqPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneWords keeps the nil/empty distinction that slices.Clone does not promise.
func cloneWords(w []string) []string {
	if w == nil {
		return nil
	}
	out := make([]string, len(w))
	copy(out, w)
	return out
}
