package wordnet

import (
	"cmp"
	"slices"

	"github.com/heartmarshall/relatedwords/internal/domain"
)

type groupKey struct {
	word    string
	relType string
	gram    string
}

// ToRelated groups relations by (word, type, gram) into Related records:
// label1 is the word, relationshipType the type, gram the part of speech and
// words the related words in first-seen order. Symmetric relations appear
// under both words; hypernyms only under the more specific word. Output is
// sorted by label1, relationshipType, gram.
func (r ParseResult) ToRelated() []*domain.Related {
	words := make(map[groupKey][]string)
	add := func(k groupKey, w string) {
		words[k] = appendUnique(words[k], w)
	}

	for _, rel := range r.Relations {
		add(groupKey{rel.SourceWord, rel.RelationType, rel.Gram}, rel.TargetWord)
		if isSymmetric(rel.RelationType) {
			add(groupKey{rel.TargetWord, rel.RelationType, rel.TargetGram}, rel.SourceWord)
		}
	}

	keys := make([]groupKey, 0, len(words))
	for k := range words {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b groupKey) int {
		return cmp.Or(
			cmp.Compare(a.word, b.word),
			cmp.Compare(a.relType, b.relType),
			cmp.Compare(a.gram, b.gram),
		)
	})

	out := make([]*domain.Related, 0, len(keys))
	for _, k := range keys {
		var gram *string
		if k.gram != "" {
			gram = ptr(k.gram)
		}
		out = append(out, domain.NewRelated(ptr(k.word), ptr(k.relType), nil, nil, words[k], gram, nil))
	}
	return out
}

func ptr(s string) *string { return &s }
