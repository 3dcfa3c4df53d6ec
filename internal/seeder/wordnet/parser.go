// Package wordnet parses Open English WordNet (OEWN) JSON files into word
// relations and groups them into Related records. No database dependencies.
//
// Expected directory structure (as distributed by https://github.com/globalwordnet/english-wordnet):
//
//	entries-a.json … entries-z.json   lemma entries keyed by word
//	noun.*.json, verb.*.json, …       synsets keyed by synset ID
package wordnet

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/heartmarshall/relatedwords/internal/domain"
)

// Relation types produced by the parser.
const (
	TypeSynonym  = "synonym"
	TypeAntonym  = "antonym"
	TypeDerived  = "derived"
	TypeHypernym = "hypernym"
)

// Relation is a semantic relationship between two words. Gram is the part of
// speech of SourceWord, TargetGram that of TargetWord.
type Relation struct {
	SourceWord   string
	TargetWord   string
	RelationType string
	Gram         string
	TargetGram   string
}

// ParseResult holds parsed WordNet relations.
type ParseResult struct {
	Relations []Relation
	Stats     Stats
}

// Stats holds parser statistics for logging.
type Stats struct {
	TotalSynsets    int
	TotalEntries    int
	TotalRelations  int
	FilteredByKnown int
	SelfReferential int
	Duplicates      int
}

// oewnEntryFile represents an entries-*.json file: {"word": {"pos": {...}}}.
type oewnEntryFile map[string]map[string]json.RawMessage

type oewnPOSEntry struct {
	Sense []oewnSense `json:"sense"`
}

type oewnSense struct {
	ID         string   `json:"id"`
	Synset     string   `json:"synset"`
	Antonym    []string `json:"antonym"`
	Derivation []string `json:"derivation"`
}

type oewnSynset struct {
	Members      []string `json:"members"`
	Hypernym     []string `json:"hypernym"`
	PartOfSpeech string   `json:"partOfSpeech"`
}

// sense is a resolved lemma sense.
type sense struct {
	word string
	gram string
	oewnSense
}

type dedupKey struct {
	source  string
	target  string
	relType string
	gram    string
}

// Parse reads an OEWN JSON directory and extracts relations between known
// words. A nil knownWords disables filtering; an empty non-nil set yields no
// relations. Keys of knownWords must be normalized with domain.NormalizeWord.
func Parse(dirPath string, knownWords map[string]bool) (ParseResult, error) {
	if knownWords != nil && len(knownWords) == 0 {
		return ParseResult{}, nil
	}

	info, err := os.Stat(dirPath)
	if err != nil {
		return ParseResult{}, fmt.Errorf("open directory: %w", err)
	}
	if !info.IsDir() {
		return ParseResult{}, fmt.Errorf("%s is not a directory", dirPath)
	}

	senses, totalEntries, err := readSenses(dirPath)
	if err != nil {
		return ParseResult{}, err
	}

	synsets, err := readSynsets(dirPath)
	if err != nil {
		return ParseResult{}, err
	}

	senseByID := make(map[string]sense, len(senses))
	synsetToWords := make(map[string][]string)
	for _, s := range senses {
		senseByID[s.ID] = s
		synsetToWords[s.Synset] = appendUnique(synsetToWords[s.Synset], s.word)
	}

	result := ParseResult{Stats: Stats{TotalEntries: totalEntries, TotalSynsets: len(synsets)}}
	seen := make(map[dedupKey]bool)

	known := func(w string) bool { return knownWords == nil || knownWords[w] }

	addRelation := func(rel Relation) {
		if rel.SourceWord == rel.TargetWord {
			result.Stats.SelfReferential++
			return
		}
		if !known(rel.SourceWord) || !known(rel.TargetWord) {
			result.Stats.FilteredByKnown++
			return
		}
		rel = applyDirectionality(rel)
		key := dedupKey{source: rel.SourceWord, target: rel.TargetWord, relType: rel.RelationType, gram: rel.Gram}
		if seen[key] {
			result.Stats.Duplicates++
			return
		}
		seen[key] = true
		result.Relations = append(result.Relations, rel)
	}

	synsetIDs := slices.Sorted(maps.Keys(synsets))

	// Synonyms: members of the same synset.
	for _, id := range synsetIDs {
		synset := synsets[id]
		if len(synset.Members) < 2 {
			continue
		}
		gram := posName(synset.PartOfSpeech)
		members := make([]string, 0, len(synset.Members))
		for _, m := range synset.Members {
			members = append(members, domain.NormalizeWord(m))
		}
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				addRelation(Relation{
					SourceWord: members[i], TargetWord: members[j],
					RelationType: TypeSynonym, Gram: gram, TargetGram: gram,
				})
			}
		}
	}

	// Antonyms and derived forms: sense-level links.
	for _, s := range senses {
		for _, targetID := range s.Antonym {
			if t, ok := senseByID[targetID]; ok {
				addRelation(Relation{
					SourceWord: s.word, TargetWord: t.word,
					RelationType: TypeAntonym, Gram: s.gram, TargetGram: t.gram,
				})
			}
		}
		for _, targetID := range s.Derivation {
			if t, ok := senseByID[targetID]; ok {
				addRelation(Relation{
					SourceWord: s.word, TargetWord: t.word,
					RelationType: TypeDerived, Gram: s.gram, TargetGram: t.gram,
				})
			}
		}
	}

	// Hypernyms: synset-level links, specific to general.
	for _, id := range synsetIDs {
		synset := synsets[id]
		gram := posName(synset.PartOfSpeech)
		for _, hyperID := range synset.Hypernym {
			targetGram := posName(synsets[hyperID].PartOfSpeech)
			for _, sw := range synsetToWords[id] {
				for _, tw := range synsetToWords[hyperID] {
					addRelation(Relation{
						SourceWord: sw, TargetWord: tw,
						RelationType: TypeHypernym, Gram: gram, TargetGram: targetGram,
					})
				}
			}
		}
	}

	result.Stats.TotalRelations = len(result.Relations)
	return result, nil
}

// applyDirectionality orders symmetric relations by word so each pair is
// stored once. Hypernyms keep their direction.
func applyDirectionality(rel Relation) Relation {
	switch rel.RelationType {
	case TypeSynonym, TypeAntonym, TypeDerived:
		if rel.SourceWord > rel.TargetWord {
			rel.SourceWord, rel.TargetWord = rel.TargetWord, rel.SourceWord
			rel.Gram, rel.TargetGram = rel.TargetGram, rel.Gram
		}
	}
	return rel
}

// isSymmetric reports whether a relation holds in both directions.
func isSymmetric(relType string) bool {
	return relType != TypeHypernym
}

// posName maps OEWN part-of-speech codes to gram names.
func posName(code string) string {
	switch code {
	case "n":
		return "noun"
	case "v":
		return "verb"
	case "a", "s":
		return "adjective"
	case "r":
		return "adverb"
	default:
		return code
	}
}

// readSenses reads all entries-*.json files in file, word and POS order.
func readSenses(dirPath string) ([]sense, int, error) {
	entryFiles, err := filepath.Glob(filepath.Join(dirPath, "entries-*.json"))
	if err != nil {
		return nil, 0, fmt.Errorf("glob entry files: %w", err)
	}

	var (
		out   []sense
		total int
	)
	for _, path := range entryFiles {
		var entries oewnEntryFile
		if err := readJSON(path, &entries); err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}

		for _, word := range slices.Sorted(maps.Keys(entries)) {
			total++
			normalized := domain.NormalizeWord(word)
			posMap := entries[word]

			for _, pos := range slices.Sorted(maps.Keys(posMap)) {
				var posEntry oewnPOSEntry
				if err := json.Unmarshal(posMap[pos], &posEntry); err != nil {
					continue
				}
				for _, s := range posEntry.Sense {
					out = append(out, sense{word: normalized, gram: posName(pos), oewnSense: s})
				}
			}
		}
	}
	return out, total, nil
}

// readSynsets reads all {pos}.{category}.json files.
func readSynsets(dirPath string) (map[string]oewnSynset, error) {
	all := make(map[string]oewnSynset)
	for _, prefix := range []string{"noun.", "verb.", "adj.", "adv."} {
		matches, err := filepath.Glob(filepath.Join(dirPath, prefix+"*.json"))
		if err != nil {
			return nil, fmt.Errorf("glob synset files: %w", err)
		}
		for _, path := range matches {
			var synsets map[string]oewnSynset
			if err := readJSON(path, &synsets); err != nil {
				return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
			}
			maps.Copy(all, synsets)
		}
	}
	return all, nil
}

func readJSON(path string, dst any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(dst); err != nil {
		return fmt.Errorf("decode JSON: %w", err)
	}
	return nil
}

// appendUnique appends s to the slice only if not already present.
func appendUnique(sl []string, s string) []string {
	if slices.Contains(sl, s) {
		return sl
	}
	return append(sl, s)
}
