package seeder

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/heartmarshall/relatedwords/internal/domain"
)

// LoadKnownWords reads a word list, one word per line. Blank lines and lines
// starting with '#' are skipped; words are normalized.
func LoadKnownWords(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("known words: %w", err)
	}
	defer f.Close()

	known := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if w := domain.NormalizeWord(line); w != "" {
			known[w] = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("known words: read %s: %w", path, err)
	}
	return known, nil
}
