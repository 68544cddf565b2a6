package bpe

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/atomic"
)

// ErrInvalidUTF8 is returned by LoadCorpus when a corpus line is not valid
// UTF-8; the whole load fails rather than skipping the offending line.
var ErrInvalidUTF8 = errors.New("corpus line is not valid UTF-8")

// CorpusOptions configures LoadCorpus.
type CorpusOptions struct {
	NormalizeConfig
}

// LoadCorpus reads path line by line, normalizes each line concurrently
// (Normalizer is pure and stateless, so order-preserving parallel
// normalization is observably identical to sequential normalization), and
// drops lines that normalize to nothing but the leading SpaceRep marker.
func LoadCorpus(path string, opts CorpusOptions) ([][]rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %q: %w", path, err)
	}
	defer f.Close()

	var rawLines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("%w: line %d of %q", ErrInvalidUTF8, lineNo, path)
		}
		rawLines = append(rawLines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus %q: %w", path, err)
	}

	normalized := make([][]rune, len(rawLines))
	var processed atomic.Int64
	p := pool.New().WithMaxGoroutines(normalizeWorkers(len(rawLines)))
	for i, line := range rawLines {
		i, line := i, line
		p.Go(func() {
			normalized[i] = ToChars(line, opts.NormalizeConfig)
			processed.Add(1)
		})
	}
	p.Wait()
	slog.Debug("bpe: corpus normalized", "lines", processed.Load())

	sentences := make([][]rune, 0, len(normalized))
	for _, chars := range normalized {
		if len(chars) <= 1 {
			continue // empty, or only the leading SpaceRep marker
		}
		sentences = append(sentences, chars)
	}
	return sentences, nil
}

func normalizeWorkers(lines int) int {
	switch {
	case lines < 2:
		return 1
	case lines > 8:
		return 8
	default:
		return lines
	}
}
