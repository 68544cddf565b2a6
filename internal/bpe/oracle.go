package bpe

import "fmt"

// SlowOracle is a deliberately naive reference trainer: it rebuilds the full
// pair-frequency map from scratch at every step instead of maintaining the
// incremental CandidateIndex/DocumentGraph machinery Run uses. It exists to
// cross-validate Run's output in tests (and behind the --slow debug flag),
// never as a production code path.
func SlowOracle(sentences [][]rune, vocabSize int) (*Vocabulary, error) {
	vocab := NewVocabulary(sentences)
	if vocabSize < vocab.Len() {
		return nil, fmt.Errorf("%w: requested %d, minimum is %d", ErrVocabTooSmall, vocabSize, vocab.Len())
	}

	// Each word is a slice of current symbols; a symbol starts as one rune
	// and grows as merges fold it together with a neighbor. Representing
	// merged output as concatenated strings (rather than mutating a rune
	// array in place, as DocumentGraph does) is what makes this the "slow"
	// reference: every step rescans every word from scratch.
	words := make([][]string, len(sentences))
	for i, s := range sentences {
		w := make([]string, len(s))
		for j, r := range s {
			w[j] = string(r)
		}
		words[i] = w
	}

	for vocab.Len() < vocabSize {
		freq := make(map[string]int)
		for _, w := range words {
			for i := 0; i+1 < len(w); i++ {
				pair := w[i] + w[i+1]
				if isValidPiece(pair) {
					freq[pair]++
				}
			}
		}
		if len(freq) == 0 {
			return nil, fmt.Errorf("%w: reachable size is %d", ErrVocabUnreachable, vocab.Len())
		}

		best := bestPair(freq)
		vocab.AddPiece(best)

		for i, w := range words {
			words[i] = mergeAll(w, best)
		}
	}

	return vocab, nil
}

// bestPair returns the pair with the highest frequency, ties broken by
// lexicographically greater pair content, matching CandidateIndex.PopBest.
func bestPair(freq map[string]int) string {
	var best string
	bestCount := -1
	for pair, count := range freq {
		if count > bestCount || (count == bestCount && pair > best) {
			best = pair
			bestCount = count
		}
	}
	return best
}

// mergeAll replaces every non-overlapping adjacent (w[i], w[i+1]) whose
// concatenation equals merged with a single combined symbol, scanning left
// to right.
func mergeAll(w []string, merged string) []string {
	out := make([]string, 0, len(w))
	for i := 0; i < len(w); {
		if i+1 < len(w) && w[i]+w[i+1] == merged {
			out = append(out, merged)
			i += 2
			continue
		}
		out = append(out, w[i])
		i++
	}
	return out
}
