package bpe

import (
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// ErrVocabTooSmall is returned when the requested vocab size cannot even fit
// the predefined pieces and the base character inventory.
var ErrVocabTooSmall = errors.New("vocab_size must be at least the size of the predefined+character vocabulary")

// ErrVocabUnreachable is returned when no more pairs can be merged before the
// requested vocab size is reached (every remaining pair trails a boundary).
var ErrVocabUnreachable = errors.New("vocab_size exceeds the reachable vocabulary size")

// Run trains a Vocabulary of exactly vocabSize pieces from sentences, which
// must already be normalized (see ToChars). The merge loop is single
// threaded and deterministic: at each step it selects the most frequent
// valid adjacent pair (ties broken by pair content), merges every
// non-overlapping occurrence, and repeats until the vocabulary reaches
// vocabSize.
func Run(sentences [][]rune, vocabSize int) (*Vocabulary, error) {
	vocab := NewVocabulary(sentences)
	if vocabSize < vocab.Len() {
		return nil, fmt.Errorf("%w: requested %d, minimum is %d", ErrVocabTooSmall, vocabSize, vocab.Len())
	}

	graph := NewDocumentGraph(sentences)
	index := NewCandidateIndex()
	for sid, s := range sentences {
		for i := 0; i+1 < len(s); i++ {
			index.Insert(string(s[i:i+2]), Position{Sid: sid, I: i})
		}
	}

	slog.Info("bpe: starting training", "initial_vocab_size", vocab.Len(), "target_vocab_size", vocabSize)

	step := 0
	for vocab.Len() < vocabSize {
		step++

		bestPair, bestPositions, err := selectBestPair(index, vocab.Len())
		if err != nil {
			return nil, err
		}
		vocab.AddPiece(bestPair)
		logStep(step, vocab.Len(), bestPair)

		m := nonOverlapping(graph, bestPositions)
		removeStaleAdjacentPairs(graph, index, m)
		mutateGraph(graph, step, m)
		insertNewAdjacentPairs(graph, index, m)

		assertInvariants(graph, index, step)
	}

	slog.Info("bpe: training complete", "steps", step, "vocab_size", vocab.Len())
	return vocab, nil
}

// selectBestPair pops candidates until it finds one that does not trail a
// SpaceRep boundary; boundary-trailing pairs are discarded, never merged.
func selectBestPair(index *CandidateIndex, reachableSize int) (string, []Position, error) {
	for {
		pair, positions, ok := index.PopBest()
		if !ok {
			return "", nil, fmt.Errorf("%w: reachable size is %d", ErrVocabUnreachable, reachableSize)
		}
		if isValidPiece(pair) {
			return pair, positions, nil
		}
	}
}

func isValidPiece(pair string) bool {
	if pair == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(pair)
	return r != SpaceRep
}

// nonOverlapping filters positions (already sorted ascending) down to the
// subset that can be merged in the same step without one merge invalidating
// another: a position is kept only if its immediate predecessor was not
// already kept.
func nonOverlapping(graph *DocumentGraph, positions []Position) []Position {
	kept := make([]Position, 0, len(positions))
	processed := make(map[Position]struct{}, len(positions))
	for _, pos := range positions {
		if prev, ok := graph.NthFrom(pos, -1); ok {
			if _, already := processed[prev]; already {
				continue
			}
		}
		processed[pos] = struct{}{}
		kept = append(kept, pos)
	}
	return kept
}

func removeStaleAdjacentPairs(graph *DocumentGraph, index *CandidateIndex, m []Position) {
	for _, pos := range m {
		if pair, ppos, ok := graph.PairWords(pos, -1, 1); ok {
			index.Remove(string(pair), ppos)
		}
		if pair, ppos, ok := graph.PairWords(pos, 1, 3); ok {
			index.Remove(string(pair), ppos)
		}
	}
}

func mutateGraph(graph *DocumentGraph, step int, m []Position) {
	for _, pos := range m {
		next, ok := graph.NthFrom(pos, 1)
		assertInvariant(ok, "merge step %d: position %+v has no live successor", step, pos)
		graph.RemoveNode(next)
	}
}

func insertNewAdjacentPairs(graph *DocumentGraph, index *CandidateIndex, m []Position) {
	for _, pos := range m {
		if pair, ppos, ok := graph.PairWords(pos, -1, 1); ok {
			index.Insert(string(pair), ppos)
		}
		if pair, ppos, ok := graph.PairWords(pos, 0, 2); ok {
			index.Insert(string(pair), ppos)
		}
	}
}

func logStep(step, vocabLen int, pair string) {
	if debugBuild || step%20 == 0 {
		slog.Info("bpe: training step", "step", step, "vocab_size", vocabLen)
	}
	slog.Debug("bpe: merged pair", "step", step, "piece", pair)
}
