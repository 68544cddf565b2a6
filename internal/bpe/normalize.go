// Package bpe implements a SentencePiece-style byte-pair-encoding vocabulary
// trainer: NFKD + whitespace normalization, a document graph of linked
// sentences, a frequency-ordered candidate index, and the merge loop that
// drives them.
package bpe

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SpaceRep is the marker substituted for whitespace runs, matching
// SentencePiece's own convention.
const SpaceRep = '▁'

// NormalizeConfig controls whitespace handling during normalization.
type NormalizeConfig struct {
	// KeepExtraWhitespaces disables collapsing of whitespace runs: every
	// whitespace rune in the input produces its own SpaceRep marker, and the
	// line is not trimmed first.
	KeepExtraWhitespaces bool
}

// ToChars normalizes a line of text into the rune sequence the trainer
// operates on: NFKD-decomposed, with a leading SpaceRep marker and every
// whitespace run (or, with KeepExtraWhitespaces, every whitespace rune)
// replaced by SpaceRep.
func ToChars(line string, cfg NormalizeConfig) []rune {
	if !cfg.KeepExtraWhitespaces {
		line = strings.TrimSpace(line)
	}

	decomposed := norm.NFKD.String(line)

	out := make([]rune, 0, len(decomposed)+1)
	out = append(out, SpaceRep)
	for _, r := range decomposed {
		if unicode.IsSpace(r) {
			if !cfg.KeepExtraWhitespaces && out[len(out)-1] == SpaceRep {
				continue
			}
			out = append(out, SpaceRep)
			continue
		}
		out = append(out, r)
	}
	return out
}
