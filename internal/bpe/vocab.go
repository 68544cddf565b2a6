package bpe

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// Vocabulary holds the three strata of a trained vocabulary: predefined
// control pieces, learned merge pieces (in discovery order), and the base
// character inventory.
type Vocabulary struct {
	predefined []SentencePiece
	pieces     []SentencePiece
	chars      []SentencePiece
}

// NewVocabulary seeds a Vocabulary with the predefined control pieces and one
// character piece per distinct rune appearing in sentences.
func NewVocabulary(sentences [][]rune) *Vocabulary {
	seen := make(map[rune]struct{})
	var order []rune
	for _, s := range sentences {
		for _, r := range s {
			if _, ok := seen[r]; !ok {
				seen[r] = struct{}{}
				order = append(order, r)
			}
		}
	}

	chars := make([]SentencePiece, 0, len(order))
	for _, r := range order {
		chars = append(chars, SentencePiece{Piece: string(r), Type: PieceNormal})
	}

	return &Vocabulary{
		predefined: predefinedPieces(),
		chars:      chars,
	}
}

func predefinedPieces() []SentencePiece {
	return []SentencePiece{
		{Piece: "<unk>", Type: PieceUnknown},
		{Piece: "<s>", Type: PieceControl},
		{Piece: "</s>", Type: PieceControl},
	}
}

// Len returns the current total vocabulary size across all three strata.
func (v *Vocabulary) Len() int {
	return len(v.predefined) + len(v.pieces) + len(v.chars)
}

// AddPiece appends a newly learned merge piece, scored by negated discovery
// order so earlier merges always outrank later ones.
func (v *Vocabulary) AddPiece(piece string) {
	score := -float32(len(v.pieces))
	v.pieces = append(v.pieces, SentencePiece{Piece: piece, Score: score, Type: PieceNormal})
}

// Pieces returns the learned merge pieces in discovery order.
func (v *Vocabulary) Pieces() []SentencePiece {
	return v.pieces
}

// Ordered returns the full vocabulary in canonical emission order:
// predefined, then learned pieces, then base characters.
func (v *Vocabulary) Ordered() []SentencePiece {
	out := make([]SentencePiece, 0, v.Len())
	out = append(out, v.predefined...)
	out = append(out, v.pieces...)
	out = append(out, v.chars...)
	return out
}

// Save writes both <prefix>.vocab and <prefix>.model, staging each to a
// temporary file first and renaming both into place only once both encodings
// succeed, so a failure on either leaves neither output file behind.
func (v *Vocabulary) Save(prefix string) error {
	vocabPath := prefix + ".vocab"
	modelPath := prefix + ".model"

	vocabTmp, err := stageVocabTSV(v, vocabPath)
	if err != nil {
		return err
	}
	modelTmp, err := stageModel(v, modelPath)
	if err != nil {
		os.Remove(vocabTmp)
		return err
	}

	if err := os.Rename(vocabTmp, vocabPath); err != nil {
		os.Remove(vocabTmp)
		os.Remove(modelTmp)
		return fmt.Errorf("commit %q: %w", vocabPath, err)
	}
	if err := os.Rename(modelTmp, modelPath); err != nil {
		os.Remove(modelTmp)
		os.Remove(vocabPath)
		return fmt.Errorf("commit %q: %w", modelPath, err)
	}
	return nil
}

func stageVocabTSV(v *Vocabulary, finalPath string) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(finalPath), filepath.Base(finalPath)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("stage %q: %w", finalPath, err)
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, p := range v.Ordered() {
		if _, err := fmt.Fprintf(w, "%s\t%g\n", p.Piece, p.Score); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return "", fmt.Errorf("stage %q: %w", finalPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("stage %q: %w", finalPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("stage %q: %w", finalPath, err)
	}
	return tmpPath, nil
}

func stageModel(v *Vocabulary, finalPath string) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(finalPath), filepath.Base(finalPath)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("stage %q: %w", finalPath, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(EncodeModel(v.Ordered())); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("stage %q: %w", finalPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("stage %q: %w", finalPath, err)
	}
	return tmpPath, nil
}
