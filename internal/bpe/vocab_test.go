package bpe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewVocabulary_PredefinedAndChars(t *testing.T) {
	sentences := [][]rune{[]rune("ab"), []rune("ba")}
	v := NewVocabulary(sentences)

	if v.Len() != 3+2 {
		t.Fatalf("Len() = %d, want 5 (3 predefined + 2 distinct chars)", v.Len())
	}
	ordered := v.Ordered()
	if ordered[0].Piece != "<unk>" || ordered[0].Type != PieceUnknown {
		t.Errorf("first entry = %+v, want <unk>/UNKNOWN", ordered[0])
	}
	if ordered[1].Piece != "<s>" || ordered[1].Type != PieceControl {
		t.Errorf("second entry = %+v, want <s>/CONTROL", ordered[1])
	}
	if ordered[2].Piece != "</s>" || ordered[2].Type != PieceControl {
		t.Errorf("third entry = %+v, want </s>/CONTROL", ordered[2])
	}
}

func TestVocabulary_AddPieceScoresDecreaseByDiscoveryOrder(t *testing.T) {
	v := NewVocabulary(nil)
	v.AddPiece("aa")
	v.AddPiece("bb")
	v.AddPiece("cc")

	pieces := v.Pieces()
	wantScores := []float32{0, -1, -2}
	for i, p := range pieces {
		if p.Score != wantScores[i] {
			t.Errorf("piece %d score = %v, want %v", i, p.Score, wantScores[i])
		}
	}
}

func TestVocabulary_OrderedIsPredefinedThenPiecesThenChars(t *testing.T) {
	v := NewVocabulary([][]rune{[]rune("z")})
	v.AddPiece("zz")

	ordered := v.Ordered()
	if len(ordered) != 3+1+1 {
		t.Fatalf("Ordered() length = %d, want 5", len(ordered))
	}
	if ordered[3].Piece != "zz" {
		t.Errorf("learned piece should come right after predefined, got %+v", ordered[3])
	}
	if ordered[4].Piece != "z" {
		t.Errorf("char piece should come last, got %+v", ordered[4])
	}
}

func TestVocabulary_SaveWritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "m")

	v := NewVocabulary([][]rune{[]rune("ab")})
	v.AddPiece("ab")

	if err := v.Save(prefix); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	vocabData, err := os.ReadFile(prefix + ".vocab")
	if err != nil {
		t.Fatalf("read .vocab: %v", err)
	}
	if !strings.Contains(string(vocabData), "ab\t") {
		t.Errorf(".vocab contents = %q, want a row for the learned piece", vocabData)
	}

	modelData, err := os.ReadFile(prefix + ".model")
	if err != nil {
		t.Fatalf("read .model: %v", err)
	}
	decoded, err := DecodeModel(modelData)
	if err != nil {
		t.Fatalf("DecodeModel: %v", err)
	}
	if len(decoded) != v.Len() {
		t.Errorf("decoded model has %d pieces, want %d", len(decoded), v.Len())
	}
}

func TestVocabulary_SaveLeavesNoPartialOutputOnFailure(t *testing.T) {
	v := NewVocabulary([][]rune{[]rune("ab")})

	// A prefix inside a nonexistent directory makes staging the first file fail.
	prefix := filepath.Join(t.TempDir(), "missing-dir", "m")

	if err := v.Save(prefix); err == nil {
		t.Fatal("expected Save to fail when the output directory does not exist")
	}
	if _, err := os.Stat(prefix + ".vocab"); !os.IsNotExist(err) {
		t.Errorf("expected no .vocab file, stat err = %v", err)
	}
	if _, err := os.Stat(prefix + ".model"); !os.IsNotExist(err) {
		t.Errorf("expected no .model file, stat err = %v", err)
	}
}
