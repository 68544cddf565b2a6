package bpe

import "testing"

func TestEncodeDecodeModel_RoundTrip(t *testing.T) {
	pieces := []SentencePiece{
		{Piece: "<unk>", Score: 0, Type: PieceUnknown},
		{Piece: "<s>", Score: 0, Type: PieceControl},
		{Piece: "ab", Score: -1, Type: PieceNormal},
		{Piece: "a", Score: 0, Type: PieceNormal},
	}

	data := EncodeModel(pieces)
	decoded, err := DecodeModel(data)
	if err != nil {
		t.Fatalf("DecodeModel returned error: %v", err)
	}

	if len(decoded) != len(pieces) {
		t.Fatalf("decoded %d pieces, want %d", len(decoded), len(pieces))
	}
	for i, p := range pieces {
		if decoded[i] != p {
			t.Errorf("piece %d = %+v, want %+v", i, decoded[i], p)
		}
	}
}

func TestEncodeModel_Empty(t *testing.T) {
	data := EncodeModel(nil)
	decoded, err := DecodeModel(data)
	if err != nil {
		t.Fatalf("DecodeModel returned error: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("decoded %d pieces, want 0", len(decoded))
	}
}

func TestDecodeModel_RejectsGarbage(t *testing.T) {
	if _, err := DecodeModel([]byte{0xff, 0xff, 0xff}); err == nil {
		t.Error("expected error decoding invalid data")
	}
}
