package bpe

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// PieceType mirrors SentencePiece's ModelProto.SentencePiece.Type enum
// numbering, so models written here decode with the real schema.
type PieceType int32

const (
	PieceNormal      PieceType = 1
	PieceUnknown     PieceType = 2
	PieceControl     PieceType = 3
	PieceUserDefined PieceType = 4
	PieceUnused      PieceType = 5
	PieceByte        PieceType = 6
)

// SentencePiece is one entry of a trained vocabulary.
type SentencePiece struct {
	Piece string
	Score float32
	Type  PieceType
}

const (
	fieldPiece = 1
	fieldScore = 2
	fieldType  = 3

	fieldModelPieces = 1
)

// EncodeModel serializes pieces as a ModelProto with a single repeated
// SentencePiece field, using the same field numbering as the upstream
// SentencePiece model.proto.
func EncodeModel(pieces []SentencePiece) []byte {
	var buf []byte
	for _, p := range pieces {
		inner := encodeSentencePiece(p)
		buf = protowire.AppendTag(buf, fieldModelPieces, protowire.BytesType)
		buf = protowire.AppendBytes(buf, inner)
	}
	return buf
}

func encodeSentencePiece(p SentencePiece) []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, fieldPiece, protowire.BytesType)
	buf = protowire.AppendString(buf, p.Piece)
	buf = protowire.AppendTag(buf, fieldScore, protowire.Fixed32Type)
	buf = protowire.AppendFixed32(buf, math.Float32bits(p.Score))
	buf = protowire.AppendTag(buf, fieldType, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(p.Type))
	return buf
}

// DecodeModel parses bytes produced by EncodeModel back into SentencePieces,
// in their original order. It exists for this package's own round-trip tests;
// decoding a real trained model at inference time is delegated to
// github.com/vikesh-raj/go-sentencepiece-encoder.
func DecodeModel(data []byte) ([]SentencePiece, error) {
	var pieces []SentencePiece
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("decode model: %w", protowire.ParseError(n))
		}
		data = data[n:]
		if num != fieldModelPieces || typ != protowire.BytesType {
			return nil, fmt.Errorf("decode model: unexpected field %d/%d", num, typ)
		}
		raw, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return nil, fmt.Errorf("decode model: %w", protowire.ParseError(n))
		}
		data = data[n:]

		p, err := decodeSentencePiece(raw)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, p)
	}
	return pieces, nil
}

func decodeSentencePiece(data []byte) (SentencePiece, error) {
	var p SentencePiece
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return SentencePiece{}, fmt.Errorf("decode sentence piece: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldPiece:
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return SentencePiece{}, fmt.Errorf("decode sentence piece: %w", protowire.ParseError(n))
			}
			p.Piece = s
			data = data[n:]
		case fieldScore:
			bits, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return SentencePiece{}, fmt.Errorf("decode sentence piece: %w", protowire.ParseError(n))
			}
			p.Score = math.Float32frombits(bits)
			data = data[n:]
		case fieldType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return SentencePiece{}, fmt.Errorf("decode sentence piece: %w", protowire.ParseError(n))
			}
			p.Type = PieceType(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return SentencePiece{}, fmt.Errorf("decode sentence piece: %w", protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return p, nil
}
