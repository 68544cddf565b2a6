// Package tokenizer provides the inference-side interface contract for
// models produced by the bpe trainer. Only the skeletal encode/decode
// surface is implemented here; loading and decoding a trained model is
// delegated to the upstream go-sentencepiece-encoder implementation.
package tokenizer

// Tokenizer encodes text into SentencePiece token IDs.
type Tokenizer interface {
	// Encode tokenizes text and returns SentencePiece token IDs.
	Encode(text string) ([]int64, error)
}
