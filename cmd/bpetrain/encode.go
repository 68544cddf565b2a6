package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/go-bpe-trainer/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:   "encode <text>",
		Short: "Encode text into SentencePiece token IDs using a trained model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(modelPath, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "Path to a trained .model file (required)")
	return cmd
}

// runEncode loads a trained model and prints the SentencePiece token IDs for
// text, space-separated. Full inference-time tokenization is out of scope;
// this delegates to go-sentencepiece-encoder.
func runEncode(modelPath, text string, out io.Writer) error {
	if modelPath == "" {
		return fmt.Errorf("--model is required")
	}

	tok, err := tokenizer.NewSentencePieceTokenizer(modelPath)
	if err != nil {
		return fmt.Errorf("load model %q: %w", modelPath, err)
	}

	ids, err := tok.Encode(text)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = strconv.FormatInt(id, 10)
	}
	_, err = fmt.Fprintln(out, strings.Join(strs, " "))
	return err
}
