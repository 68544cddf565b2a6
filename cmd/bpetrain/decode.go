package main

import (
	"errors"

	"github.com/spf13/cobra"
)

// ErrDecodeNotImplemented is returned by the decode subcommand. Decoding IDs
// back to text at inference time is out of scope for this trainer.
var ErrDecodeNotImplemented = errors.New("decode is not implemented")

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <ids...>",
		Short: "Decode SentencePiece token IDs back into text (not implemented)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ErrDecodeNotImplemented
		},
	}
	return cmd
}
