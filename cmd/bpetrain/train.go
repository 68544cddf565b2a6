package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/example/go-bpe-trainer/internal/bpe"
	"github.com/example/go-bpe-trainer/internal/config"
	"github.com/spf13/cobra"
)

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train <input>",
		Short: "Train a BPE vocabulary from a corpus of raw text lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			return runTrain(cfg.Train, args[0])
		},
	}
	return cmd
}

func runTrain(cfg config.TrainConfig, input string) error {
	if cfg.Slow && !bpe.DebugBuild() {
		return fmt.Errorf("--slow requires a debug build (build with -tags debug)")
	}

	start := time.Now()
	sentences, err := bpe.LoadCorpus(input, bpe.CorpusOptions{
		NormalizeConfig: bpe.NormalizeConfig{KeepExtraWhitespaces: cfg.KeepExtraWhitespaces},
	})
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	slog.Info("bpetrain: corpus loaded", "sentences", len(sentences), "elapsed", time.Since(start))

	train := bpe.Run
	if cfg.Slow {
		train = bpe.SlowOracle
	}

	vocab, err := train(sentences, cfg.VocabSize)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	if err := vocab.Save(cfg.ModelPrefix); err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}

	slog.Info("bpetrain: done",
		"vocab_size", vocab.Len(),
		"vocab_path", cfg.ModelPrefix+".vocab",
		"model_path", cfg.ModelPrefix+".model",
		"elapsed", time.Since(start))
	return nil
}
