package main

import (
	"bytes"
	"testing"
)

func TestRunEncode_RequiresModelFlag(t *testing.T) {
	var buf bytes.Buffer
	if err := runEncode("", "hello", &buf); err == nil {
		t.Fatal("expected error when --model is empty")
	}
}

func TestRunEncode_FailsOnMissingModelFile(t *testing.T) {
	var buf bytes.Buffer
	if err := runEncode("/nonexistent/path.model", "hello", &buf); err == nil {
		t.Fatal("expected error loading a nonexistent model file")
	}
}
