package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"document-relay/internal/codec"
	"document-relay/internal/config"
)

func TestReadArtifact(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	a, family, err := readArtifact(txt)
	if err != nil {
		t.Fatal(err)
	}
	if family != codec.Text || a.Filename != "notes.txt" || string(a.Data) != "hello" {
		t.Errorf("unexpected artifact %+v (%s)", a, family)
	}

	pdf := filepath.Join(dir, "paper.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := readArtifact(pdf); !errors.Is(err, codec.ErrUnsupportedFileType) {
		t.Errorf("expected ErrUnsupportedFileType, got %v", err)
	}
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.pptx")
	out, err := codec.New(config.CodecConfig{}).Reconstruct("Intro\n\nConclusion", codec.PowerPoint, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"extract", "--config", configFilePath, "--file", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got := buf.String(); !strings.Contains(got, "Intro\n\nConclusion") {
		t.Errorf("unexpected output %q", got)
	}
}
