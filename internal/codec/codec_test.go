package codec

import (
	"errors"
	"testing"

	"document-relay/internal/config"
)

func newTestCodec() *Codec {
	return New(config.CodecConfig{})
}

func TestUnsupportedFamily(t *testing.T) {
	c := newTestCodec()

	_, err := c.Extract(Artifact{Data: []byte("not parsed"), Filename: "x.bin"}, Unsupported)
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("Extract: expected ErrUnsupportedFileType, got %v", err)
	}
	var extractErr *ExtractionError
	if errors.As(err, &extractErr) {
		t.Fatalf("Extract: unsupported must not report a parse failure, got %v", err)
	}

	out, err := c.Reconstruct("anything", Unsupported, "application/pdf")
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("Reconstruct: expected ErrUnsupportedFileType, got %v", err)
	}
	if out != nil {
		t.Fatalf("Reconstruct: expected no output, got %v", out)
	}
}

func TestExtractCorruptOfficeFiles(t *testing.T) {
	c := newTestCodec()
	garbage := []byte("this is not a zip archive")

	for _, family := range []Family{Word, Excel, PowerPoint} {
		_, err := c.Extract(Artifact{Data: garbage}, family)
		var extractErr *ExtractionError
		if !errors.As(err, &extractErr) {
			t.Errorf("%s: expected ExtractionError, got %v", family, err)
			continue
		}
		if extractErr.Family != family {
			t.Errorf("%s: error family = %q", family, extractErr.Family)
		}
		if extractErr.Cause == nil {
			t.Errorf("%s: expected a cause", family)
		}
	}
}

func TestExtractTooLarge(t *testing.T) {
	c := New(config.CodecConfig{MaxFileSize: 4})

	_, err := c.Extract(Artifact{Data: []byte("12345")}, Text)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) || extractErr.Family != Text {
		t.Fatalf("expected text ExtractionError, got %v", err)
	}
}

func TestReconstructionErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := error(&ReconstructionError{Family: Excel, Cause: cause})
	if !errors.Is(err, cause) {
		t.Fatal("expected ReconstructionError to unwrap to its cause")
	}
	if err.Error() != "failed to reconstruct excel file: boom" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestTextRoundTrip(t *testing.T) {
	c := newTestCodec()
	inputs := []string{
		"",
		"hello",
		"line one\nline two\n",
		"windows\r\nline endings\r\n",
		"  leading and trailing  \n\n\n",
		"ünïcödé ✓ 日本語",
		`{"key": [1, 2, 3]}`,
	}

	for _, in := range inputs {
		original := []byte(in)
		text, err := c.Extract(Artifact{Data: original, MediaType: "text/plain", Filename: "a.txt"}, Text)
		if err != nil {
			t.Fatalf("Extract(%q): %v", in, err)
		}
		out, err := c.Reconstruct(text, Text, "text/plain; charset=utf-8")
		if err != nil {
			t.Fatalf("Reconstruct(%q): %v", in, err)
		}
		if string(out.Data) != in {
			t.Errorf("round trip changed bytes: %q -> %q", in, out.Data)
		}
		if out.MediaType != "text/plain; charset=utf-8" {
			t.Errorf("media type = %q, want original", out.MediaType)
		}
	}
}

func TestTextReconstructDefaultMediaType(t *testing.T) {
	out, err := newTestCodec().Reconstruct("x", Text, "")
	if err != nil {
		t.Fatal(err)
	}
	if out.MediaType != MediaTypeText {
		t.Errorf("media type = %q, want %q", out.MediaType, MediaTypeText)
	}
}
