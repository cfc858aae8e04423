// Package codec converts uploaded office and text files to plain text for
// editing and writes edited text back into the same file family.
//
// Supported families:
//   - word       .docx, paragraphs one per line
//   - excel      .xlsx, "Sheet: <name>" header then "<row>: <cells>" lines
//   - powerpoint .pptx, slides separated by a blank line
//   - text       verbatim bytes
//
// A Codec holds only configuration and is safe for concurrent use.
package codec

import (
	"fmt"
	"strings"

	"document-relay/internal/config"
)

const defaultMaxFileSize = 100 << 20

// Artifact is an uploaded file as received from a client or a store.
type Artifact struct {
	Data      []byte
	MediaType string
	Filename  string
}

// Family classifies the artifact.
func (a Artifact) Family() Family {
	return Classify(a.MediaType, a.Filename)
}

// Output is a reconstructed artifact ready to be stored or sent.
type Output struct {
	Data      []byte
	MediaType string
}

type Codec struct {
	maxFileSize   int64
	coerceNumbers bool
}

func New(cfg config.CodecConfig) *Codec {
	c := &Codec{
		maxFileSize:   cfg.MaxFileSize,
		coerceNumbers: cfg.CoerceNumbers,
	}
	if c.maxFileSize <= 0 {
		c.maxFileSize = defaultMaxFileSize
	}
	return c
}

// Extract returns the editable text of the artifact for the given family.
func (c *Codec) Extract(a Artifact, family Family) (string, error) {
	if family == Unsupported {
		return "", ErrUnsupportedFileType
	}
	if int64(len(a.Data)) > c.maxFileSize {
		return "", &ExtractionError{
			Family: family,
			Cause:  fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, len(a.Data), c.maxFileSize),
		}
	}

	var (
		text string
		err  error
	)
	switch family {
	case Word:
		text, err = extractWord(a.Data)
	case Excel:
		text, err = extractExcel(a.Data)
	case PowerPoint:
		text, err = extractPowerPoint(a.Data)
	case Text:
		text = extractText(a.Data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, family)
	}
	if err != nil {
		return "", &ExtractionError{Family: family, Cause: err}
	}
	return text, nil
}

// Reconstruct writes edited text back into the family's file format. For
// text the original media type is kept; office families get their
// canonical OOXML media type.
func (c *Codec) Reconstruct(edited string, family Family, originalMediaType string) (*Output, error) {
	if family == Unsupported {
		return nil, ErrUnsupportedFileType
	}

	var (
		data []byte
		err  error
	)
	switch family {
	case Word:
		data, err = reconstructWord(edited)
	case Excel:
		data, err = reconstructExcel(edited, c.coerceNumbers)
	case PowerPoint:
		data, err = reconstructPowerPoint(edited)
	case Text:
		return reconstructText(edited, originalMediaType), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, family)
	}
	if err != nil {
		return nil, &ReconstructionError{Family: family, Cause: err}
	}
	return &Output{Data: data, MediaType: family.MediaType()}, nil
}

// splitLines normalizes line endings and splits on newline.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// nonBlankLines keeps lines that contain something other than whitespace.
func nonBlankLines(s string) []string {
	var out []string
	for _, line := range splitLines(s) {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
