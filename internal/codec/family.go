package codec

import (
	"strings"
)

// Family is the coarse file classification the relay edits by.
type Family string

const (
	Word        Family = "word"
	Excel       Family = "excel"
	PowerPoint  Family = "powerpoint"
	Text        Family = "text"
	Unsupported Family = "unsupported"
)

const (
	MediaTypeWord       = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeExcel      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MediaTypePowerPoint = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MediaTypeJSON       = "application/json"
	MediaTypeText       = "text/plain"
)

var textExtensions = []string{".js", ".py", ".html", ".css", ".json", ".txt"}

// Classify maps a declared media type and a filename to a Family. The first
// matching rule wins, so a known extension beats an unknown media type.
func Classify(mediaType, filename string) Family {
	mt := baseMediaType(mediaType)
	name := strings.ToLower(filename)

	switch {
	case mt == MediaTypeWord || strings.HasSuffix(name, ".docx"):
		return Word
	case mt == MediaTypeExcel || strings.HasSuffix(name, ".xlsx"):
		return Excel
	case mt == MediaTypePowerPoint || strings.HasSuffix(name, ".pptx"):
		return PowerPoint
	case strings.HasPrefix(mt, "text/") || mt == MediaTypeJSON || hasAnySuffix(name, textExtensions):
		return Text
	default:
		return Unsupported
	}
}

// MediaType returns the canonical media type written for a reconstructed
// artifact of the family. Text has none of its own.
func (f Family) MediaType() string {
	switch f {
	case Word:
		return MediaTypeWord
	case Excel:
		return MediaTypeExcel
	case PowerPoint:
		return MediaTypePowerPoint
	default:
		return ""
	}
}

func (f Family) String() string {
	return string(f)
}

// baseMediaType drops parameters and normalizes case: "Text/Plain; charset=utf-8" -> "text/plain".
func baseMediaType(mediaType string) string {
	mt, _, _ := strings.Cut(mediaType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
