// Package inspect produces the short structural summary recorded for every
// uploaded file.
package inspect

import (
	"fmt"
	"strings"

	"github.com/tealeg/xlsx"

	"document-relay/internal/codec"
)

// Summarize describes the artifact in one line, e.g. "3 paragraphs" or
// "sheets: Budget (12x4), Summary (2x2)".
func Summarize(c *codec.Codec, a codec.Artifact, family codec.Family) (string, error) {
	switch family {
	case codec.Excel:
		return summarizeWorkbook(a.Data)
	case codec.Word:
		text, err := c.Extract(a, family)
		if err != nil {
			return "", err
		}
		return plural(countLines(text), "paragraph"), nil
	case codec.PowerPoint:
		text, err := c.Extract(a, family)
		if err != nil {
			return "", err
		}
		slides := 0
		if text != "" {
			slides = len(strings.Split(text, codec.SlideSeparator))
		}
		return plural(slides, "slide"), nil
	case codec.Text:
		lines := strings.Count(string(a.Data), "\n")
		if len(a.Data) > 0 && !strings.HasSuffix(string(a.Data), "\n") {
			lines++
		}
		return fmt.Sprintf("%s, %s", plural(len(a.Data), "byte"), plural(lines, "line")), nil
	default:
		return "", codec.ErrUnsupportedFileType
	}
}

// summarizeWorkbook reports each sheet with its declared dimensions.
func summarizeWorkbook(data []byte) (string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	if len(f.Sheets) == 0 {
		return "no sheets", nil
	}
	parts := make([]string, 0, len(f.Sheets))
	for _, sheet := range f.Sheets {
		parts = append(parts, fmt.Sprintf("%s (%dx%d)", sheet.Name, sheet.MaxRow, sheet.MaxCol))
	}
	return "sheets: " + strings.Join(parts, ", "), nil
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
