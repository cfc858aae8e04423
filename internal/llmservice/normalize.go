package llmservice

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"document-relay/internal/models"
)

var thinkTagRegex = regexp.MustCompile(models.ThinkTag)

// Normalize strips reasoning blocks from a model response and unwraps it
// when the whole answer is a single fenced code block. A plain answer is
// returned unchanged so text files keep their final newline.
func Normalize(response string) string {
	if thinkTagRegex.MatchString(response) {
		response = strings.TrimSpace(thinkTagRegex.ReplaceAllString(response, ""))
	}
	if body, ok := unwrapFence(strings.TrimSpace(response)); ok {
		return strings.TrimLeft(body, "\n")
	}
	return response
}

// unwrapFence returns the body of the only top-level block of src when that
// block is a fenced code block.
func unwrapFence(src string) (string, bool) {
	if !strings.HasPrefix(src, "```") && !strings.HasPrefix(src, "~~~") {
		return "", false
	}
	source := []byte(src)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	if doc.ChildCount() != 1 {
		return "", false
	}
	block, ok := doc.FirstChild().(*ast.FencedCodeBlock)
	if !ok {
		return "", false
	}

	var b strings.Builder
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String(), true
}
