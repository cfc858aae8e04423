package models

const (
	ThinkTag     = `(?s)<think>.*?</think>`
	EditedPrefix = "edited_"
)

var (
	// EditPromptTemplate takes the file family, the user's instructions, the
	// layout rules for that family and the extracted content.
	EditPromptTemplate = `Here is a %s file converted to plain text.
Apply the following modifications strictly: "%s"

Layout rules:
%s
Answer only with the complete modified content, without explanations and without wrapping it in a code block.

%s`

	LayoutRules = map[string]string{
		"word": `- One paragraph per line.
- Do not add blank lines between paragraphs.`,
		"excel": `- Each sheet starts with a line "Sheet: <name>".
- Each row is a line "<row number>: <cells separated by tab characters>".
- Keep a blank line after the last row of each sheet.`,
		"powerpoint": `- Slides are separated by exactly one blank line.
- Never put a blank line inside a slide.`,
		"text": `- Keep the original format (code, markup or prose) and its line structure.`,
	}
)
