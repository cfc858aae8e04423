package codec

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		mediaType string
		filename  string
		want      Family
	}{
		{MediaTypeWord, "report", Word},
		{"application/octet-stream", "x.docx", Word},
		{MediaTypeWord, "x.docx", Word},
		{"", "REPORT.DOCX", Word},
		{MediaTypeExcel, "", Excel},
		{"application/octet-stream", "budget.xlsx", Excel},
		{MediaTypePowerPoint, "deck", PowerPoint},
		{"", "deck.pptx", PowerPoint},
		{"text/plain", "notes", Text},
		{"text/markdown; charset=utf-8", "README.md", Text},
		{"application/json", "data", Text},
		{"application/octet-stream", "main.py", Text},
		{"application/octet-stream", "app.js", Text},
		{"", "index.html", Text},
		{"", "style.css", Text},
		{"", "config.json", Text},
		{"", "todo.txt", Text},
		{"application/pdf", "paper.pdf", Unsupported},
		{"image/png", "logo.png", Unsupported},
		{"", "", Unsupported},
		{"application/msword", "legacy.doc", Unsupported},
		// Rule order: word is checked before text.
		{"text/plain", "letter.docx", Word},
		// Rule order: excel media type beats a pptx extension.
		{MediaTypeExcel, "odd.pptx", Excel},
	}

	for _, tt := range tests {
		got := Classify(tt.mediaType, tt.filename)
		if got != tt.want {
			t.Errorf("Classify(%q, %q) = %q, want %q", tt.mediaType, tt.filename, got, tt.want)
		}
		if again := Classify(tt.mediaType, tt.filename); again != got {
			t.Errorf("Classify(%q, %q) not deterministic: %q then %q", tt.mediaType, tt.filename, got, again)
		}
	}
}

func TestArtifactFamily(t *testing.T) {
	a := Artifact{MediaType: "application/octet-stream", Filename: "x.docx"}
	if a.Family() != Word {
		t.Errorf("Family() = %q, want word", a.Family())
	}
}

func TestFamilyMediaType(t *testing.T) {
	if Word.MediaType() != MediaTypeWord {
		t.Errorf("word media type = %q", Word.MediaType())
	}
	if Excel.MediaType() != MediaTypeExcel {
		t.Errorf("excel media type = %q", Excel.MediaType())
	}
	if PowerPoint.MediaType() != MediaTypePowerPoint {
		t.Errorf("powerpoint media type = %q", PowerPoint.MediaType())
	}
	if Text.MediaType() != "" {
		t.Errorf("text media type = %q, want empty", Text.MediaType())
	}
}
