package codec

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

// buildDocx packages a raw document.xml the way Word does, including the
// relationship part the docx reader expects.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`,
	}
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func countParagraphs(t *testing.T, data []byte) int {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	content, err := readPart(r, "word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	return strings.Count(string(content), "<w:p>")
}

func TestWordRoundTrip(t *testing.T) {
	c := newTestCodec()

	out, err := c.Reconstruct("Hello\nWorld", Word, "")
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if out.MediaType != MediaTypeWord {
		t.Errorf("media type = %q", out.MediaType)
	}
	if n := countParagraphs(t, out.Data); n != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", n)
	}

	text, err := c.Extract(Artifact{Data: out.Data, Filename: "x.docx"}, Word)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "Hello\nWorld" {
		t.Fatalf("expected %q, got %q", "Hello\nWorld", text)
	}
}

func TestWordBlankLinesDropped(t *testing.T) {
	c := newTestCodec()

	out, err := c.Reconstruct("\nFirst\n\n   \nSecond\r\n\n", Word, "")
	if err != nil {
		t.Fatal(err)
	}
	if n := countParagraphs(t, out.Data); n != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", n)
	}
	text, err := c.Extract(Artifact{Data: out.Data}, Word)
	if err != nil {
		t.Fatal(err)
	}
	if text != "First\nSecond" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestWordTabsAndEscaping(t *testing.T) {
	c := newTestCodec()
	in := "Name\tValue\nFish & <Chips> \"quoted\""

	out, err := c.Reconstruct(in, Word, "")
	if err != nil {
		t.Fatal(err)
	}
	text, err := c.Extract(Artifact{Data: out.Data}, Word)
	if err != nil {
		t.Fatal(err)
	}
	if text != in {
		t.Fatalf("expected %q, got %q", in, text)
	}
}

func TestWordEmptyDocument(t *testing.T) {
	c := newTestCodec()
	out, err := c.Reconstruct("", Word, "")
	if err != nil {
		t.Fatal(err)
	}
	text, err := c.Extract(Artifact{Data: out.Data}, Word)
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestExtractWordStructure(t *testing.T) {
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
  xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006">
<w:body>
  <w:p>
    <w:pPr><w:pStyle w:val="Heading1"/><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>
    <w:r><w:rPr><w:b/></w:rPr><w:t>Quarterly</w:t></w:r><w:r><w:t xml:space="preserve"> Report</w:t></w:r>
  </w:p>
  <w:p></w:p>
  <w:tbl>
    <w:tr>
      <w:tc><w:p><w:r><w:t>Cell A</w:t></w:r></w:p></w:tc>
      <w:tc><w:p><w:r><w:t>Cell B</w:t></w:r></w:p></w:tc>
    </w:tr>
  </w:tbl>
  <w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>
  <w:p><w:r><w:t>Key</w:t><w:tab/><w:t>Value</w:t></w:r></w:p>
  <w:p>
    <w:r>
      <mc:AlternateContent>
        <mc:Choice Requires="wps"><w:txbxContent><w:p><w:r><w:t>Boxed</w:t></w:r></w:p></w:txbxContent></mc:Choice>
        <mc:Fallback><w:txbxContent><w:p><w:r><w:t>Boxed</w:t></w:r></w:p></w:txbxContent></mc:Fallback>
      </mc:AlternateContent>
      <w:t>Anchor</w:t>
    </w:r>
  </w:p>
</w:body>
</w:document>`

	text, err := newTestCodec().Extract(Artifact{Data: buildDocx(t, docXML)}, Word)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := strings.Join([]string{
		"Quarterly Report",
		"Cell A",
		"Cell B",
		"Line one",
		"Line two",
		"Key\tValue",
		"Boxed",
		"Anchor",
	}, "\n")
	if text != want {
		t.Fatalf("expected:\n%q\ngot:\n%q", want, text)
	}
}

func TestExtractWordMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("other.xml")
	fw.Write([]byte("<x/>"))
	w.Close()

	_, err := newTestCodec().Extract(Artifact{Data: buf.Bytes()}, Word)
	if err == nil {
		t.Fatal("expected error for package without word/document.xml")
	}
}
