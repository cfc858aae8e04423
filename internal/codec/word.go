package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const nsWordML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

func extractWord(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer r.Close()

	paragraphs, err := wordParagraphs(r.Editable().GetContent())
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

// wordParagraphs walks word/document.xml and returns the text of every
// non-empty paragraph in document order. Runs are concatenated, w:tab becomes
// a tab and line breaks split the paragraph. Paragraphs nested in text boxes
// are emitted before the paragraph that anchors them. The mc:Fallback copy
// of alternate content is skipped so text boxes are not read twice.
func wordParagraphs(documentXML string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		paragraphs []string
		open       []*strings.Builder
		inRun      int
		inText     bool
		skipDepth  int
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skipDepth > 0 {
				skipDepth++
				continue
			}
			if t.Name.Space == nsMarkupCompat && t.Name.Local == "Fallback" {
				skipDepth = 1
				continue
			}
			if t.Name.Space != nsWordML {
				continue
			}
			switch t.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "r":
				inRun++
			case "t":
				inText = true
			case "tab":
				if inRun > 0 && len(open) > 0 {
					open[len(open)-1].WriteByte('\t')
				}
			case "br", "cr":
				if inRun > 0 && len(open) > 0 {
					open[len(open)-1].WriteByte('\n')
				}
			}

		case xml.EndElement:
			if skipDepth > 0 {
				skipDepth--
				continue
			}
			if t.Name.Space != nsWordML {
				continue
			}
			switch t.Name.Local {
			case "p":
				if len(open) == 0 {
					continue
				}
				current := open[len(open)-1]
				open = open[:len(open)-1]
				paragraphs = append(paragraphs, nonBlankLines(current.String())...)
			case "r":
				if inRun > 0 {
					inRun--
				}
			case "t":
				inText = false
			}

		case xml.CharData:
			if skipDepth == 0 && inText && len(open) > 0 {
				open[len(open)-1].Write(t)
			}
		}
	}
	return paragraphs, nil
}

// reconstructWord writes one paragraph per non-blank line into a blank
// package and serializes it through the docx editor.
func reconstructWord(edited string) ([]byte, error) {
	skeleton, err := wordSkeleton()
	if err != nil {
		return nil, err
	}
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(skeleton), int64(len(skeleton)))
	if err != nil {
		return nil, fmt.Errorf("open skeleton: %w", err)
	}
	defer r.Close()

	doc := r.Editable()
	doc.SetContent(wordDocumentXML(nonBlankLines(edited)))

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}

func wordDocumentXML(lines []string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document xmlns:w="` + nsWordML + `" xmlns:r="` + nsRelationships + `"><w:body>`)
	for _, line := range lines {
		b.WriteString(`<w:p>`)
		for i, segment := range strings.Split(line, "\t") {
			if i > 0 {
				b.WriteString(`<w:r><w:tab/></w:r>`)
			}
			if segment == "" {
				continue
			}
			b.WriteString(`<w:r><w:t xml:space="preserve">`)
			b.WriteString(escape(segment))
			b.WriteString(`</w:t></w:r>`)
		}
		b.WriteString(`</w:p>`)
	}
	b.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`)
	return b.String()
}

// wordSkeleton is the smallest package Word opens: content types, package
// relationships, an empty document and its (empty) relationship part, which
// the docx editor requires.
func wordSkeleton() ([]byte, error) {
	return writePackage([]part{
		{
			name: "[Content_Types].xml",
			body: xmlHeader +
				`<Types xmlns="` + nsContentTypes + `">` +
				`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
				`<Default Extension="xml" ContentType="application/xml"/>` +
				`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
				`</Types>`,
		},
		{name: "_rels/.rels", body: packageRels("word/document.xml")},
		{name: "word/document.xml", body: wordDocumentXML(nil)},
		{
			name: "word/_rels/document.xml.rels",
			body: xmlHeader + `<Relationships xmlns="` + nsPackageRels + `"></Relationships>`,
		},
	})
}
