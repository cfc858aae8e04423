package codec

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SlideSeparator joins slide texts on extraction and splits them on
// reconstruction. Both directions must use it or slide counts drift.
const SlideSeparator = "\n\n"

const (
	nsDrawingML     = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPresentation  = "http://schemas.openxmlformats.org/presentationml/2006/main"
	relTypeSlide    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	presentationXML = "ppt/presentation.xml"
	presentationRel = "ppt/_rels/presentation.xml.rels"
)

var slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func extractPowerPoint(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pptx: %w", err)
	}

	slides, err := slideParts(r)
	if err != nil {
		return "", err
	}

	var texts []string
	for _, name := range slides {
		content, err := readPart(r, name)
		if err != nil {
			return "", err
		}
		lines, err := slideLines(content)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", name, err)
		}
		// A slide without text has no representation under SlideSeparator.
		if len(lines) == 0 {
			continue
		}
		texts = append(texts, strings.Join(lines, "\n"))
	}
	return strings.Join(texts, SlideSeparator), nil
}

type presentationSlideList struct {
	SlideIDs []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

// slideParts returns slide part names in presentation order. Packages
// without a presentation part fall back to numeric slide file order.
func slideParts(r *zip.Reader) ([]string, error) {
	presentation, err := readPart(r, presentationXML)
	if err != nil {
		return numberedSlideParts(r), nil
	}
	var list presentationSlideList
	if err := xml.Unmarshal(presentation, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", presentationXML, err)
	}

	relsData, err := readPart(r, presentationRel)
	if err != nil {
		return nil, err
	}
	var rels packageRelationships
	if err := xml.Unmarshal(relsData, &rels); err != nil {
		return nil, fmt.Errorf("parse %s: %w", presentationRel, err)
	}
	targets := make(map[string]string, len(rels.Items))
	for _, rel := range rels.Items {
		if rel.Type == relTypeSlide {
			targets[rel.ID] = rel.Target
		}
	}

	names := make([]string, 0, len(list.SlideIDs))
	for _, id := range list.SlideIDs {
		target, ok := targets[id.RID]
		if !ok {
			return nil, fmt.Errorf("slide relationship %q not found", id.RID)
		}
		names = append(names, resolvePartName("ppt", target))
	}
	return names, nil
}

func numberedSlideParts(r *zip.Reader) []string {
	type numbered struct {
		name string
		n    int
	}
	var found []numbered
	for _, f := range r.File {
		if m := slidePartRe.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			found = append(found, numbered{name: f.Name, n: n})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })
	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.name
	}
	return names
}

// resolvePartName resolves a relationship target against the directory of
// its source part. Absolute targets are package-rooted.
func resolvePartName(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(dir, target))
}

// slideLines returns the non-blank text lines of a slide, one per DrawingML
// paragraph, with a:br splitting a paragraph.
func slideLines(slideXML []byte) ([]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(slideXML))

	var (
		lines   []string
		current strings.Builder
		inPara  bool
		inText  bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != nsDrawingML {
				continue
			}
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = true
			case "br":
				if inPara {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != nsDrawingML {
				continue
			}
			switch t.Name.Local {
			case "p":
				inPara = false
				lines = append(lines, nonBlankLines(current.String())...)
			case "t":
				inText = false
			}
		case xml.CharData:
			if inPara && inText {
				current.Write(t)
			}
		}
	}
	return lines, nil
}

// reconstructPowerPoint writes one slide per non-blank SlideSeparator chunk.
func reconstructPowerPoint(edited string) ([]byte, error) {
	normalized := strings.Join(splitLines(edited), "\n")

	var slides [][]string
	for _, chunk := range strings.Split(normalized, SlideSeparator) {
		lines := nonBlankLines(chunk)
		if len(lines) == 0 {
			continue
		}
		slides = append(slides, lines)
	}
	return writePackage(presentationParts(slides))
}
