package extractor

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slidePart = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// SlidesExtractor reads OOXML presentations. Every shape with a text body
// becomes one entry, its paragraphs joined by newlines; slides are read in
// slide-number order.
type SlidesExtractor struct{}

func NewSlidesExtractor() *SlidesExtractor {
	return &SlidesExtractor{}
}

func (e *SlidesExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open presentation: %w", err)
	}
	defer zr.Close()

	type slide struct {
		num  int
		file *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		m := slidePart.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		slides = append(slides, slide{num: num, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var sb strings.Builder
	for _, s := range slides {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		rc, err := s.file.Open()
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", s.num, err)
		}
		shapes, err := shapeTexts(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", s.num, err)
		}
		for _, text := range shapes {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// shapeTexts walks p:sp elements; a:p paragraphs inside their p:txBody are
// collected from a:t runs, a:br becoming a newline.
func shapeTexts(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		shapes     []string
		paragraphs []string
		para       strings.Builder
		inShape    bool
		hasBody    bool
		inPara     bool
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				inShape, hasBody, paragraphs = true, false, nil
			case "txBody":
				hasBody = inShape
			case "p":
				if inShape && hasBody {
					inPara = true
					para.Reset()
				}
			case "t":
				inText = inPara
			case "br":
				if inPara {
					para.WriteString("\n")
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara {
					paragraphs = append(paragraphs, para.String())
					inPara = false
				}
			case "sp":
				if inShape && hasBody {
					shapes = append(shapes, strings.Join(paragraphs, "\n"))
				}
				inShape = false
			}
		}
	}
	return shapes, nil
}
