package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/harshith-ashok/insurance-llm/internal/model"
)

// extractDOCX reads word/document.xml from the DOCX zip container and walks
// its XML: text runs (<w:t>) accumulate into the current paragraph, paragraph
// ends (</w:p>) emit a newline.
func (e *Extractor) extractDOCX(content []byte) (*model.Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &model.ExtractionError{Format: model.DocumentDOCX, Err: err}
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return nil, &model.ExtractionError{Format: model.DocumentDOCX, Err: err}
			}
			break
		}
	}
	if docXML == nil {
		return nil, &model.ExtractionError{
			Format: model.DocumentDOCX,
			Err:    fmt.Errorf("word/document.xml not found in archive"),
		}
	}
	defer func() { _ = docXML.Close() }()

	var text strings.Builder
	paragraphs := 0
	inText := false

	decoder := xml.NewDecoder(docXML)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &model.ExtractionError{Format: model.DocumentDOCX, Err: err}
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				text.WriteString("\n")
				paragraphs++
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}

	full := text.String()
	return &model.Document{
		Type:    model.DocumentDOCX,
		Content: full,
		Clauses: e.segmenter.Segment(full),
		Meta: model.DocumentMeta{
			Paragraphs:          paragraphs,
			ExtractedTextLength: len(full),
		},
	}, nil
}
