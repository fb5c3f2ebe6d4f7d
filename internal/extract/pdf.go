package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/harshith-ashok/insurance-llm/internal/model"
	"github.com/ledongthuc/pdf"
)

// extractPDF pulls plain text out of every page of a PDF document.
func (e *Extractor) extractPDF(content []byte) (doc *model.Document, err error) {
	// The pdf package panics on some malformed files; report those as
	// extraction errors instead of crashing the request.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &model.ExtractionError{Format: model.DocumentPDF, Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &model.ExtractionError{Format: model.DocumentPDF, Err: err}
	}

	var text strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, &model.ExtractionError{
				Format: model.DocumentPDF,
				Err:    fmt.Errorf("page %d: %w", i, err),
			}
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	full := text.String()
	return &model.Document{
		Type:    model.DocumentPDF,
		Content: full,
		Clauses: e.segmenter.Segment(full),
		Meta: model.DocumentMeta{
			Pages:               pages,
			ExtractedTextLength: len(full),
		},
	}, nil
}
