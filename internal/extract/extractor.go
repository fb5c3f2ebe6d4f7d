package extract

import (
	"strings"

	"github.com/harshith-ashok/insurance-llm/internal/model"
)

// Extractor turns fetched document bytes into text plus segmented clauses.
type Extractor struct {
	segmenter *Segmenter
}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{segmenter: NewSegmenter()}
}

// DetectType picks the document format from the URL and the Content-Type
// header. Anything unrecognized falls back to plain text.
func DetectType(rawURL, contentType string) model.DocumentType {
	urlLower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(urlLower, ".pdf"):
		return model.DocumentPDF
	case strings.Contains(urlLower, ".docx"), strings.Contains(urlLower, ".doc"):
		return model.DocumentDOCX
	case strings.Contains(urlLower, ".html"), strings.Contains(urlLower, ".htm"):
		return model.DocumentHTML
	}

	ctLower := strings.ToLower(contentType)
	switch {
	case strings.Contains(ctLower, "application/pdf"):
		return model.DocumentPDF
	case strings.Contains(ctLower, "wordprocessingml"), strings.Contains(ctLower, "application/msword"):
		return model.DocumentDOCX
	case strings.Contains(ctLower, "text/html"):
		return model.DocumentHTML
	}

	return model.DocumentText
}

// Extract converts raw bytes into a Document for the detected format.
func (e *Extractor) Extract(content []byte, docType model.DocumentType) (*model.Document, error) {
	switch docType {
	case model.DocumentPDF:
		return e.extractPDF(content)
	case model.DocumentDOCX:
		return e.extractDOCX(content)
	case model.DocumentHTML:
		return e.extractHTML(content)
	default:
		return e.extractText(content)
	}
}

// extractText decodes bytes as UTF-8, dropping invalid sequences rather than
// failing.
func (e *Extractor) extractText(content []byte) (*model.Document, error) {
	text := strings.ToValidUTF8(string(content), "")

	return &model.Document{
		Type:    model.DocumentText,
		Content: text,
		Clauses: e.segmenter.Segment(text),
		Meta:    model.DocumentMeta{ExtractedTextLength: len(text)},
	}, nil
}
