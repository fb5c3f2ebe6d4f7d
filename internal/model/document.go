package model

// DocumentType identifies the source format a document was extracted from
type DocumentType string

const (
	DocumentPDF  DocumentType = "pdf"
	DocumentDOCX DocumentType = "docx"
	DocumentHTML DocumentType = "html"
	DocumentText DocumentType = "text"
)

// DocumentMeta carries extraction statistics.
type DocumentMeta struct {
	Pages               int `json:"pages,omitempty"`      // PDF only
	Paragraphs          int `json:"paragraphs,omitempty"` // DOCX only
	ExtractedTextLength int `json:"extracted_text_length"`
}

// Document is the result of fetching and extracting a source document.
// It is private to a single pipeline run apart from the shared cache copy.
type Document struct {
	Type    DocumentType `json:"type"`
	Content string       `json:"content"` // Full extracted text
	Clauses []Clause     `json:"clauses"`
	Meta    DocumentMeta `json:"metadata"`
}
