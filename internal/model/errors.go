package model

import "fmt"

// FetchError indicates the document could not be retrieved (unreachable host
// or non-2xx response). Fatal for the whole request: no clauses exist.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError indicates the fetched bytes could not be turned into text
// (malformed PDF/DOCX content). Fatal for the whole request.
type ExtractionError struct {
	Format DocumentType
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s document: %v", e.Format, e.Err)
}
func (e *ExtractionError) Unwrap() error { return e.Err }

// ProviderError indicates an embedding or completion capability failed
// (transport, quota, or timeout). Fatal only for the affected question;
// sibling questions in the batch must still complete.
type ProviderError struct {
	Provider string // "openai", "ollama", ...
	Op       string // "embedding", "completion"
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}
func (e *ProviderError) Unwrap() error { return e.Err }
