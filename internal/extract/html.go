package extract

import (
	"bytes"
	"strings"

	"github.com/harshith-ashok/insurance-llm/internal/model"
	"golang.org/x/net/html"
)

// Elements that end a text block; a blank line after them lets the segmenter
// treat each block as its own section.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "tr": true, "blockquote": true,
}

// extractHTML extracts visible text from an HTML document, skipping scripts
// and styles.
func (e *Extractor) extractHTML(content []byte) (*model.Document, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, &model.ExtractionError{Format: model.DocumentHTML, Err: err}
	}

	var text strings.Builder
	walkVisibleText(doc, &text)

	full := text.String()
	return &model.Document{
		Type:    model.DocumentHTML,
		Content: full,
		Clauses: e.segmenter.Segment(full),
		Meta:    model.DocumentMeta{ExtractedTextLength: len(full)},
	}, nil
}

// walkVisibleText collects text nodes, skipping script/style/noscript subtrees.
func walkVisibleText(n *html.Node, out *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}

	if n.Type == html.TextNode {
		trimmed := strings.TrimSpace(n.Data)
		if trimmed != "" {
			out.WriteString(trimmed)
			out.WriteString(" ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkVisibleText(c, out)
	}

	if n.Type == html.ElementNode && blockElements[n.Data] {
		out.WriteString("\n\n")
	}
}
