// Package importer converts uploaded .docx and .pdf files into article
// drafts: sanitized HTML content plus a suggested title and excerpt.
package importer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// ErrUnsupportedType is returned for file types the importer cannot parse.
var ErrUnsupportedType = errors.New("unsupported document type")

const excerptLimit = 200

// Document is the parsed result offered to the editor as a draft.
type Document struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
}

// Importer parses uploaded documents. The image store may be nil, in which
// case embedded images are dropped.
type Importer struct {
	store ImageStore
}

func New(store ImageStore) *Importer {
	return &Importer{store: store}
}

// Parse dispatches on the file extension and derives title and excerpt
// from the converted HTML.
func (imp *Importer) Parse(ctx context.Context, filename string, data []byte) (*Document, error) {
	var (
		content string
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		content, err = parseDocx(ctx, data, imp.store)
	case ".pdf":
		content, err = parsePDF(ctx, data)
	default:
		return nil, ErrUnsupportedType
	}
	if err != nil {
		return nil, err
	}

	title, excerpt := summarize(content)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return &Document{Title: title, Excerpt: excerpt, Content: content}, nil
}

// summarize pulls the first heading as the title and the first paragraph,
// clipped to 200 characters, as the excerpt.
func summarize(content string) (title, excerpt string) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", ""
	}
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if title != "" && excerpt != "" {
			return
		}
		if node.Type == html.ElementNode {
			switch node.Data {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				if title == "" {
					title = strings.TrimSpace(nodeText(node))
				}
			case "p":
				if excerpt == "" {
					excerpt = clip(strings.TrimSpace(nodeText(node)), excerptLimit)
				}
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return title, excerpt
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return buf.String()
}

func clip(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
