package importer

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/ledongthuc/pdf"
)

// parsePDF extracts plain text page by page and renders one paragraph per
// page. Pages that cannot be decoded are skipped rather than failing the
// whole document.
func parsePDF(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var out strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(strings.Join(strings.Fields(text), " "))
		if text == "" {
			continue
		}
		out.WriteString("<p>" + html.EscapeString(text) + "</p>\n")
	}

	result := strings.TrimSpace(out.String())
	if result == "" {
		return "", fmt.Errorf("no text extracted from pdf")
	}
	return result, nil
}
