package importer

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log/slog"
	"path"
	"strings"
)

// relationships maps the r:embed ids in word/document.xml to package parts.
type relationships struct {
	Relationship []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type docxParser struct {
	store ImageStore
	rels  map[string]string
	media map[string][]byte
}

// parseDocx converts the WordprocessingML body of a .docx container into
// HTML. Headings, bold and italic runs, lists and inline images survive;
// everything else flattens to paragraphs. Images are uploaded through the
// store; an upload failure drops the image rather than failing the import.
func parseDocx(ctx context.Context, data []byte, store ImageStore) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx container: %w", err)
	}

	p := &docxParser{
		store: store,
		rels:  map[string]string{},
		media: map[string][]byte{},
	}

	var document []byte
	for _, file := range reader.File {
		switch {
		case file.Name == "word/document.xml":
			document, err = readZipFile(file)
			if err != nil {
				return "", fmt.Errorf("read document body: %w", err)
			}
		case file.Name == "word/_rels/document.xml.rels":
			raw, err := readZipFile(file)
			if err != nil {
				return "", fmt.Errorf("read relationships: %w", err)
			}
			var rels relationships
			if err := xml.Unmarshal(raw, &rels); err != nil {
				return "", fmt.Errorf("parse relationships: %w", err)
			}
			for _, rel := range rels.Relationship {
				p.rels[rel.ID] = rel.Target
			}
		case strings.HasPrefix(file.Name, "word/media/"):
			raw, err := readZipFile(file)
			if err != nil {
				continue
			}
			p.media[strings.TrimPrefix(file.Name, "word/")] = raw
		}
	}
	if document == nil {
		return "", fmt.Errorf("no word/document.xml in container")
	}
	return p.walk(ctx, document)
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// walk streams the document body token by token, emitting one HTML block
// per w:p paragraph and grouping consecutive list items under a ul.
func (p *docxParser) walk(ctx context.Context, document []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(document))

	var (
		out      strings.Builder
		para     strings.Builder
		style    string
		inPPr    bool
		inRPr    bool
		listItem bool
		inList   bool
		bold     bool
		italic   bool
	)

	flush := func() {
		text := strings.TrimSpace(para.String())
		para.Reset()
		if text == "" {
			return
		}
		if listItem {
			if !inList {
				out.WriteString("<ul>\n")
				inList = true
			}
			out.WriteString("<li>" + text + "</li>\n")
			return
		}
		if inList {
			out.WriteString("</ul>\n")
			inList = false
		}
		if tag := headingTag(style); tag != "" {
			out.WriteString("<" + tag + ">" + text + "</" + tag + ">\n")
			return
		}
		out.WriteString("<p>" + text + "</p>\n")
	}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document body: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if err := ctx.Err(); err != nil {
					return "", err
				}
				style = ""
				listItem = false
			case "pPr":
				inPPr = true
			case "rPr":
				inRPr = true
			case "pStyle":
				if inPPr {
					style = attr(t, "val")
				}
			case "numPr":
				if inPPr {
					listItem = true
				}
			case "r":
				bold = false
				italic = false
			case "b":
				if inRPr && !inPPr {
					bold = attrOn(t, "val")
				}
			case "i":
				if inRPr && !inPPr {
					italic = attrOn(t, "val")
				}
			case "t":
				var text string
				if err := decoder.DecodeElement(&text, &t); err != nil {
					return "", fmt.Errorf("parse text run: %w", err)
				}
				para.WriteString(formatRun(text, bold, italic))
			case "br":
				para.WriteString("<br>")
			case "blip":
				if src := p.resolveImage(ctx, attr(t, "embed")); src != "" {
					para.WriteString(`<img src="` + html.EscapeString(src) + `">`)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				flush()
			case "pPr":
				inPPr = false
			case "rPr":
				inRPr = false
			}
		}
	}
	if inList {
		out.WriteString("</ul>\n")
	}
	return strings.TrimSpace(out.String()), nil
}

// resolveImage follows an r:embed relationship to its media part, uploads
// it and returns the public URL, or "" when the image cannot be placed.
func (p *docxParser) resolveImage(ctx context.Context, relID string) string {
	if relID == "" || p.store == nil {
		return ""
	}
	target, ok := p.rels[relID]
	if !ok {
		return ""
	}
	data, ok := p.media[target]
	if !ok {
		return ""
	}
	name := path.Base(target)
	src, err := p.store.UploadImage(ctx, name, data, imageContentType(name))
	if err != nil {
		slog.Warn("dropping document image, upload failed", "image", name, "error", err)
		return ""
	}
	return src
}

func formatRun(text string, bold, italic bool) string {
	escaped := html.EscapeString(text)
	if escaped == "" {
		return ""
	}
	if italic {
		escaped = "<em>" + escaped + "</em>"
	}
	if bold {
		escaped = "<strong>" + escaped + "</strong>"
	}
	return escaped
}

func headingTag(style string) string {
	switch style {
	case "Title", "Heading1":
		return "h1"
	case "Heading2":
		return "h2"
	case "Heading3":
		return "h3"
	case "Heading4":
		return "h4"
	case "Heading5":
		return "h5"
	case "Heading6":
		return "h6"
	}
	return ""
}

func imageContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// attrOn treats a missing w:val as enabled, matching toggle properties.
func attrOn(el xml.StartElement, name string) bool {
	v := attr(el, name)
	return v != "0" && v != "false"
}
