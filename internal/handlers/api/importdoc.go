package api

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v3"

	"stively/internal/importer"
)

// importTimeout bounds a single document conversion, image uploads included.
const importTimeout = 30 * time.Second

const maxImportSize = 20 << 20 // 20 MiB

// ImportHandler converts uploaded documents into article drafts. Admin only.
type ImportHandler struct {
	importer *importer.Importer
}

// NewImportHandler creates a new document import handler.
func NewImportHandler(imp *importer.Importer) *ImportHandler {
	return &ImportHandler{importer: imp}
}

// Import parses a multipart .docx or .pdf upload and returns the draft.
func (h *ImportHandler) Import(c fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "a file upload is required")
	}
	if header.Size > maxImportSize {
		return jsonError(c, fiber.StatusBadRequest, "file is too large")
	}

	file, err := header.Open()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read upload")
	}

	ctx, cancel := context.WithTimeout(c.Context(), importTimeout)
	defer cancel()

	doc, err := h.importer.Parse(ctx, header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrUnsupportedType):
			return jsonError(c, fiber.StatusBadRequest, "unsupported document type, upload .docx or .pdf")
		case errors.Is(err, context.DeadlineExceeded):
			return jsonError(c, fiber.StatusServiceUnavailable, "document import timed out, please retry")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to parse document")
	}
	return jsonSuccess(c, doc)
}
