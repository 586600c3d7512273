package handlers

import (
	"errors"
	"io"
	"log"
	"mime/multipart"

	"atelier/internal/editor"
	"atelier/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler serves the upload gateway endpoints.
type UploadHandler struct {
	uploads UploadGateway
}

func NewUploadHandler(uploads UploadGateway) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload handles POST /api/upload with a single multipart "file" field.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file",
		})
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		log.Printf("❌ Failed to read uploaded file: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read uploaded file",
		})
	}

	result, err := h.uploads.Upload(c.Context(), fileHeader.Filename, data)
	if err != nil {
		return uploadErrorResponse(c, err)
	}
	return c.JSON(result)
}

// UploadBatch handles POST /api/upload/batch with multiple "files" fields.
// Every file uploads concurrently; the response reports per-file outcomes
// once the whole batch has settled.
func (h *UploadHandler) UploadBatch(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid multipart form",
		})
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files provided",
		})
	}

	items := make([]editor.BatchItem, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		data, err := readMultipartFile(fh)
		if err != nil {
			log.Printf("❌ Failed to read uploaded file %s: %v", fh.Filename, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Could not read uploaded file",
			})
		}
		items = append(items, editor.BatchItem{Filename: fh.Filename, Data: data})
	}

	return c.JSON(editor.UploadBatch(c.Context(), h.uploads, items))
}

// Delete handles DELETE /api/upload/delete with a JSON {"url": ...} body.
func (h *UploadHandler) Delete(c *fiber.Ctx) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&body); err != nil || body.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing url",
		})
	}

	if err := h.uploads.DeleteByURL(c.Context(), body.URL); err != nil {
		return uploadErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func uploadErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidFileType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only image files are allowed",
		})
	case errors.Is(err, models.ErrFileTooLarge):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File exceeds the 4MB limit",
		})
	case errors.Is(err, models.ErrInvalidHost):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "URL does not belong to the upload host",
		})
	case errors.Is(err, models.ErrUploadTimeout):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Upload timed out. Please try again.",
		})
	default:
		log.Printf("❌ Upload operation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Storage provider error. Please try again.",
		})
	}
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
