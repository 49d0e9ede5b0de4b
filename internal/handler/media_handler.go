package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gharseva/gharseva-api/internal/domain"
	"github.com/gharseva/gharseva-api/internal/middleware"
)

// MediaHandler handles avatar and banner endpoints
type MediaHandler struct {
	media domain.MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(media domain.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// UpdateAvatar handles PUT /v1/partners/me/avatar
func (h *MediaHandler) UpdateAvatar(c *fiber.Ctx) error {
	file, err := formFile(c, "avatar")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	desc, err := h.media.UpdateAvatar(c.Context(), middleware.GetAccountID(c), file)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "avatar updated", desc)
}

// DeleteAvatar handles DELETE /v1/partners/me/avatar
func (h *MediaHandler) DeleteAvatar(c *fiber.Ctx) error {
	if err := h.media.DeleteAvatar(c.Context(), middleware.GetAccountID(c)); err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "avatar deleted", nil)
}

// UpdateBanner handles PUT /v1/partners/me/banner
func (h *MediaHandler) UpdateBanner(c *fiber.Ctx) error {
	file, err := formFile(c, "banner")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	desc, err := h.media.UpdateBanner(c.Context(), middleware.GetAccountID(c), file)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "banner updated", desc)
}

// DeleteBanner handles DELETE /v1/partners/me/banner
func (h *MediaHandler) DeleteBanner(c *fiber.Ctx) error {
	if err := h.media.DeleteBanner(c.Context(), middleware.GetAccountID(c)); err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "banner deleted", nil)
}

// formFile reads a single named multipart file into memory
func formFile(c *fiber.Ctx, field string) (domain.UploadFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return domain.UploadFile{}, fmt.Errorf("missing %q field in form data", field)
	}
	return readFileHeader(fh)
}

func readFileHeader(fh *multipart.FileHeader) (domain.UploadFile, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.UploadFile{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.UploadFile{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return domain.UploadFile{
		Data:        data,
		Name:        fh.Filename,
		ContentType: contentTypeOf(fh),
	}, nil
}

// contentTypeOf prefers the part header, falling back to the file extension
func contentTypeOf(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
