package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/RON-000000/photocomp/internal/middleware"
	"github.com/RON-000000/photocomp/internal/service"
)

type UploadHandler struct {
	svc *service.UploadService
}

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Upload handles POST /api/upload (multipart form, field "image").
// The optional "folder" field picks the CDN subfolder; "submissions"
// and "avatars" are the only accepted values.
func (h *UploadHandler) Upload(c fiber.Ctx) error {
	if _, ok := requirePrincipal(c); !ok {
		return unauthorized(c)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Missing image file")
	}

	subfolder := c.FormValue("folder")
	switch subfolder {
	case "":
		subfolder = "submissions"
	case "submissions", "avatars":
	default:
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD",
			"folder must be one of submissions, avatars")
	}

	result, err := h.svc.Upload(c.Context(), fh, subfolder)
	if err != nil {
		return serviceError(c, err, "Failed to upload image")
	}
	Metrics.UploadsTotal.WithLabelValues(subfolder).Inc()
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Delete handles DELETE /api/upload?url=... — cleanup for images uploaded
// but never attached to a submission.
func (h *UploadHandler) Delete(c fiber.Ctx) error {
	if _, ok := requirePrincipal(c); !ok {
		return unauthorized(c)
	}

	imageURL := fiber.Query[string](c, "url")
	if imageURL == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "url is required")
	}

	if err := h.svc.Delete(c.Context(), imageURL); err != nil {
		return serviceError(c, err, "Failed to delete image")
	}
	return c.JSON(fiber.Map{"success": true})
}
