package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/RON-000000/photocomp/internal/middleware"
	"github.com/RON-000000/photocomp/internal/model"
	"github.com/RON-000000/photocomp/internal/service"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(svc *service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

// Upsert handles POST /api/jury/ratings
func (h *RatingHandler) Upsert(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	var req model.RatingUpsertRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	resp, err := h.svc.Upsert(c.Context(), p, req)
	if err != nil {
		return serviceError(c, err, "Failed to save rating")
	}
	Metrics.RatingsTotal.Inc()
	return c.JSON(resp)
}

// Mine handles GET /api/jury/ratings/:submissionId — the caller's own rating.
func (h *RatingHandler) Mine(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c, "submissionId", "submissionId")
	if err != nil {
		return err
	}

	rating, err := h.svc.GetForJuror(c.Context(), p, id)
	if err != nil {
		return serviceError(c, err, "Failed to load rating")
	}
	return c.JSON(rating)
}

// ListForSubmission handles GET /api/submissions/:id/ratings
func (h *RatingHandler) ListForSubmission(c fiber.Ctx) error {
	id, err := pathID(c, "id", "submissionId")
	if err != nil {
		return err
	}

	ratings, err := h.svc.ListForSubmission(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "Failed to list ratings")
	}
	return c.JSON(ratings)
}
