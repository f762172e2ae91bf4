package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/RON-000000/photocomp/internal/middleware"
	"github.com/RON-000000/photocomp/internal/model"
	"github.com/RON-000000/photocomp/internal/service"
)

type CompetitionHandler struct {
	svc *service.CompetitionService
}

func NewCompetitionHandler(svc *service.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{svc: svc}
}

// List handles GET /api/competitions?filter=active|completed
func (h *CompetitionHandler) List(c fiber.Ctx) error {
	filter := cleanFilter(fiber.Query[string](c, "filter"))
	switch filter {
	case "", "active", "completed":
	default:
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD",
			"filter must be one of active, completed")
	}

	comps, err := h.svc.List(c.Context(), filter)
	if err != nil {
		return serviceError(c, err, "Failed to list competitions")
	}
	return c.JSON(comps)
}

// Get handles GET /api/competitions/:id
func (h *CompetitionHandler) Get(c fiber.Ctx) error {
	id, err := pathID(c, "id", "competitionId")
	if err != nil {
		return err
	}

	comp, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "Failed to load competition")
	}
	return c.JSON(comp)
}

// Create handles POST /api/competitions (admin)
func (h *CompetitionHandler) Create(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	var req model.CompetitionCreateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	comp, err := h.svc.Create(c.Context(), p, req)
	if err != nil {
		return serviceError(c, err, "Failed to create competition")
	}
	return c.Status(fiber.StatusCreated).JSON(comp)
}

// Update handles PATCH /api/competitions/:id (admin)
func (h *CompetitionHandler) Update(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c, "id", "competitionId")
	if err != nil {
		return err
	}

	var req model.CompetitionUpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	comp, err := h.svc.Update(c.Context(), p, id, req)
	if err != nil {
		return serviceError(c, err, "Failed to update competition")
	}
	return c.JSON(comp)
}

// SetStatus handles PUT /api/competitions/:id/status (admin)
func (h *CompetitionHandler) SetStatus(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c, "id", "competitionId")
	if err != nil {
		return err
	}

	var req model.StatusUpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if err := h.svc.SetStatus(c.Context(), p, id, req.Status); err != nil {
		return serviceError(c, err, "Failed to update competition status")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete handles DELETE /api/competitions/:id (admin)
func (h *CompetitionHandler) Delete(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c, "id", "competitionId")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Context(), p, id); err != nil {
		return serviceError(c, err, "Failed to delete competition")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Leaderboard handles GET /api/competitions/:id/leaderboard
func (h *CompetitionHandler) Leaderboard(c fiber.Ctx) error {
	id, err := pathID(c, "id", "competitionId")
	if err != nil {
		return err
	}

	board, err := h.svc.Leaderboard(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "Failed to load leaderboard")
	}
	return c.JSON(board)
}

// FeaturedWinners handles GET /api/featured-winners
func (h *CompetitionHandler) FeaturedWinners(c fiber.Ctx) error {
	resp, err := h.svc.FeaturedWinners(c.Context())
	if err != nil {
		return serviceError(c, err, "Failed to load featured winners")
	}
	return c.JSON(resp)
}

// JuryCompetitions handles GET /api/jury/competitions
func (h *CompetitionHandler) JuryCompetitions(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	comps, err := h.svc.ListForJuror(c.Context(), p.Username)
	if err != nil {
		return serviceError(c, err, "Failed to list jury competitions")
	}
	return c.JSON(comps)
}
