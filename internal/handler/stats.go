package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/RON-000000/photocomp/internal/service"
)

type StatsHandler struct {
	svc *service.UserService
}

func NewStatsHandler(svc *service.UserService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Public handles GET /api/stats
func (h *StatsHandler) Public(c fiber.Ctx) error {
	stats, err := h.svc.PublicStats(c.Context())
	if err != nil {
		return serviceError(c, err, "Failed to fetch statistics")
	}
	return c.JSON(stats)
}

// Admin handles GET /api/admin/stats (admin)
func (h *StatsHandler) Admin(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	stats, err := h.svc.AdminStats(c.Context(), p)
	if err != nil {
		return serviceError(c, err, "Failed to fetch statistics")
	}
	return c.JSON(stats)
}
