package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/RON-000000/photocomp/internal/middleware"
	"github.com/RON-000000/photocomp/internal/model"
	"github.com/RON-000000/photocomp/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Sync handles POST /api/auth/sync
func (h *UserHandler) Sync(c fiber.Ctx) error {
	var req model.AuthSyncRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	u, err := h.svc.Sync(c.Context(), req)
	if err != nil {
		return serviceError(c, err, "Failed to sync user")
	}
	return c.JSON(u)
}

// Profile handles GET /api/users/:username
func (h *UserHandler) Profile(c fiber.Ctx) error {
	username, errMsg := middleware.ValidateUsername(c.Params("username"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.Profile(c.Context(), username)
	if err != nil {
		return serviceError(c, err, "Failed to load profile")
	}
	return c.JSON(resp)
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	u, err := h.svc.Get(c.Context(), p.UserID)
	if err != nil {
		return serviceError(c, err, "Failed to load user")
	}
	return c.JSON(u)
}

// CheckUsername handles GET /api/users/check-username?username=x
func (h *UserHandler) CheckUsername(c fiber.Ctx) error {
	username := fiber.Query[string](c, "username")

	available, err := h.svc.UsernameAvailable(c.Context(), username)
	if err != nil {
		if model.IsValidation(err) {
			return c.JSON(fiber.Map{"available": false})
		}
		return serviceError(c, err, "Failed to check username")
	}
	return c.JSON(fiber.Map{"available": available})
}

// UpdateProfile handles PATCH /api/users/me
func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	var req model.ProfileUpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	u, err := h.svc.UpdateProfile(c.Context(), p, p.UserID, req)
	if err != nil {
		return serviceError(c, err, "Failed to update profile")
	}
	return c.JSON(u)
}

// UpdateRole handles PUT /api/admin/users/:id/role (admin)
func (h *UserHandler) UpdateRole(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c, "id", "userId")
	if err != nil {
		return err
	}

	var req model.RoleUpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if err := h.svc.UpdateRole(c.Context(), p, id, req); err != nil {
		return serviceError(c, err, "Failed to update role")
	}
	return c.JSON(fiber.Map{"success": true})
}

// List handles GET /api/admin/users (admin)
func (h *UserHandler) List(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	users, err := h.svc.List(c.Context(), p)
	if err != nil {
		return serviceError(c, err, "Failed to list users")
	}
	return c.JSON(users)
}

// JuryMembers handles GET /api/admin/jury-members (admin)
func (h *UserHandler) JuryMembers(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	users, err := h.svc.JuryMembers(c.Context(), p)
	if err != nil {
		return serviceError(c, err, "Failed to list jury members")
	}
	return c.JSON(users)
}
