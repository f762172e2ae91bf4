package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/RON-000000/photocomp/internal/middleware"
	"github.com/RON-000000/photocomp/internal/model"
)

// serviceError maps service-layer sentinels onto the standard error envelope.
func serviceError(c fiber.Ctx, err error, fallback string) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return middleware.ValidationErrors(c, verr.Messages)
	case errors.Is(err, model.ErrNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, model.ErrForbidden):
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
	case errors.Is(err, model.ErrNotJuror):
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "NOT_JUROR", "Not a jury member for this competition")
	case errors.Is(err, model.ErrAlreadyVoted):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "ALREADY_VOTED", "You have already voted for this submission")
	case errors.Is(err, model.ErrDeadlinePassed):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "DEADLINE_PASSED", "The submission deadline has passed")
	case errors.Is(err, model.ErrPhaseLocked):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "PHASE_LOCKED", "The competition phase does not allow this action")
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

// requirePrincipal pulls the authenticated caller out of the request or
// writes a 401. The bool reports whether the caller may proceed.
func requirePrincipal(c fiber.Ctx) (model.Principal, bool) {
	p, ok := middleware.Principal(c)
	if !ok {
		return model.Principal{}, false
	}
	return p, true
}

func unauthorized(c fiber.Ctx) error {
	return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
}

// pathID validates a UUID path parameter named in the error message.
func pathID(c fiber.Ctx, param, field string) (string, error) {
	id, errMsg := middleware.ValidateID(c.Params(param), field)
	if errMsg != "" {
		return "", middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	return id, nil
}

// cleanFilter normalizes a list-filter query value.
func cleanFilter(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
