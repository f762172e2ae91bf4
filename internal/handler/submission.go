package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/RON-000000/photocomp/internal/middleware"
	"github.com/RON-000000/photocomp/internal/model"
	"github.com/RON-000000/photocomp/internal/service"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// Create handles POST /api/submissions
func (h *SubmissionHandler) Create(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	var req model.SubmissionCreateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	sub, err := h.svc.Create(c.Context(), p, req)
	if err != nil {
		return serviceError(c, err, "Failed to create submission")
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// Get handles GET /api/submissions/:id
func (h *SubmissionHandler) Get(c fiber.Ctx) error {
	id, err := pathID(c, "id", "submissionId")
	if err != nil {
		return err
	}

	sub, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "Failed to load submission")
	}
	return c.JSON(sub)
}

// ListByCompetition handles GET /api/competitions/:id/submissions
func (h *SubmissionHandler) ListByCompetition(c fiber.Ctx) error {
	id, err := pathID(c, "id", "competitionId")
	if err != nil {
		return err
	}

	subs, err := h.svc.ListByCompetition(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "Failed to list submissions")
	}
	return c.JSON(subs)
}

// Mine handles GET /api/users/me/submissions
func (h *SubmissionHandler) Mine(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	subs, err := h.svc.ListByUser(c.Context(), p.UserID)
	if err != nil {
		return serviceError(c, err, "Failed to list submissions")
	}
	return c.JSON(subs)
}

// Delete handles DELETE /api/submissions/:id
func (h *SubmissionHandler) Delete(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c, "id", "submissionId")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Context(), p, id); err != nil {
		return serviceError(c, err, "Failed to delete submission")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Vote handles POST /api/submissions/:id/vote
func (h *SubmissionHandler) Vote(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c, "id", "submissionId")
	if err != nil {
		return err
	}

	votes, err := h.svc.Vote(c.Context(), p, id)
	if err != nil {
		return serviceError(c, err, "Failed to record vote")
	}
	Metrics.VotesTotal.Inc()
	return c.JSON(fiber.Map{"success": true, "communityVotes": votes})
}

// HasVoted handles GET /api/submissions/:id/vote
func (h *SubmissionHandler) HasVoted(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c, "id", "submissionId")
	if err != nil {
		return err
	}

	voted, err := h.svc.HasVoted(c.Context(), p, id)
	if err != nil {
		return serviceError(c, err, "Failed to check vote")
	}
	return c.JSON(fiber.Map{"hasVoted": voted})
}

// AddComment handles POST /api/submissions/:id/comments
func (h *SubmissionHandler) AddComment(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c, "id", "submissionId")
	if err != nil {
		return err
	}

	var req model.CommentCreateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	comment, err := h.svc.AddComment(c.Context(), p, id, req.Text)
	if err != nil {
		return serviceError(c, err, "Failed to add comment")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListComments handles GET /api/submissions/:id/comments
func (h *SubmissionHandler) ListComments(c fiber.Ctx) error {
	id, err := pathID(c, "id", "submissionId")
	if err != nil {
		return err
	}

	comments, err := h.svc.ListComments(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "Failed to list comments")
	}
	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/submissions/:id/comments/:commentId
func (h *SubmissionHandler) DeleteComment(c fiber.Ctx) error {
	p, ok := requirePrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c, "id", "submissionId")
	if err != nil {
		return err
	}
	commentID, err := pathID(c, "commentId", "commentId")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteComment(c.Context(), p, id, commentID); err != nil {
		return serviceError(c, err, "Failed to delete comment")
	}
	return c.JSON(fiber.Map{"success": true})
}
