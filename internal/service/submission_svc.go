package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RON-000000/photocomp/internal/cdn"
	"github.com/RON-000000/photocomp/internal/model"
)

// submissionStore is the slice of the submission repository the service
// depends on.
type submissionStore interface {
	Insert(ctx context.Context, s *model.Submission) error
	FindByID(ctx context.Context, submissionID string) (*model.Submission, error)
	FindByCompetition(ctx context.Context, competitionID string) ([]model.Submission, error)
	FindByUser(ctx context.Context, userID string) ([]model.Submission, error)
	Delete(ctx context.Context, s *model.Submission) error
	AddVote(ctx context.Context, submissionID, userID string) (int, error)
	HasVoted(ctx context.Context, submissionID, userID string) (bool, error)
	AddComment(ctx context.Context, c *model.Comment) error
	FindComments(ctx context.Context, submissionID string) ([]model.Comment, error)
	FindComment(ctx context.Context, submissionID, commentID string) (*model.Comment, error)
	DeleteComment(ctx context.Context, submissionID, commentID string) error
}

// competitionFinder looks up the competition a submission belongs to, for
// the phase and deadline checks.
type competitionFinder interface {
	FindByID(ctx context.Context, competitionID string) (*model.Competition, error)
}

type SubmissionService struct {
	repo      submissionStore
	comps     competitionFinder
	lifecycle *LifecycleService
	cache     *CacheService
	images    *cdn.Client
	now       func() time.Time
}

func NewSubmissionService(
	repo submissionStore,
	comps competitionFinder,
	lifecycle *LifecycleService,
	cache *CacheService,
	images *cdn.Client,
) *SubmissionService {
	return &SubmissionService{
		repo:      repo,
		comps:     comps,
		lifecycle: lifecycle,
		cache:     cache,
		images:    images,
		now:       time.Now,
	}
}

// Create enters a photo into a competition. Only allowed while the
// competition is active and the deadline has not passed.
func (s *SubmissionService) Create(ctx context.Context, principal model.Principal, req model.SubmissionCreateRequest) (*model.Submission, error) {
	var msgs []string
	title := strings.TrimSpace(req.Title)
	if title == "" || len(title) > 100 {
		msgs = append(msgs, "title: must be 1-100 characters")
	}
	if len(req.Description) > 1000 {
		msgs = append(msgs, "description: must be at most 1000 characters")
	}
	if req.CompetitionID == "" {
		msgs = append(msgs, "competitionId: required")
	}
	if req.ImageURL == "" {
		msgs = append(msgs, "imageUrl: required")
	}
	if len(msgs) > 0 {
		return nil, model.NewValidationError(msgs...)
	}

	c, err := s.comps.FindByID(ctx, req.CompetitionID)
	if err != nil {
		return nil, err
	}
	s.lifecycle.Reconcile(ctx, c)

	if c.Status != model.StatusActive || s.now().After(c.Deadline) {
		return nil, model.ErrDeadlinePassed
	}

	sub := &model.Submission{
		SubmissionID:  uuid.NewString(),
		CompetitionID: req.CompetitionID,
		UserID:        principal.UserID,
		Title:         title,
		Description:   strings.TrimSpace(req.Description),
		ImageURL:      req.ImageURL,
		Metadata:      req.Metadata,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidateCompetition(ctx, req.CompetitionID)
	return sub, nil
}

// Get returns a single submission.
func (s *SubmissionService) Get(ctx context.Context, submissionID string) (*model.Submission, error) {
	return s.repo.FindByID(ctx, submissionID)
}

// ListByCompetition returns all submissions of a competition.
func (s *SubmissionService) ListByCompetition(ctx context.Context, competitionID string) ([]model.Submission, error) {
	return s.repo.FindByCompetition(ctx, competitionID)
}

// ListByUser returns a user's submissions, newest first.
func (s *SubmissionService) ListByUser(ctx context.Context, userID string) ([]model.Submission, error) {
	return s.repo.FindByUser(ctx, userID)
}

// Delete removes a submission. Owners may delete only while the competition
// is still active (the phase lock: entries are frozen once voting starts);
// admins may delete at any time. The CDN image delete is best-effort.
func (s *SubmissionService) Delete(ctx context.Context, principal model.Principal, submissionID string) error {
	sub, err := s.repo.FindByID(ctx, submissionID)
	if err != nil {
		return err
	}

	if !principal.IsAdmin() {
		if sub.UserID != principal.UserID {
			return model.ErrForbidden
		}
		c, err := s.comps.FindByID(ctx, sub.CompetitionID)
		if err != nil {
			return err
		}
		s.lifecycle.Reconcile(ctx, c)
		if c.Status != model.StatusActive {
			return model.ErrPhaseLocked
		}
	}

	if err := s.repo.Delete(ctx, sub); err != nil {
		return err
	}

	if s.images != nil && sub.ImageURL != "" {
		if err := s.images.Delete(ctx, sub.ImageURL); err != nil {
			log.Printf("submission delete: image cleanup for %s failed: %v", submissionID, err)
		}
	}
	s.invalidateCompetition(ctx, sub.CompetitionID)
	return nil
}

// Vote records one community vote. A second vote by the same user leaves the
// counter unchanged and surfaces ErrAlreadyVoted.
func (s *SubmissionService) Vote(ctx context.Context, principal model.Principal, submissionID string) (int, error) {
	sub, err := s.repo.FindByID(ctx, submissionID)
	if err != nil {
		return 0, err
	}

	c, err := s.comps.FindByID(ctx, sub.CompetitionID)
	if err != nil {
		return 0, err
	}
	s.lifecycle.Reconcile(ctx, c)
	if c.Status != model.StatusActive && c.Status != model.StatusVoting {
		return 0, model.ErrPhaseLocked
	}

	total, err := s.repo.AddVote(ctx, submissionID, principal.UserID)
	if err != nil {
		return 0, err
	}
	s.invalidateCompetition(ctx, sub.CompetitionID)
	return total, nil
}

// HasVoted reports whether the principal already voted on the submission.
func (s *SubmissionService) HasVoted(ctx context.Context, principal model.Principal, submissionID string) (bool, error) {
	return s.repo.HasVoted(ctx, submissionID, principal.UserID)
}

// AddComment appends a comment to a submission.
func (s *SubmissionService) AddComment(ctx context.Context, principal model.Principal, submissionID, text string) (*model.Comment, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return nil, model.NewValidationError("text: must not be empty")
	}
	if len(body) > 1000 {
		return nil, model.NewValidationError("text: must be at most 1000 characters")
	}

	if _, err := s.repo.FindByID(ctx, submissionID); err != nil {
		return nil, err
	}

	c := &model.Comment{
		CommentID:    uuid.NewString(),
		SubmissionID: submissionID,
		UserID:       principal.UserID,
		Username:     principal.Username,
		Body:         body,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments returns a submission's comments in insertion order.
func (s *SubmissionService) ListComments(ctx context.Context, submissionID string) ([]model.Comment, error) {
	return s.repo.FindComments(ctx, submissionID)
}

// DeleteComment removes a comment. Allowed for the comment's owner, admins
// and jury members.
func (s *SubmissionService) DeleteComment(ctx context.Context, principal model.Principal, submissionID, commentID string) error {
	c, err := s.repo.FindComment(ctx, submissionID, commentID)
	if err != nil {
		return err
	}
	if c.UserID != principal.UserID && !principal.CanModerate() {
		return model.ErrForbidden
	}
	return s.repo.DeleteComment(ctx, submissionID, commentID)
}

func (s *SubmissionService) invalidateCompetition(ctx context.Context, competitionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCompetition(ctx, competitionID); err != nil {
		log.Printf("cache: invalidate competition error: %v", err)
	}
}
