package service

import (
	"context"
	"log"

	"github.com/RON-000000/photocomp/internal/model"
	"github.com/RON-000000/photocomp/internal/repository"
)

const (
	minJuryRating = 1.0
	maxJuryRating = 10.0
)

// RatingService handles jury rating upserts and keeps the submission's
// cached jury average in step with the persisted ratings.
type RatingService struct {
	repo  *repository.RatingRepo
	subs  *repository.SubmissionRepo
	comps *repository.CompetitionRepo
	cache *CacheService
}

func NewRatingService(
	repo *repository.RatingRepo,
	subs *repository.SubmissionRepo,
	comps *repository.CompetitionRepo,
	cache *CacheService,
) *RatingService {
	return &RatingService{repo: repo, subs: subs, comps: comps, cache: cache}
}

// Upsert creates or replaces the juror's rating for a submission and
// recomputes votes.jury as the mean of all ratings in the same transaction.
// Replacing a rating re-averages from scratch — never a running average of
// old and new. A failed recompute leaves the previous cached average in
// place; there is no retry.
func (s *RatingService) Upsert(ctx context.Context, principal model.Principal, req model.RatingUpsertRequest) (*model.RatingUpsertResponse, error) {
	var msgs []string
	if req.SubmissionID == "" {
		msgs = append(msgs, "submissionId: required")
	}
	if req.CompetitionID == "" {
		msgs = append(msgs, "competitionId: required")
	}
	if req.Rating < minJuryRating || req.Rating > maxJuryRating {
		msgs = append(msgs, "rating: must be between 1 and 10")
	}
	if len(req.Comment) > 1000 {
		msgs = append(msgs, "comment: must be at most 1000 characters")
	}
	if len(msgs) > 0 {
		return nil, model.NewValidationError(msgs...)
	}

	c, err := s.comps.FindByID(ctx, req.CompetitionID)
	if err != nil {
		return nil, err
	}
	if !c.IsJuror(principal.Username) && !principal.IsAdmin() {
		return nil, model.ErrNotJuror
	}

	sub, err := s.subs.FindByID(ctx, req.SubmissionID)
	if err != nil {
		return nil, err
	}
	if sub.CompetitionID != req.CompetitionID {
		return nil, model.NewValidationError("submissionId: does not belong to this competition")
	}

	avg, err := s.repo.Upsert(ctx, &model.JuryRating{
		SubmissionID:  req.SubmissionID,
		JurorUsername: principal.Username,
		CompetitionID: req.CompetitionID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateCompetition(ctx, req.CompetitionID); err != nil {
			log.Printf("cache: invalidate competition error: %v", err)
		}
	}

	return &model.RatingUpsertResponse{Success: true, JuryAverage: avg}, nil
}

// GetForJuror returns the principal's own rating for a submission, or
// ErrNotFound when they have not rated it yet.
func (s *RatingService) GetForJuror(ctx context.Context, principal model.Principal, submissionID string) (*model.JuryRating, error) {
	return s.repo.FindByJuror(ctx, submissionID, principal.Username)
}

// ListForSubmission returns all ratings for a submission.
func (s *RatingService) ListForSubmission(ctx context.Context, submissionID string) ([]model.JuryRating, error) {
	return s.repo.FindBySubmission(ctx, submissionID)
}
