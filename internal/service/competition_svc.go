package service

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RON-000000/photocomp/internal/cdn"
	"github.com/RON-000000/photocomp/internal/model"
	"github.com/RON-000000/photocomp/internal/repository"
)

const weightSumTolerance = 0.01

type CompetitionService struct {
	repo      *repository.CompetitionRepo
	subs      *repository.SubmissionRepo
	users     *repository.UserRepo
	lifecycle *LifecycleService
	scoring   *ScoringService
	cache     *CacheService
	images    *cdn.Client
}

func NewCompetitionService(
	repo *repository.CompetitionRepo,
	subs *repository.SubmissionRepo,
	users *repository.UserRepo,
	lifecycle *LifecycleService,
	scoring *ScoringService,
	cache *CacheService,
	images *cdn.Client,
) *CompetitionService {
	return &CompetitionService{
		repo:      repo,
		subs:      subs,
		users:     users,
		lifecycle: lifecycle,
		scoring:   scoring,
		cache:     cache,
		images:    images,
	}
}

// Create validates and stores a new competition. Admin only.
func (s *CompetitionService) Create(ctx context.Context, principal model.Principal, req model.CompetitionCreateRequest) (*model.Competition, error) {
	if !principal.IsAdmin() {
		return nil, model.ErrForbidden
	}

	var msgs []string
	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		msgs = append(msgs, "startDate: invalid timestamp")
	}
	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		msgs = append(msgs, "deadline: invalid timestamp")
	}

	status := req.Status
	switch status {
	case "":
		status = model.StatusActive
	case model.StatusDraft, model.StatusActive, model.StatusVoting, model.StatusCompleted:
	default:
		msgs = append(msgs, "status: must be one of draft, active, voting, completed")
	}

	weight := model.DefaultVotingWeight
	if req.VotingWeight != nil {
		weight = *req.VotingWeight
	}

	c := &model.Competition{
		CompetitionID: uuid.NewString(),
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		Theme:         strings.TrimSpace(req.Theme),
		Rules:         emptyIfNil(req.Rules),
		Prizes:        emptyIfNil(req.Prizes),
		ImageURL:      req.ImageURL,
		Status:        status,
		StartDate:     startDate,
		Deadline:      deadline,
		VotingWeight:  weight,
		JuryMembers:   emptyIfNil(req.JuryMembers),
		CreatedAt:     time.Now().UTC(),
	}

	msgs = append(msgs, competitionFieldErrors(c)...)
	if len(msgs) > 0 {
		return nil, model.NewValidationError(msgs...)
	}

	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns a competition with its status reconciled against the clock.
func (s *CompetitionService) Get(ctx context.Context, competitionID string) (*model.Competition, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCompetition(ctx, competitionID); err != nil {
			log.Printf("cache: competition get error: %v", err)
		} else if cached != nil {
			var c model.Competition
			if err := json.Unmarshal(cached, &c); err == nil {
				// Cached copies still go through the deadline check so a
				// stale status never escapes to a caller.
				s.lifecycle.Reconcile(ctx, &c)
				return &c, nil
			}
		}
	}

	c, err := s.repo.FindByID(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	s.lifecycle.Reconcile(ctx, c)

	if s.cache != nil {
		if err := s.cache.SetCompetition(ctx, competitionID, c); err != nil {
			log.Printf("cache: competition set error: %v", err)
		}
	}
	return c, nil
}

// List returns competitions filtered by phase, each reconciled.
// filter is "", "active" or "completed".
func (s *CompetitionService) List(ctx context.Context, filter string) ([]model.Competition, error) {
	var (
		comps []model.Competition
		err   error
	)
	switch filter {
	case "active":
		comps, err = s.repo.FindActive(ctx)
	case "completed":
		comps, err = s.repo.FindCompleted(ctx)
	default:
		comps, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	s.lifecycle.ReconcileAll(ctx, comps)
	return comps, nil
}

// ListForJuror returns the competitions where the username sits on the jury.
func (s *CompetitionService) ListForJuror(ctx context.Context, username string) ([]model.Competition, error) {
	comps, err := s.repo.FindByJuror(ctx, username)
	if err != nil {
		return nil, err
	}
	s.lifecycle.ReconcileAll(ctx, comps)
	return comps, nil
}

// Update applies partial edits to a competition. Admin only.
func (s *CompetitionService) Update(ctx context.Context, principal model.Principal, competitionID string, req model.CompetitionUpdateRequest) (*model.Competition, error) {
	if !principal.IsAdmin() {
		return nil, model.ErrForbidden
	}

	c, err := s.repo.FindByID(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}
	if req.Theme != nil {
		c.Theme = strings.TrimSpace(*req.Theme)
	}
	if req.Rules != nil {
		c.Rules = req.Rules
	}
	if req.Prizes != nil {
		c.Prizes = req.Prizes
	}
	if req.ImageURL != nil {
		c.ImageURL = *req.ImageURL
	}
	if req.Deadline != nil {
		deadline, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			return nil, model.NewValidationError("deadline: invalid timestamp")
		}
		c.Deadline = deadline
	}
	if req.JuryMembers != nil {
		c.JuryMembers = req.JuryMembers
	}
	firstWinners := req.Winners != nil && c.Winners == nil
	if req.Winners != nil {
		c.Winners = req.Winners
	}

	if msgs := competitionFieldErrors(c); len(msgs) > 0 {
		return nil, model.NewValidationError(msgs...)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	// Wins counters move when winners are first assigned; re-assignments
	// are left alone so counts are bumped once per competition.
	if firstWinners {
		s.creditWinners(ctx, c.Winners)
	}

	s.invalidate(ctx, competitionID)
	return c, nil
}

// creditWinners bumps each winning user's win counter, best-effort. A
// malformed or hand-written winners payload is skipped silently.
func (s *CompetitionService) creditWinners(ctx context.Context, winners json.RawMessage) {
	var entries []model.Winner
	if err := json.Unmarshal(winners, &entries); err != nil {
		return
	}
	for _, w := range entries {
		if w.Submission.UserID == "" {
			continue
		}
		if err := s.users.IncrementWinCount(ctx, w.Submission.UserID); err != nil {
			log.Printf("winners: win count for %s not bumped: %v", w.Submission.UserID, err)
		}
	}
}

// SetStatus is the explicit admin path for status changes, and the only way
// a competition reaches completed.
func (s *CompetitionService) SetStatus(ctx context.Context, principal model.Principal, competitionID, status string) error {
	if !principal.IsAdmin() {
		return model.ErrForbidden
	}
	switch status {
	case model.StatusActive, model.StatusVoting, model.StatusCompleted:
	default:
		return model.NewValidationError("status: must be one of active, voting, completed")
	}

	if err := s.repo.SetStatus(ctx, competitionID, status); err != nil {
		return err
	}
	s.invalidate(ctx, competitionID)
	return nil
}

// Delete removes a competition and everything under it. CDN images are
// deleted best-effort first: a failed image delete is logged and never
// blocks the database delete, so a crash mid-sequence can orphan CDN images
// but not rows.
func (s *CompetitionService) Delete(ctx context.Context, principal model.Principal, competitionID string) error {
	if !principal.IsAdmin() {
		return model.ErrForbidden
	}

	subs, err := s.subs.FindByCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	if s.images != nil {
		for _, sub := range subs {
			if sub.ImageURL == "" {
				continue
			}
			if err := s.images.Delete(ctx, sub.ImageURL); err != nil {
				log.Printf("competition delete: image cleanup for %s failed: %v", sub.SubmissionID, err)
			}
		}
	}

	if err := s.repo.Delete(ctx, competitionID); err != nil {
		return err
	}
	s.invalidate(ctx, competitionID)
	return nil
}

// Leaderboard returns the competition's submissions scored and sorted.
func (s *CompetitionService) Leaderboard(ctx context.Context, competitionID string) ([]model.ScoredSubmission, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetLeaderboard(ctx, competitionID); err != nil {
			log.Printf("cache: leaderboard get error: %v", err)
		} else if cached != nil {
			var ranked []model.ScoredSubmission
			if err := json.Unmarshal(cached, &ranked); err == nil {
				return ranked, nil
			}
		}
	}

	c, err := s.Get(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	subs, err := s.subs.FindByCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	ranked := s.scoring.Leaderboard(subs, c.Weight())

	if s.cache != nil {
		if err := s.cache.SetLeaderboard(ctx, competitionID, ranked); err != nil {
			log.Printf("cache: leaderboard set error: %v", err)
		}
	}
	return ranked, nil
}

// FeaturedWinners returns the top three of the most recent completed
// competition.
func (s *CompetitionService) FeaturedWinners(ctx context.Context) (*model.FeaturedWinnersResponse, error) {
	completed, err := s.repo.FindCompleted(ctx)
	if err != nil {
		return nil, err
	}
	if len(completed) == 0 {
		return &model.FeaturedWinnersResponse{Message: "no completed competitions yet"}, nil
	}

	latest := completed[0]
	subs, err := s.subs.FindByCompetition(ctx, latest.CompetitionID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return &model.FeaturedWinnersResponse{Message: "no submissions in latest competition"}, nil
	}

	return &model.FeaturedWinnersResponse{
		Winners:     s.scoring.TopWinners(subs, latest.Weight(), 3),
		Competition: &latest,
	}, nil
}

func (s *CompetitionService) invalidate(ctx context.Context, competitionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCompetition(ctx, competitionID); err != nil {
		log.Printf("cache: invalidate competition error: %v", err)
	}
}

// competitionFieldErrors checks the text fields, date ordering, and voting
// weight of a competition after edits have been applied. Both the create and
// the partial-update path run it, so a PATCH cannot sidestep the create-time
// rules.
func competitionFieldErrors(c *model.Competition) []string {
	var msgs []string
	if len(c.Title) < 3 || len(c.Title) > 100 {
		msgs = append(msgs, "title: must be 3-100 characters")
	}
	if len(c.Description) < 10 || len(c.Description) > 2000 {
		msgs = append(msgs, "description: must be 10-2000 characters")
	}
	if len(c.Theme) < 3 || len(c.Theme) > 100 {
		msgs = append(msgs, "theme: must be 3-100 characters")
	}
	if !c.StartDate.IsZero() && !c.Deadline.IsZero() && !c.Deadline.After(c.StartDate) {
		msgs = append(msgs, "deadline: must be after startDate")
	}
	return append(msgs, weightErrors(c.Weight())...)
}

// weightErrors validates a voting weight pair. Each component must sit in
// [0, 1] and the pair must sum to 1.0; the sum check alone would accept a
// pair like {1.5, -0.5} that subtracts jury scores.
func weightErrors(w model.VotingWeight) []string {
	var msgs []string
	if w.Community < 0 || w.Community > 1 || w.Jury < 0 || w.Jury > 1 {
		msgs = append(msgs, "votingWeight: community and jury must each be between 0 and 1")
	}
	if math.Abs(w.Community+w.Jury-1.0) > weightSumTolerance {
		msgs = append(msgs, "votingWeight: community and jury must sum to 1.0")
	}
	return msgs
}

func emptyIfNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
