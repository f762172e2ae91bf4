package service

import (
	"context"
	"log"
	"time"

	"github.com/RON-000000/photocomp/internal/model"
)

// statusTransitioner is the persistence capability the lifecycle controller
// needs: a conditional status update that is a no-op when the competition
// already left the expected state.
type statusTransitioner interface {
	TransitionStatus(ctx context.Context, competitionID, from, to string) (bool, error)
}

// LifecycleService keeps a competition's status consistent with wall-clock
// time relative to its deadline. It is lazy: there is no ticker or background
// worker, the check runs on every read path and staleness is bounded by how
// soon after the deadline someone next reads the competition.
type LifecycleService struct {
	repo statusTransitioner
	now  func() time.Time
}

func NewLifecycleService(repo statusTransitioner) *LifecycleService {
	return &LifecycleService{repo: repo, now: time.Now}
}

// NextStatus returns the status a competition should have at the given
// instant, and whether that differs from the current one. The only automatic
// transition is active -> voting once the deadline passes; voting ->
// completed is reserved for an explicit admin action, and completed is
// terminal.
func NextStatus(status string, deadline, now time.Time) (string, bool) {
	if status == model.StatusActive && now.After(deadline) {
		return model.StatusVoting, true
	}
	return status, false
}

// Reconcile checks one competition against the clock and persists the
// transition before the caller returns it. The conditional update makes
// concurrent racers idempotent. If the write fails the in-memory copy still
// reflects the intended transition: the response shows voting, the store
// catches up on the next read. That inconsistency window is accepted.
func (s *LifecycleService) Reconcile(ctx context.Context, c *model.Competition) {
	next, changed := NextStatus(c.Status, c.Deadline, s.now())
	if !changed {
		return
	}

	if _, err := s.repo.TransitionStatus(ctx, c.CompetitionID, c.Status, next); err != nil {
		log.Printf("lifecycle: transition %s %s->%s not persisted: %v",
			c.CompetitionID, c.Status, next, err)
	}
	c.Status = next
}

// ReconcileAll runs the deadline check over a freshly fetched list.
func (s *LifecycleService) ReconcileAll(ctx context.Context, comps []model.Competition) {
	for i := range comps {
		s.Reconcile(ctx, &comps[i])
	}
}
