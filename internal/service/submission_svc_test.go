package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RON-000000/photocomp/internal/model"
)

type fakeSubmissionStore struct {
	subs    map[string]*model.Submission
	votedBy map[string]map[string]bool
	deleted []string
}

func newFakeSubmissionStore(subs ...*model.Submission) *fakeSubmissionStore {
	f := &fakeSubmissionStore{
		subs:    make(map[string]*model.Submission),
		votedBy: make(map[string]map[string]bool),
	}
	for _, s := range subs {
		f.subs[s.SubmissionID] = s
	}
	return f
}

func (f *fakeSubmissionStore) Insert(_ context.Context, s *model.Submission) error {
	f.subs[s.SubmissionID] = s
	return nil
}

func (f *fakeSubmissionStore) FindByID(_ context.Context, submissionID string) (*model.Submission, error) {
	s, ok := f.subs[submissionID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return s, nil
}

func (f *fakeSubmissionStore) FindByCompetition(_ context.Context, competitionID string) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range f.subs {
		if s.CompetitionID == competitionID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) FindByUser(_ context.Context, userID string) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) Delete(_ context.Context, s *model.Submission) error {
	delete(f.subs, s.SubmissionID)
	f.deleted = append(f.deleted, s.SubmissionID)
	return nil
}

// AddVote mirrors the conflict-ignoring vote insert: a repeat
// (submission, user) pair moves no counter and reports the duplicate.
func (f *fakeSubmissionStore) AddVote(_ context.Context, submissionID, userID string) (int, error) {
	s, ok := f.subs[submissionID]
	if !ok {
		return 0, model.ErrNotFound
	}
	if f.votedBy[submissionID][userID] {
		return 0, model.ErrAlreadyVoted
	}
	if f.votedBy[submissionID] == nil {
		f.votedBy[submissionID] = make(map[string]bool)
	}
	f.votedBy[submissionID][userID] = true
	s.Votes.Community++
	return s.Votes.Community, nil
}

func (f *fakeSubmissionStore) HasVoted(_ context.Context, submissionID, userID string) (bool, error) {
	return f.votedBy[submissionID][userID], nil
}

func (f *fakeSubmissionStore) AddComment(context.Context, *model.Comment) error { return nil }

func (f *fakeSubmissionStore) FindComments(context.Context, string) ([]model.Comment, error) {
	return nil, nil
}

func (f *fakeSubmissionStore) FindComment(context.Context, string, string) (*model.Comment, error) {
	return nil, model.ErrNotFound
}

func (f *fakeSubmissionStore) DeleteComment(context.Context, string, string) error { return nil }

type fakeCompetitionFinder struct {
	comp *model.Competition
}

func (f *fakeCompetitionFinder) FindByID(_ context.Context, competitionID string) (*model.Competition, error) {
	if f.comp == nil || f.comp.CompetitionID != competitionID {
		return nil, model.ErrNotFound
	}
	cp := *f.comp
	return &cp, nil
}

func submissionSvcAt(store *fakeSubmissionStore, comp *model.Competition, now time.Time) *SubmissionService {
	svc := NewSubmissionService(store, &fakeCompetitionFinder{comp: comp},
		lifecycleAt(&fakeTransitioner{}, now), nil, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func competitionInPhase(status string, deadline time.Time) *model.Competition {
	return &model.Competition{
		CompetitionID: "comp1",
		Status:        status,
		Deadline:      deadline,
	}
}

func entry(id, userID string) *model.Submission {
	return &model.Submission{
		SubmissionID:  id,
		CompetitionID: "comp1",
		UserID:        userID,
		Title:         "Golden Hour",
		ImageURL:      "https://cdn.example.com/photocomp/submissions/" + id + ".jpg",
	}
}

func TestVote_CountsEachUserOnce(t *testing.T) {
	deadline := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeSubmissionStore(entry("sub1", "owner"))
	svc := submissionSvcAt(store, competitionInPhase(model.StatusVoting, deadline), deadline.Add(time.Hour))

	total, err := svc.Vote(context.Background(), model.Principal{UserID: "alice"}, "sub1")
	if err != nil || total != 1 {
		t.Fatalf("first vote = (%d, %v), want (1, nil)", total, err)
	}
	total, err = svc.Vote(context.Background(), model.Principal{UserID: "bob"}, "sub1")
	if err != nil || total != 2 {
		t.Fatalf("second voter = (%d, %v), want (2, nil)", total, err)
	}

	_, err = svc.Vote(context.Background(), model.Principal{UserID: "alice"}, "sub1")
	if !errors.Is(err, model.ErrAlreadyVoted) {
		t.Fatalf("repeat vote err = %v, want ErrAlreadyVoted", err)
	}
	if got := store.subs["sub1"].Votes.Community; got != 2 {
		t.Errorf("community votes after repeat = %d, want 2 (unchanged)", got)
	}

	voted, err := svc.HasVoted(context.Background(), model.Principal{UserID: "alice"}, "sub1")
	if err != nil || !voted {
		t.Errorf("HasVoted(alice) = (%v, %v), want (true, nil)", voted, err)
	}
}

func TestVote_PhaseRules(t *testing.T) {
	deadline := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  string
		now     time.Time
		wantErr error
	}{
		{"active before deadline", model.StatusActive, deadline.Add(-time.Hour), nil},
		{"voting phase", model.StatusVoting, deadline.Add(time.Hour), nil},
		{"active past deadline reconciles to voting", model.StatusActive, deadline.Add(time.Hour), nil},
		{"completed", model.StatusCompleted, deadline.Add(time.Hour), model.ErrPhaseLocked},
		{"draft", model.StatusDraft, deadline.Add(-time.Hour), model.ErrPhaseLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeSubmissionStore(entry("sub1", "owner"))
			svc := submissionSvcAt(store, competitionInPhase(tt.status, deadline), tt.now)

			_, err := svc.Vote(context.Background(), model.Principal{UserID: "alice"}, "sub1")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Vote err = %v, want %v", err, tt.wantErr)
			}
			want := 0
			if tt.wantErr == nil {
				want = 1
			}
			if got := store.subs["sub1"].Votes.Community; got != want {
				t.Errorf("community votes = %d, want %d", got, want)
			}
		})
	}
}

func TestCreate_DeadlineGate(t *testing.T) {
	deadline := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	req := model.SubmissionCreateRequest{
		CompetitionID: "comp1",
		Title:         "Golden Hour",
		ImageURL:      "https://cdn.example.com/photocomp/submissions/a.jpg",
	}

	tests := []struct {
		name    string
		status  string
		now     time.Time
		wantErr error
	}{
		{"active before deadline", model.StatusActive, deadline.Add(-time.Minute), nil},
		{"active past deadline", model.StatusActive, deadline.Add(time.Minute), model.ErrDeadlinePassed},
		{"voting phase", model.StatusVoting, deadline.Add(-time.Minute), model.ErrDeadlinePassed},
		{"completed", model.StatusCompleted, deadline.Add(time.Hour), model.ErrDeadlinePassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeSubmissionStore()
			svc := submissionSvcAt(store, competitionInPhase(tt.status, deadline), tt.now)

			sub, err := svc.Create(context.Background(), model.Principal{UserID: "alice"}, req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if sub == nil || store.subs[sub.SubmissionID] == nil {
					t.Fatal("submission not stored on success")
				}
			} else if len(store.subs) != 0 {
				t.Errorf("stored %d submissions, want none", len(store.subs))
			}
		})
	}
}

func TestDelete_OwnerOnlyWhileActive(t *testing.T) {
	deadline := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	owner := model.Principal{UserID: "owner", Role: model.RoleUser}
	stranger := model.Principal{UserID: "someone-else", Role: model.RoleUser}
	admin := model.Principal{UserID: "root", Role: model.RoleAdmin}

	tests := []struct {
		name      string
		principal model.Principal
		status    string
		now       time.Time
		wantErr   error
	}{
		{"owner while active", owner, model.StatusActive, deadline.Add(-time.Hour), nil},
		{"owner once voting starts", owner, model.StatusVoting, deadline.Add(time.Hour), model.ErrPhaseLocked},
		{"owner past deadline before persist", owner, model.StatusActive, deadline.Add(time.Hour), model.ErrPhaseLocked},
		{"owner after completion", owner, model.StatusCompleted, deadline.Add(time.Hour), model.ErrPhaseLocked},
		{"non-owner", stranger, model.StatusActive, deadline.Add(-time.Hour), model.ErrForbidden},
		{"admin during voting", admin, model.StatusVoting, deadline.Add(time.Hour), nil},
		{"admin after completion", admin, model.StatusCompleted, deadline.Add(time.Hour), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeSubmissionStore(entry("sub1", "owner"))
			svc := submissionSvcAt(store, competitionInPhase(tt.status, deadline), tt.now)

			err := svc.Delete(context.Background(), tt.principal, "sub1")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Delete err = %v, want %v", err, tt.wantErr)
			}
			_, remains := store.subs["sub1"]
			if tt.wantErr == nil && remains {
				t.Error("submission still stored after delete")
			}
			if tt.wantErr != nil && !remains {
				t.Error("submission removed despite rejected delete")
			}
		})
	}
}
