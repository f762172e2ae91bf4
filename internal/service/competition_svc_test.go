package service

import (
	"strings"
	"testing"
	"time"

	"github.com/RON-000000/photocomp/internal/model"
)

func validCompetition() *model.Competition {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return &model.Competition{
		CompetitionID: "comp1",
		Title:         "Street Photography",
		Description:   "Candid moments from city streets around the world.",
		Theme:         "Urban Life",
		Status:        model.StatusActive,
		StartDate:     start,
		Deadline:      start.AddDate(0, 1, 0),
		VotingWeight:  model.DefaultVotingWeight,
	}
}

func TestCompetitionFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *model.Competition)
		want   string // substring of the expected message, "" for no errors
	}{
		{"valid", func(c *model.Competition) {}, ""},
		{"title too short", func(c *model.Competition) { c.Title = "x" }, "title"},
		{"title too long", func(c *model.Competition) { c.Title = strings.Repeat("t", 101) }, "title"},
		{"description too short", func(c *model.Competition) { c.Description = "short" }, "description"},
		{"theme too short", func(c *model.Competition) { c.Theme = "ab" }, "theme"},
		{"deadline before start", func(c *model.Competition) { c.Deadline = c.StartDate.Add(-time.Hour) }, "deadline"},
		{"deadline equals start", func(c *model.Competition) { c.Deadline = c.StartDate }, "deadline"},
		{"negative jury weight", func(c *model.Competition) {
			c.VotingWeight = model.VotingWeight{Community: 1.5, Jury: -0.5}
		}, "votingWeight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCompetition()
			tt.mutate(c)
			msgs := competitionFieldErrors(c)

			if tt.want == "" {
				if len(msgs) != 0 {
					t.Fatalf("competitionFieldErrors = %v, want none", msgs)
				}
				return
			}
			found := false
			for _, m := range msgs {
				if strings.Contains(m, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("competitionFieldErrors = %v, want a %q message", msgs, tt.want)
			}
		})
	}
}

func TestWeightErrors(t *testing.T) {
	tests := []struct {
		name    string
		weight  model.VotingWeight
		wantErr bool
	}{
		{"default split", model.DefaultVotingWeight, false},
		{"even split", model.VotingWeight{Community: 0.5, Jury: 0.5}, false},
		{"community only", model.VotingWeight{Community: 1, Jury: 0}, false},
		{"within sum tolerance", model.VotingWeight{Community: 0.6, Jury: 0.405}, false},
		{"sum too low", model.VotingWeight{Community: 0.5, Jury: 0.4}, true},
		{"sum too high", model.VotingWeight{Community: 0.7, Jury: 0.4}, true},
		{"sums to one but out of range", model.VotingWeight{Community: 1.5, Jury: -0.5}, true},
		{"component above one", model.VotingWeight{Community: 1.2, Jury: -0.2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := weightErrors(tt.weight)
			if gotErr := len(msgs) > 0; gotErr != tt.wantErr {
				t.Errorf("weightErrors(%+v) = %v, wantErr %v", tt.weight, msgs, tt.wantErr)
			}
		})
	}
}
