package model

import (
	"encoding/json"
	"time"
)

// Competition statuses. Draft is accepted on create but no transition
// produces it; completed is only ever set by an explicit admin action.
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusVoting    = "voting"
	StatusCompleted = "completed"
)

// VotingWeight is the per-competition split between community and jury
// influence on the final score. Community+Jury must sum to 1.0 (±0.01).
type VotingWeight struct {
	Community float64 `json:"community"`
	Jury      float64 `json:"jury"`
}

// DefaultVotingWeight is applied when a competition carries no weighting.
var DefaultVotingWeight = VotingWeight{Community: 0.6, Jury: 0.4}

// Competition is a themed event with a submission window and a deadline.
type Competition struct {
	CompetitionID    string          `json:"competitionId"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Theme            string          `json:"theme"`
	Rules            []string        `json:"rules"`
	Prizes           []string        `json:"prizes"`
	ImageURL         string          `json:"imageUrl,omitempty"`
	Status           string          `json:"status"`
	StartDate        time.Time       `json:"startDate"`
	Deadline         time.Time       `json:"deadline"`
	VotingWeight     VotingWeight    `json:"votingWeight"`
	JuryMembers      []string        `json:"juryMembers"`
	ParticipantCount int             `json:"participantCount"`
	SubmissionCount  int             `json:"submissionCount"`
	Winners          json.RawMessage `json:"winners,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// CompetitionCreateRequest is the admin request body for creating a competition.
type CompetitionCreateRequest struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Theme        string        `json:"theme"`
	Rules        []string      `json:"rules"`
	Prizes       []string      `json:"prizes"`
	ImageURL     string        `json:"imageUrl"`
	Status       string        `json:"status"`
	StartDate    string        `json:"startDate"`
	Deadline     string        `json:"deadline"`
	VotingWeight *VotingWeight `json:"votingWeight"`
	JuryMembers  []string      `json:"juryMembers"`
}

// CompetitionUpdateRequest carries partial updates; nil fields are untouched.
type CompetitionUpdateRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Theme       *string         `json:"theme"`
	Rules       []string        `json:"rules"`
	Prizes      []string        `json:"prizes"`
	ImageURL    *string         `json:"imageUrl"`
	Deadline    *string         `json:"deadline"`
	JuryMembers []string        `json:"juryMembers"`
	Winners     json.RawMessage `json:"winners"`
}

// StatusUpdateRequest is the admin request body for PATCHing a competition status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// IsJuror reports whether the given username is a jury member of the competition.
func (c *Competition) IsJuror(username string) bool {
	for _, m := range c.JuryMembers {
		if m == username {
			return true
		}
	}
	return false
}

// Weight returns the competition's voting weight, falling back to the
// default split when the stored pair is unusable.
func (c *Competition) Weight() VotingWeight {
	if c.VotingWeight.Community == 0 && c.VotingWeight.Jury == 0 {
		return DefaultVotingWeight
	}
	return c.VotingWeight
}
