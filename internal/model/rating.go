package model

import "time"

// JuryRating is a single juror's assessment of one submission, unique per
// (submission, juror). Upserted with create-or-replace semantics.
type JuryRating struct {
	SubmissionID  string    `json:"submissionId"`
	JurorUsername string    `json:"jurorUsername"`
	CompetitionID string    `json:"competitionId"`
	Rating        float64   `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RatingUpsertRequest is the request body for submitting a jury rating.
type RatingUpsertRequest struct {
	SubmissionID  string  `json:"submissionId"`
	CompetitionID string  `json:"competitionId"`
	Rating        float64 `json:"rating"`
	Comment       string  `json:"comment"`
}

// RatingUpsertResponse reports the recomputed jury average after an upsert.
type RatingUpsertResponse struct {
	Success     bool    `json:"success"`
	JuryAverage float64 `json:"juryAverage"`
}
