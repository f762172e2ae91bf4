package model

import "time"

// PhotoMetadata holds free-form camera/lens/settings strings.
type PhotoMetadata struct {
	Camera   string `json:"camera,omitempty"`
	Lens     string `json:"lens,omitempty"`
	Settings string `json:"settings,omitempty"`
}

// Votes is the denormalized vote state of a submission. Jury is the
// arithmetic mean of all jury ratings as of the last successful upsert.
type Votes struct {
	Community int     `json:"community"`
	Jury      float64 `json:"jury"`
}

// Submission is one photo entry into a competition.
type Submission struct {
	SubmissionID  string        `json:"submissionId"`
	CompetitionID string        `json:"competitionId"`
	UserID        string        `json:"userId"`
	Title         string        `json:"title"`
	Description   string        `json:"description,omitempty"`
	ImageURL      string        `json:"imageUrl"`
	Votes         Votes         `json:"votes"`
	Metadata      PhotoMetadata `json:"metadata"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// SubmissionCreateRequest is the request body for entering a photo.
type SubmissionCreateRequest struct {
	CompetitionID string        `json:"competitionId"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	ImageURL      string        `json:"imageUrl"`
	Metadata      PhotoMetadata `json:"metadata"`
}

// Comment is one user comment on a submission.
type Comment struct {
	CommentID    string    `json:"id"`
	SubmissionID string    `json:"-"`
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	Body         string    `json:"text"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CommentCreateRequest is the request body for adding a comment.
type CommentCreateRequest struct {
	Text string `json:"text"`
}

// ScoredSubmission is a submission annotated with its total ranking score.
type ScoredSubmission struct {
	Submission
	TotalScore float64 `json:"totalScore"`
}

// Winner is one leaderboard entry in the featured-winners response.
type Winner struct {
	Rank       int              `json:"rank"`
	Submission ScoredSubmission `json:"submission"`
}

// FeaturedWinnersResponse is the response for the featured-winners lookup.
type FeaturedWinnersResponse struct {
	Winners     []Winner     `json:"winners"`
	Competition *Competition `json:"competition,omitempty"`
	Message     string       `json:"message,omitempty"`
}
