package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RON-000000/photocomp/internal/model"
)

const submissionColumns = `submission_id, competition_id, user_id, title, description, image_url,
	       community_votes, jury_average, camera, lens, settings, created_at`

type SubmissionRepo struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepo(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	var s model.Submission
	err := row.Scan(
		&s.SubmissionID, &s.CompetitionID, &s.UserID, &s.Title, &s.Description, &s.ImageURL,
		&s.Votes.Community, &s.Votes.Jury,
		&s.Metadata.Camera, &s.Metadata.Lens, &s.Metadata.Settings, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Insert stores a new submission and bumps the denormalized counters on the
// competition and the submitting user in the same transaction.
func (r *SubmissionRepo) Insert(ctx context.Context, s *model.Submission) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO submissions (submission_id, competition_id, user_id, title, description,
			image_url, camera, lens, settings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.SubmissionID, s.CompetitionID, s.UserID, s.Title, s.Description,
		s.ImageURL, s.Metadata.Camera, s.Metadata.Lens, s.Metadata.Settings)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE competitions SET submission_count = submission_count + 1
		WHERE competition_id = $1`, s.CompetitionID)
	if err != nil {
		return err
	}

	// First entry by this user also makes them a participant.
	_, err = tx.Exec(ctx, `
		UPDATE competitions SET participant_count = participant_count + 1
		WHERE competition_id = $1
		  AND (SELECT COUNT(*) FROM submissions
		       WHERE competition_id = $1 AND user_id = $2) = 1`,
		s.CompetitionID, s.UserID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET submission_count = submission_count + 1
		WHERE user_id = $1`, s.UserID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// FindByID returns a single submission.
func (r *SubmissionRepo) FindByID(ctx context.Context, submissionID string) (*model.Submission, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE submission_id = $1`, submissionID)
	return scanSubmission(row)
}

// FindByCompetition returns all submissions for a competition.
func (r *SubmissionRepo) FindByCompetition(ctx context.Context, competitionID string) ([]model.Submission, error) {
	return r.findWhere(ctx, `WHERE competition_id = $1`, competitionID)
}

// FindByUser returns a user's submissions, newest first.
func (r *SubmissionRepo) FindByUser(ctx context.Context, userID string) ([]model.Submission, error) {
	return r.findWhere(ctx, `WHERE user_id = $1`, userID)
}

func (r *SubmissionRepo) findWhere(ctx context.Context, where string, args ...any) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		`+where+`
		ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

// AddVote records a community vote. The unique (submission_id, user_id) row
// enforces at-most-one-vote-per-user: when the insert conflicts, no counter
// moves and ErrAlreadyVoted is returned.
func (r *SubmissionRepo) AddVote(ctx context.Context, submissionID, userID string) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO submission_votes (submission_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (submission_id, user_id) DO NOTHING`,
		submissionID, userID)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, model.ErrAlreadyVoted
	}

	var total int
	err = tx.QueryRow(ctx, `
		UPDATE submissions SET community_votes = community_votes + 1
		WHERE submission_id = $1
		RETURNING community_votes`, submissionID).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, model.ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET vote_count = vote_count + 1
		WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}

	return total, tx.Commit(ctx)
}

// HasVoted reports whether the user already voted on the submission.
func (r *SubmissionRepo) HasVoted(ctx context.Context, submissionID, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM submission_votes
			WHERE submission_id = $1 AND user_id = $2
		)`, submissionID, userID).Scan(&exists)
	return exists, err
}

// AddComment appends a comment to a submission.
func (r *SubmissionRepo) AddComment(ctx context.Context, c *model.Comment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO submission_comments (comment_id, submission_id, user_id, username, body)
		VALUES ($1, $2, $3, $4, $5)`,
		c.CommentID, c.SubmissionID, c.UserID, c.Username, c.Body)
	return err
}

// FindComments returns a submission's comments in insertion order.
func (r *SubmissionRepo) FindComments(ctx context.Context, submissionID string) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT comment_id, submission_id, user_id, username, body, created_at
		FROM submission_comments
		WHERE submission_id = $1
		ORDER BY created_at ASC`, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.CommentID, &c.SubmissionID, &c.UserID, &c.Username, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// FindComment returns a single comment.
func (r *SubmissionRepo) FindComment(ctx context.Context, submissionID, commentID string) (*model.Comment, error) {
	var c model.Comment
	err := r.pool.QueryRow(ctx, `
		SELECT comment_id, submission_id, user_id, username, body, created_at
		FROM submission_comments
		WHERE submission_id = $1 AND comment_id = $2`, submissionID, commentID).
		Scan(&c.CommentID, &c.SubmissionID, &c.UserID, &c.Username, &c.Body, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes a single comment.
func (r *SubmissionRepo) DeleteComment(ctx context.Context, submissionID, commentID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM submission_comments
		WHERE submission_id = $1 AND comment_id = $2`, submissionID, commentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete removes a submission and decrements the competition and user
// counters in the same transaction. Votes, comments and ratings cascade.
func (r *SubmissionRepo) Delete(ctx context.Context, s *model.Submission) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM submissions WHERE submission_id = $1`, s.SubmissionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE competitions SET submission_count = GREATEST(submission_count - 1, 0)
		WHERE competition_id = $1`, s.CompetitionID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE competitions SET participant_count = GREATEST(participant_count - 1, 0)
		WHERE competition_id = $1
		  AND NOT EXISTS (SELECT 1 FROM submissions
		                  WHERE competition_id = $1 AND user_id = $2)`,
		s.CompetitionID, s.UserID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET submission_count = GREATEST(submission_count - 1, 0)
		WHERE user_id = $1`, s.UserID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
