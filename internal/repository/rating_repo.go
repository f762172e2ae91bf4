package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RON-000000/photocomp/internal/model"
)

type RatingRepo struct {
	pool *pgxpool.Pool
}

func NewRatingRepo(pool *pgxpool.Pool) *RatingRepo {
	return &RatingRepo{pool: pool}
}

// Upsert creates or replaces a juror's rating and recomputes the
// submission's cached jury average in the same transaction, keeping the
// invariant jury_average == AVG(rating) as of this write. Returns the new
// average.
func (r *RatingRepo) Upsert(ctx context.Context, rating *model.JuryRating) (float64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO jury_ratings (submission_id, juror_username, competition_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (submission_id, juror_username) DO UPDATE
		SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = NOW()`,
		rating.SubmissionID, rating.JurorUsername, rating.CompetitionID, rating.Rating, rating.Comment)
	if err != nil {
		return 0, err
	}

	var avg float64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0) FROM jury_ratings WHERE submission_id = $1`,
		rating.SubmissionID).Scan(&avg)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE submissions SET jury_average = $1 WHERE submission_id = $2`,
		avg, rating.SubmissionID)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, model.ErrNotFound
	}

	return avg, tx.Commit(ctx)
}

// FindByJuror returns one juror's rating for a submission, or ErrNotFound.
func (r *RatingRepo) FindByJuror(ctx context.Context, submissionID, jurorUsername string) (*model.JuryRating, error) {
	var jr model.JuryRating
	err := r.pool.QueryRow(ctx, `
		SELECT submission_id, juror_username, competition_id, rating, comment, created_at, updated_at
		FROM jury_ratings
		WHERE submission_id = $1 AND juror_username = $2`,
		submissionID, jurorUsername).
		Scan(&jr.SubmissionID, &jr.JurorUsername, &jr.CompetitionID, &jr.Rating,
			&jr.Comment, &jr.CreatedAt, &jr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &jr, nil
}

// FindBySubmission returns all ratings for a submission.
func (r *RatingRepo) FindBySubmission(ctx context.Context, submissionID string) ([]model.JuryRating, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT submission_id, juror_username, competition_id, rating, comment, created_at, updated_at
		FROM jury_ratings
		WHERE submission_id = $1
		ORDER BY created_at ASC`, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []model.JuryRating
	for rows.Next() {
		var jr model.JuryRating
		err := rows.Scan(&jr.SubmissionID, &jr.JurorUsername, &jr.CompetitionID, &jr.Rating,
			&jr.Comment, &jr.CreatedAt, &jr.UpdatedAt)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, jr)
	}
	return ratings, rows.Err()
}
