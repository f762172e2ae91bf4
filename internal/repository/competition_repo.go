package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RON-000000/photocomp/internal/model"
)

const competitionColumns = `competition_id, title, description, theme, rules, prizes, image_url,
	       status, start_date, deadline, community_weight, jury_weight, jury_members,
	       participant_count, submission_count, winners, created_at`

type CompetitionRepo struct {
	pool *pgxpool.Pool
}

func NewCompetitionRepo(pool *pgxpool.Pool) *CompetitionRepo {
	return &CompetitionRepo{pool: pool}
}

func scanCompetition(row pgx.Row) (*model.Competition, error) {
	var c model.Competition
	err := row.Scan(
		&c.CompetitionID, &c.Title, &c.Description, &c.Theme, &c.Rules, &c.Prizes, &c.ImageURL,
		&c.Status, &c.StartDate, &c.Deadline, &c.VotingWeight.Community, &c.VotingWeight.Jury,
		&c.JuryMembers, &c.ParticipantCount, &c.SubmissionCount, &c.Winners, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert stores a new competition.
func (r *CompetitionRepo) Insert(ctx context.Context, c *model.Competition) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO competitions (competition_id, title, description, theme, rules, prizes,
			image_url, status, start_date, deadline, community_weight, jury_weight, jury_members)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.CompetitionID, c.Title, c.Description, c.Theme, c.Rules, c.Prizes,
		c.ImageURL, c.Status, c.StartDate, c.Deadline,
		c.VotingWeight.Community, c.VotingWeight.Jury, c.JuryMembers)
	return err
}

// FindByID returns a single competition.
func (r *CompetitionRepo) FindByID(ctx context.Context, competitionID string) (*model.Competition, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+competitionColumns+`
		FROM competitions
		WHERE competition_id = $1`, competitionID)
	return scanCompetition(row)
}

// FindAll returns all competitions, newest first.
func (r *CompetitionRepo) FindAll(ctx context.Context) ([]model.Competition, error) {
	return r.findWhere(ctx, ``)
}

// FindActive returns competitions currently accepting submissions or votes.
func (r *CompetitionRepo) FindActive(ctx context.Context) ([]model.Competition, error) {
	return r.findWhere(ctx, `WHERE status IN ('active', 'voting')`)
}

// FindCompleted returns finalized competitions, newest first.
func (r *CompetitionRepo) FindCompleted(ctx context.Context) ([]model.Competition, error) {
	return r.findWhere(ctx, `WHERE status = 'completed'`)
}

// FindByJuror returns competitions that list the given username as a jury member.
func (r *CompetitionRepo) FindByJuror(ctx context.Context, username string) ([]model.Competition, error) {
	return r.findWhere(ctx, `WHERE $1 = ANY(jury_members)`, username)
}

func (r *CompetitionRepo) findWhere(ctx context.Context, where string, args ...any) ([]model.Competition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+competitionColumns+`
		FROM competitions
		`+where+`
		ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comps []model.Competition
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			return nil, err
		}
		comps = append(comps, *c)
	}
	return comps, rows.Err()
}

// TransitionStatus moves a competition from one status to another. The update
// is conditional on the current status, so concurrent racers collapse into a
// single write and later calls are no-ops.
func (r *CompetitionRepo) TransitionStatus(ctx context.Context, competitionID, from, to string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE competitions SET status = $1
		WHERE competition_id = $2 AND status = $3`,
		to, competitionID, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SetStatus unconditionally sets a competition's status (explicit admin action).
func (r *CompetitionRepo) SetStatus(ctx context.Context, competitionID, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE competitions SET status = $1 WHERE competition_id = $2`,
		status, competitionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Update persists mutable competition fields.
func (r *CompetitionRepo) Update(ctx context.Context, c *model.Competition) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE competitions
		SET title = $1, description = $2, theme = $3, rules = $4, prizes = $5,
		    image_url = $6, deadline = $7, jury_members = $8, winners = $9
		WHERE competition_id = $10`,
		c.Title, c.Description, c.Theme, c.Rules, c.Prizes,
		c.ImageURL, c.Deadline, c.JuryMembers, c.Winners, c.CompetitionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// IncrementSubmissionCount bumps the denormalized counter by delta.
func (r *CompetitionRepo) IncrementSubmissionCount(ctx context.Context, competitionID string, delta int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE competitions
		SET submission_count = GREATEST(submission_count + $1, 0)
		WHERE competition_id = $2`,
		delta, competitionID)
	return err
}

// Delete removes a competition. Submissions, votes, comments and ratings go
// with it via ON DELETE CASCADE.
func (r *CompetitionRepo) Delete(ctx context.Context, competitionID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM competitions WHERE competition_id = $1`, competitionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
