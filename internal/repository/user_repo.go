package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RON-000000/photocomp/internal/model"
)

const userColumns = `user_id, subject, username, name, email, avatar_url, bio, location, website,
	       role, submission_count, win_count, vote_count, created_at`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.UserID, &u.Subject, &u.Username, &u.Name, &u.Email, &u.AvatarURL,
		&u.Bio, &u.Location, &u.Website, &u.Role,
		&u.Stats.Submissions, &u.Stats.Wins, &u.Stats.Votes, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Insert stores a new user.
func (r *UserRepo) Insert(ctx context.Context, u *model.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (user_id, subject, username, name, email, avatar_url, bio, location, website, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.UserID, u.Subject, u.Username, u.Name, u.Email, u.AvatarURL,
		u.Bio, u.Location, u.Website, u.Role)
	return err
}

// FindByID returns a user by local identifier.
func (r *UserRepo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID))
}

// FindBySubject returns the user mapped to an identity-provider subject.
func (r *UserRepo) FindBySubject(ctx context.Context, subject string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE subject = $1`, subject))
}

// FindByUsername returns a user by username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// UsernameExists reports whether a username is taken.
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

// FindAll returns every user, newest first.
func (r *UserRepo) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// FindByRole returns users with the given role.
func (r *UserRepo) FindByRole(ctx context.Context, role string) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY username ASC`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateProfile persists identity-provider profile fields on login sync.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, avatar_url = $3, bio = $4, location = $5, website = $6
		WHERE user_id = $7`,
		u.Name, u.Email, u.AvatarURL, u.Bio, u.Location, u.Website, u.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// IncrementWinCount bumps the denormalized wins counter.
func (r *UserRepo) IncrementWinCount(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET win_count = win_count + 1 WHERE user_id = $1`, userID)
	return err
}

// UpdateRole changes a user's role.
func (r *UserRepo) UpdateRole(ctx context.Context, userID, role string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET role = $1 WHERE user_id = $2`, role, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// PublicStats returns the landing-page counters.
func (r *UserRepo) PublicStats(ctx context.Context) (*model.PublicStatsResponse, error) {
	var stats model.PublicStatsResponse
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users) AS photographers,
			(SELECT COUNT(*) FROM competitions) AS competitions,
			(SELECT COUNT(*) FROM submissions) AS photos`).
		Scan(&stats.Photographers, &stats.Competitions, &stats.Photos)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminStats returns aggregate counters for the admin dashboard.
func (r *UserRepo) AdminStats(ctx context.Context) (*model.AdminStatsResponse, error) {
	var stats model.AdminStatsResponse
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM competitions) AS total_competitions,
			(SELECT COUNT(*) FROM submissions) AS total_submissions,
			(SELECT COUNT(*) FROM submission_votes) AS total_votes,
			(SELECT COUNT(*) FROM jury_ratings) AS total_ratings,
			(SELECT COUNT(*) FROM competitions WHERE status IN ('active', 'voting')) AS active_competitions`).
		Scan(&stats.TotalUsers, &stats.TotalCompetitions, &stats.TotalSubmissions,
			&stats.TotalVotes, &stats.TotalRatings, &stats.ActiveCompetitions)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
