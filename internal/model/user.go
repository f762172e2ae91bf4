package model

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleJury  = "jury"
	RoleAdmin = "admin"
)

// UserStats are denormalized counters. They are maintained on write paths
// and never reconciled, so they can drift from the underlying rows.
type UserStats struct {
	Submissions int `json:"submissions"`
	Wins        int `json:"wins"`
	Votes       int `json:"votes"`
}

// User is a local account mapped from the identity provider's subject.
type User struct {
	UserID    string    `json:"userId"`
	Subject   string    `json:"-"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"-"`
	AvatarURL string    `json:"avatar,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Location  string    `json:"location,omitempty"`
	Website   string    `json:"website,omitempty"`
	Role      string    `json:"role"`
	Stats     UserStats `json:"stats"`
	CreatedAt time.Time `json:"memberSince"`
}

// Principal is the authenticated caller, threaded explicitly through every
// operation that needs it. Never read from ambient globals.
type Principal struct {
	UserID   string
	Username string
	Role     string
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// CanModerate reports whether the principal may delete other users' comments.
func (p Principal) CanModerate() bool { return p.Role == RoleAdmin || p.Role == RoleJury }

// AuthSyncRequest is the post-login request mapping an identity-provider
// subject to a local user.
type AuthSyncRequest struct {
	Subject  string `json:"subject"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Username string `json:"username"`
}

// ProfileUpdateRequest carries partial profile edits; nil fields are untouched.
type ProfileUpdateRequest struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
	Avatar   *string `json:"avatar"`
}

// RoleUpdateRequest is the admin request body for changing a user's role.
type RoleUpdateRequest struct {
	Role string `json:"role"`
}

// UserProfileResponse is a user plus their submissions and computed stats.
type UserProfileResponse struct {
	User
	Submissions []Submission `json:"submissions"`
}

// PublicStatsResponse is the landing-page counters payload.
type PublicStatsResponse struct {
	Photographers int `json:"photographers"`
	Competitions  int `json:"competitions"`
	Photos        int `json:"photos"`
}

// AdminStatsResponse is the admin dashboard payload.
type AdminStatsResponse struct {
	TotalUsers        int `json:"totalUsers"`
	TotalCompetitions int `json:"totalCompetitions"`
	TotalSubmissions  int `json:"totalSubmissions"`
	TotalVotes        int `json:"totalVotes"`
	TotalRatings      int `json:"totalRatings"`
	ActiveCompetitions int `json:"activeCompetitions"`
}
