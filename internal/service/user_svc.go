package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/RON-000000/photocomp/internal/model"
	"github.com/RON-000000/photocomp/internal/repository"
)

const (
	maxUsernameLen = 30
	maxBioLen      = 500
)

// UserService maps identity-provider logins to local accounts and serves
// profiles, stats, and role administration.
type UserService struct {
	repo *repository.UserRepo
	subs *repository.SubmissionRepo
}

func NewUserService(repo *repository.UserRepo, subs *repository.SubmissionRepo) *UserService {
	return &UserService{repo: repo, subs: subs}
}

// Sync upserts the local account for an identity-provider subject. First
// login creates the user with a generated unique username; subsequent
// logins refresh name, email, and avatar from the provider.
func (s *UserService) Sync(ctx context.Context, req model.AuthSyncRequest) (*model.User, error) {
	if req.Subject == "" {
		return nil, model.NewValidationError("subject: required")
	}

	u, err := s.repo.FindBySubject(ctx, req.Subject)
	if err == nil {
		u.Name = req.Name
		u.Email = req.Email
		if req.Avatar != "" {
			u.AvatarURL = req.Avatar
		}
		if err := s.repo.UpdateProfile(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	username, err := s.generateUsername(ctx, firstNonEmpty(req.Username, req.Name, req.Email))
	if err != nil {
		return nil, err
	}

	u = &model.User{
		UserID:    uuid.NewString(),
		Subject:   req.Subject,
		Username:  username,
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.Avatar,
		Role:      model.RoleUser,
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// generateUsername slugs the seed to lowercase alphanumerics and appends a
// numeric suffix until the name is free.
func (s *UserService) generateUsername(ctx context.Context, seed string) (string, error) {
	base := slugUsername(seed)
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := s.repo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

func slugUsername(seed string) string {
	if at := strings.IndexByte(seed, '@'); at > 0 {
		seed = seed[:at]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(seed) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > maxUsernameLen {
		out = out[:maxUsernameLen]
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Get returns a user by local identifier.
func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// Profile returns a user's public profile with their submissions.
func (s *UserService) Profile(ctx context.Context, username string) (*model.UserProfileResponse, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	subs, err := s.subs.FindByUser(ctx, u.UserID)
	if err != nil {
		return nil, err
	}
	return &model.UserProfileResponse{User: *u, Submissions: emptyIfNil(subs)}, nil
}

// UsernameAvailable reports whether a username is valid and free.
func (s *UserService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if slugUsername(username) != username || username == "" {
		return false, model.NewValidationError("username: must be lowercase letters and digits only")
	}
	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// UpdateProfile applies partial profile edits. Only the account owner may
// edit; nil fields are untouched.
func (s *UserService) UpdateProfile(ctx context.Context, principal model.Principal, userID string, req model.ProfileUpdateRequest) (*model.User, error) {
	if principal.UserID != userID && !principal.IsAdmin() {
		return nil, model.ErrForbidden
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Bio != nil {
		if len(*req.Bio) > maxBioLen {
			return nil, model.NewValidationError("bio: must be at most 500 characters")
		}
		u.Bio = *req.Bio
	}
	if req.Location != nil {
		u.Location = *req.Location
	}
	if req.Website != nil {
		u.Website = *req.Website
	}
	if req.Avatar != nil {
		u.AvatarURL = *req.Avatar
	}

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateRole changes a user's role. Admin only.
func (s *UserService) UpdateRole(ctx context.Context, principal model.Principal, userID string, req model.RoleUpdateRequest) error {
	if !principal.IsAdmin() {
		return model.ErrForbidden
	}
	switch req.Role {
	case model.RoleUser, model.RoleJury, model.RoleAdmin:
	default:
		return model.NewValidationError("role: must be one of user, jury, admin")
	}
	return s.repo.UpdateRole(ctx, userID, req.Role)
}

// List returns every user. Admin only.
func (s *UserService) List(ctx context.Context, principal model.Principal) ([]model.User, error) {
	if !principal.IsAdmin() {
		return nil, model.ErrForbidden
	}
	return s.repo.FindAll(ctx)
}

// JuryMembers returns users holding the jury role, for the admin's
// jury-assignment picker.
func (s *UserService) JuryMembers(ctx context.Context, principal model.Principal) ([]model.User, error) {
	if !principal.IsAdmin() {
		return nil, model.ErrForbidden
	}
	return s.repo.FindByRole(ctx, model.RoleJury)
}

// PublicStats returns the landing-page counters.
func (s *UserService) PublicStats(ctx context.Context) (*model.PublicStatsResponse, error) {
	return s.repo.PublicStats(ctx)
}

// AdminStats returns aggregate counters for the admin dashboard.
func (s *UserService) AdminStats(ctx context.Context, principal model.Principal) (*model.AdminStatsResponse, error) {
	if !principal.IsAdmin() {
		return nil, model.ErrForbidden
	}
	return s.repo.AdminStats(ctx)
}
