package service

import (
	"context"
	"slices"
	"strings"
	"time"

	apperrors "github.com/AdamBeresnev/bracket-picks/internal/errors"
	"github.com/AdamBeresnev/bracket-picks/internal/store"
	users "github.com/AdamBeresnev/bracket-picks/internal/user"
	"github.com/AdamBeresnev/bracket-picks/internal/utils"
	"github.com/google/uuid"
	"github.com/markbates/goth"
)

type UserService struct {
	store       *store.UserStore
	adminEmails []string
	now         func() time.Time
}

// NewUserService takes the lower-cased emails that are made admin when they sign in.
func NewUserService(store *store.UserStore, adminEmails []string) *UserService {
	return &UserService{store: store, adminEmails: adminEmails, now: utcNow}
}

func (s *UserService) isAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	return email != "" && slices.Contains(s.adminEmails, email)
}

func (s *UserService) FindOrCreateUserByProvider(ctx context.Context, gothUser goth.User) (*users.User, error) {
	user, err := s.store.GetUserByProvider(ctx, gothUser.Provider, gothUser.UserID)

	if err == nil {
		changed := false
		if gothUser.AvatarURL != "" && utils.OrZero(user.AvatarURL) != gothUser.AvatarURL {
			user.AvatarURL = utils.Ptr(gothUser.AvatarURL)
			changed = true
		}
		if gothUser.Email != "" && user.Email != gothUser.Email {
			user.Email = gothUser.Email
			changed = true
		}
		// Configured admins are promoted on sign-in, never demoted
		if user.Role != users.RoleAdmin && s.isAdminEmail(user.Email) {
			user.Role = users.RoleAdmin
			changed = true
		}
		if changed {
			if err := s.store.UpdateProfile(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	role := users.RoleUser
	if s.isAdminEmail(gothUser.Email) {
		role = users.RoleAdmin
	}

	newUser := &users.User{
		ID:          uuid.New(),
		Email:       gothUser.Email,
		DisplayName: defaultDisplayName(gothUser),
		Role:        role,
		Provider:    utils.Ptr(gothUser.Provider),
		ProviderID:  utils.Ptr(gothUser.UserID),
		AvatarURL:   utils.StringOrNil(gothUser.AvatarURL),
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateUser(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

func defaultDisplayName(gothUser goth.User) string {
	for _, candidate := range []string{gothUser.Name, gothUser.NickName, gothUser.FirstName} {
		if name, ok := users.CleanDisplayName(candidate); ok {
			return name
		}
	}
	if local, _, found := strings.Cut(gothUser.Email, "@"); found {
		if name, ok := users.CleanDisplayName(local); ok {
			return name
		}
	}
	return "Player"
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *UserService) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*users.User, error) {
	name, ok := users.CleanDisplayName(displayName)
	if !ok {
		return nil, apperrors.Validationf("display name must be 1 to %d characters", users.MaxDisplayNameLength)
	}
	if err := s.store.UpdateDisplayName(ctx, id, name); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]users.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *UserService) SetRole(ctx context.Context, id uuid.UUID, role users.Role) (*users.User, error) {
	if !role.Valid() {
		return nil, apperrors.Validationf("role must be %q or %q", users.RoleAdmin, users.RoleUser)
	}
	if err := s.store.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, id)
}
