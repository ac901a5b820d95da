package store

import (
	"context"

	users "github.com/AdamBeresnev/bracket-picks/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserStore struct {
	db *sqlx.DB
}

const (
	userColumns            = "id, email, display_name, role, provider, provider_id, avatar_url, created_at"
	getUserQuery           = "SELECT " + userColumns + " FROM users WHERE id = ?"
	getUserByProviderQuery = `
        SELECT ` + userColumns + ` FROM users
        WHERE provider = ?
        AND provider_id = ?
    `
	listUsersQuery  = "SELECT " + userColumns + " FROM users ORDER BY created_at, display_name"
	createUserQuery = `
		INSERT INTO users (id, email, display_name, role, provider, provider_id, avatar_url, created_at) VALUES
		(:id, :email, :display_name, :role, :provider, :provider_id, :avatar_url, :created_at)
	`
	updateUserProfileQuery = `
		UPDATE users SET
		email = :email,
		avatar_url = :avatar_url,
		role = :role
		WHERE id = :id
	`
)

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUserByProvider(ctx context.Context, provider string, providerID string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, s.db.Rebind(getUserByProviderQuery), provider, providerID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	return &user, nil
}

func (s *UserStore) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, s.db.Rebind(getUserQuery), id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]users.User, error) {
	list := []users.User{}
	err := s.db.SelectContext(ctx, &list, listUsersQuery)
	return list, err
}

func (s *UserStore) CreateUser(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, createUserQuery, user)
	return conflict(err, "user already exists")
}

// UpdateProfile stores the provider-owned fields and the role.
func (s *UserStore) UpdateProfile(ctx context.Context, user *users.User) error {
	res, err := s.db.NamedExecContext(ctx, updateUserProfileQuery, user)
	if err != nil {
		return err
	}
	return requireAffected(res, "user")
}

func (s *UserStore) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE users SET display_name = ? WHERE id = ?"), displayName, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "user")
}

func (s *UserStore) UpdateRole(ctx context.Context, id uuid.UUID, role users.Role) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE users SET role = ? WHERE id = ?"), role, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "user")
}

// DisplayNames maps the given ids to display names. Unknown ids are simply missing from the result.
func (s *UserStore) DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	query, args, err := sqlx.In("SELECT id, display_name FROM users WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID          uuid.UUID `db:"id"`
		DisplayName string    `db:"display_name"`
	}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	for _, row := range rows {
		names[row.ID] = row.DisplayName
	}
	return names, nil
}
