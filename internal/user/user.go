package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const UserKey ContextKey = "user"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Email       string    `db:"email" json:"email,omitempty"`
	DisplayName string    `db:"display_name" json:"displayName"`
	Role        Role      `db:"role" json:"role"`
	Provider    *string   `db:"provider" json:"provider,omitempty"`
	ProviderID  *string   `db:"provider_id" json:"-"`
	AvatarURL   *string   `db:"avatar_url" json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

const MaxDisplayNameLength = 120

// CleanDisplayName trims the name and reports whether it is usable.
func CleanDisplayName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > MaxDisplayNameLength {
		return name, false
	}
	return name, true
}
