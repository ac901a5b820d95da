package bracket

import (
	"time"

	"github.com/google/uuid"
)

type Tournament struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Year      int       `db:"year" json:"year"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	ManualLock bool       `db:"is_locked_manual" json:"isLockedManual"`
	LockAt     *time.Time `db:"lock_at" json:"lockAt"`
}

// LockState decides whether picks may still be created or changed.
type LockState struct {
	ManualLock bool
	LockAt     *time.Time
}

func (t *Tournament) Lock() LockState {
	return LockState{ManualLock: t.ManualLock, LockAt: t.LockAt}
}

// IsLocked reports true when the lock was set by hand or now is at or after LockAt.
func (l LockState) IsLocked(now time.Time) bool {
	if l.ManualLock {
		return true
	}
	return l.LockAt != nil && !now.Before(*l.LockAt)
}
