package service

import (
	"time"

	apperrors "github.com/AdamBeresnev/bracket-picks/internal/errors"
)

// Broadcaster pushes live updates to connected clients.
type Broadcaster interface {
	Broadcast(msgType string, payload any)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, any) {}

func broadcasterOrNop(b Broadcaster) Broadcaster {
	if b == nil {
		return nopBroadcaster{}
	}
	return b
}

// ErrTournamentLocked is returned for any pick change after the tournament locked.
var ErrTournamentLocked = apperrors.Forbidden("picks are locked for this tournament")

func utcNow() time.Time {
	return time.Now().UTC()
}
