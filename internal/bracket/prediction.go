package bracket

import (
	"time"

	"github.com/google/uuid"
)

// Prediction is one user's pick for a matchup. There is at most one per (user, matchup).
type Prediction struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"userId"`
	MatchupID    uuid.UUID `db:"matchup_id" json:"matchupId"`
	ChosenWinner Slot      `db:"chosen_winner" json:"chosenWinner"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// PicksByMatchup indexes one predictor's picks for use with PredictedWinners.
func PicksByMatchup(predictions []Prediction) map[uuid.UUID]Slot {
	picks := make(map[uuid.UUID]Slot, len(predictions))
	for _, p := range predictions {
		picks[p.MatchupID] = p.ChosenWinner
	}
	return picks
}
