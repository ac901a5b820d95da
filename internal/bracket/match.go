package bracket

import (
	"time"

	"github.com/google/uuid"
)

type Region string

const (
	East      Region = "East"
	West      Region = "West"
	South     Region = "South"
	Midwest   Region = "Midwest"
	FinalFour Region = "Final Four"
)

// Slot names one side of a matchup. Outcomes and picks are both stored as slots.
type Slot string

const (
	Team1 Slot = "team1"
	Team2 Slot = "team2"
)

func (s Slot) Valid() bool {
	return s == Team1 || s == Team2
}

type Matchup struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournamentId"`

	// Position in the bracket, the tree is implied by these three
	Region     Region `db:"region" json:"region"`
	Round      int    `db:"round" json:"round"`
	MatchOrder int    `db:"match_order" json:"matchOrder"`

	// Only round 1 (and admin-placed final stage slots) carry stored competitors
	TeamA *string `db:"team_a" json:"team1"`
	TeamB *string `db:"team_b" json:"team2"`
	SeedA *int    `db:"seed_a" json:"seed1"`
	SeedB *int    `db:"seed_b" json:"seed2"`

	Winner *Slot `db:"winner" json:"winner"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

func (m *Matchup) IsDecided() bool {
	return m.Winner != nil
}

// IsCorrect reports whether a pick matches the official outcome. Undecided matchups are never correct.
func (m *Matchup) IsCorrect(chosen Slot) bool {
	return m.Winner != nil && *m.Winner == chosen
}

// Competitor is a team as it appears in a matchup slot.
type Competitor struct {
	Name string `json:"name"`
	Seed *int   `json:"seed"`
}

// Pairing holds the two competitors of a matchup. A nil side is still TBD.
type Pairing struct {
	A *Competitor `json:"team1"`
	B *Competitor `json:"team2"`
}

func (p Pairing) In(slot Slot) *Competitor {
	switch slot {
	case Team1:
		return p.A
	case Team2:
		return p.B
	}
	return nil
}

func (p Pairing) Complete() bool {
	return p.A != nil && p.B != nil
}

func storedPairing(m *Matchup) Pairing {
	return Pairing{A: storedCompetitor(m.TeamA, m.SeedA), B: storedCompetitor(m.TeamB, m.SeedB)}
}

func storedCompetitor(name *string, seed *int) *Competitor {
	if name == nil || *name == "" {
		return nil
	}
	return &Competitor{Name: *name, Seed: seed}
}
