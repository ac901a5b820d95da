package bracket

import "github.com/google/uuid"

type Team struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournamentId"`
	Name         string    `db:"name" json:"name"`
	Seed         *int      `db:"seed" json:"seed"`
	Region       *Region   `db:"region" json:"region"`
	MediaLink    *string   `db:"media_link" json:"mediaLink"`
}
