package service

import (
	"context"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	apperrors "github.com/AdamBeresnev/bracket-picks/internal/errors"
	"github.com/AdamBeresnev/bracket-picks/internal/live"
	"github.com/AdamBeresnev/bracket-picks/internal/metrics"
	"github.com/AdamBeresnev/bracket-picks/internal/store"
	"github.com/google/uuid"
)

// MatchService records official results. Outcomes can be set or cleared at any time, lock or not.
type MatchService struct {
	matchups *store.MatchupStore
	hub      Broadcaster
	metrics  *metrics.Metrics
	layout   bracket.Layout
}

func NewMatchService(matchups *store.MatchupStore, hub Broadcaster, m *metrics.Metrics) *MatchService {
	return &MatchService{
		matchups: matchups,
		hub:      broadcasterOrNop(hub),
		metrics:  m,
		layout:   bracket.DefaultLayout,
	}
}

type OutcomeUpdate struct {
	TournamentID uuid.UUID           `json:"tournamentId"`
	MatchupID    uuid.UUID           `json:"matchupId"`
	Winner       *bracket.Slot       `json:"winner"`
	Team         *bracket.Competitor `json:"team"`
}

func (s *MatchService) SetOutcome(ctx context.Context, matchupID uuid.UUID, winner bracket.Slot) (*bracket.Matchup, error) {
	if !winner.Valid() {
		return nil, apperrors.Validationf("winner must be %q or %q", bracket.Team1, bracket.Team2)
	}

	m, err := s.matchups.GetMatchup(ctx, matchupID)
	if err != nil {
		return nil, err
	}

	all, err := s.matchups.GetMatchups(ctx, m.TournamentID)
	if err != nil {
		return nil, err
	}
	team := bracket.NewResolver(s.layout, all, bracket.OfficialWinners()).Resolve(m).In(winner)
	if team == nil {
		return nil, apperrors.Validationf("%s is still TBD in the official bracket", winner)
	}

	if err := s.matchups.SetOutcome(ctx, matchupID, &winner); err != nil {
		return nil, err
	}
	m.Winner = &winner

	s.metrics.OutcomeRecorded("set")
	s.hub.Broadcast(live.OutcomeUpdated, OutcomeUpdate{TournamentID: m.TournamentID, MatchupID: m.ID, Winner: m.Winner, Team: team})
	return m, nil
}

func (s *MatchService) ClearOutcome(ctx context.Context, matchupID uuid.UUID) (*bracket.Matchup, error) {
	m, err := s.matchups.GetMatchup(ctx, matchupID)
	if err != nil {
		return nil, err
	}
	if err := s.matchups.SetOutcome(ctx, matchupID, nil); err != nil {
		return nil, err
	}
	m.Winner = nil

	s.metrics.OutcomeRecorded("cleared")
	s.hub.Broadcast(live.OutcomeUpdated, OutcomeUpdate{TournamentID: m.TournamentID, MatchupID: m.ID})
	return m, nil
}

type MatchupPatchInput struct {
	Round      *int    `json:"round"`
	MatchOrder *int    `json:"matchOrder"`
	Team1      *string `json:"team1"`
	Team2      *string `json:"team2"`
	Seed1      *int    `json:"seed1"`
	Seed2      *int    `json:"seed2"`
}

// PatchMatchup lets an admin fix a matchup by hand.
func (s *MatchService) PatchMatchup(ctx context.Context, matchupID uuid.UUID, input MatchupPatchInput) (*bracket.Matchup, error) {
	if input.Round != nil && *input.Round < 1 {
		return nil, apperrors.Validation("round must be at least 1")
	}
	if input.MatchOrder != nil && *input.MatchOrder < 1 {
		return nil, apperrors.Validation("matchOrder must be at least 1")
	}

	patch := store.MatchupPatch{
		Round:      input.Round,
		MatchOrder: input.MatchOrder,
		TeamA:      input.Team1,
		TeamB:      input.Team2,
		SeedA:      input.Seed1,
		SeedB:      input.Seed2,
	}
	if patch.Empty() {
		return nil, apperrors.Validation("nothing to change")
	}

	if err := s.matchups.PatchMatchup(ctx, matchupID, patch); err != nil {
		return nil, err
	}
	return s.matchups.GetMatchup(ctx, matchupID)
}
