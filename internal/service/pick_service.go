package service

import (
	"context"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	apperrors "github.com/AdamBeresnev/bracket-picks/internal/errors"
	"github.com/AdamBeresnev/bracket-picks/internal/metrics"
	"github.com/AdamBeresnev/bracket-picks/internal/store"
	"github.com/google/uuid"
)

type PickService struct {
	tournaments *store.TournamentStore
	matchups    *store.MatchupStore
	predictions *store.PredictionStore
	metrics     *metrics.Metrics
	layout      bracket.Layout
	now         func() time.Time
}

func NewPickService(tournaments *store.TournamentStore, matchups *store.MatchupStore, predictions *store.PredictionStore, m *metrics.Metrics) *PickService {
	return &PickService{
		tournaments: tournaments,
		matchups:    matchups,
		predictions: predictions,
		metrics:     m,
		layout:      bracket.DefaultLayout,
		now:         utcNow,
	}
}

type PickInput struct {
	MatchupID    uuid.UUID    `json:"matchupId"`
	ChosenWinner bracket.Slot `json:"chosenWinner"`
}

// SubmitPicks stores picks in the given order. Each pick must name a side that shows a team in the
// predictor's own bracket, which includes the picks earlier in the same batch.
func (s *PickService) SubmitPicks(ctx context.Context, userID, tournamentID uuid.UUID, inputs []PickInput) ([]bracket.Prediction, error) {
	if len(inputs) == 0 {
		return nil, apperrors.Validation("no picks given")
	}
	for _, input := range inputs {
		if !input.ChosenWinner.Valid() {
			s.metrics.PickSubmitted("invalid")
			return nil, apperrors.Validationf("chosenWinner must be %q or %q", bracket.Team1, bracket.Team2)
		}
	}

	// Lock state is read fresh on every submission
	tournament, err := s.tournaments.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Lock().IsLocked(s.now()) {
		s.metrics.PickSubmitted("locked")
		return nil, ErrTournamentLocked
	}

	matchups, err := s.matchups.GetMatchups(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*bracket.Matchup, len(matchups))
	for i := range matchups {
		byID[matchups[i].ID] = &matchups[i]
	}

	existing, err := s.predictions.GetPredictions(ctx, tournamentID, &userID)
	if err != nil {
		return nil, err
	}
	picks := bracket.PicksByMatchup(existing)

	// Check the whole batch before writing anything
	for _, input := range inputs {
		m, ok := byID[input.MatchupID]
		if !ok {
			s.metrics.PickSubmitted("invalid")
			return nil, apperrors.NotFoundf("matchup %s not found in this tournament", input.MatchupID)
		}

		resolver := bracket.NewResolver(s.layout, matchups, bracket.PredictedWinners(picks))
		if resolver.Resolve(m).In(input.ChosenWinner) == nil {
			s.metrics.PickSubmitted("invalid")
			return nil, apperrors.Validationf("%s of round %d %s game %d is still TBD in your bracket",
				input.ChosenWinner, m.Round, m.Region, m.MatchOrder)
		}
		picks[m.ID] = input.ChosenWinner
	}

	saved := make([]bracket.Prediction, 0, len(inputs))
	for _, input := range inputs {
		saved = append(saved, bracket.Prediction{UserID: userID, MatchupID: input.MatchupID, ChosenWinner: input.ChosenWinner})
	}
	if err := s.predictions.UpsertPredictions(ctx, saved); err != nil {
		return nil, err
	}
	for range saved {
		s.metrics.PickSubmitted("accepted")
	}
	return saved, nil
}

func (s *PickService) SubmitPick(ctx context.Context, userID, tournamentID uuid.UUID, input PickInput) (*bracket.Prediction, error) {
	saved, err := s.SubmitPicks(ctx, userID, tournamentID, []PickInput{input})
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

func (s *PickService) ListPicks(ctx context.Context, userID, tournamentID uuid.UUID) ([]bracket.Prediction, error) {
	if _, err := s.tournaments.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.predictions.GetPredictions(ctx, tournamentID, &userID)
}

// ResetPicks deletes every pick of the tournament. Admins may do this even while locked.
func (s *PickService) ResetPicks(ctx context.Context, tournamentID uuid.UUID) (int64, error) {
	if _, err := s.tournaments.GetTournament(ctx, tournamentID); err != nil {
		return 0, err
	}
	return s.predictions.DeletePredictions(ctx, tournamentID)
}
