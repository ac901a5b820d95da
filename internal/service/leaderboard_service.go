package service

import (
	"context"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	"github.com/AdamBeresnev/bracket-picks/internal/metrics"
	"github.com/AdamBeresnev/bracket-picks/internal/scoring"
	"github.com/AdamBeresnev/bracket-picks/internal/store"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type LeaderboardService struct {
	tournaments *store.TournamentStore
	matchups    *store.MatchupStore
	predictions *store.PredictionStore
	users       *store.UserStore
	metrics     *metrics.Metrics
}

func NewLeaderboardService(tournaments *store.TournamentStore, matchups *store.MatchupStore, predictions *store.PredictionStore, userStore *store.UserStore, m *metrics.Metrics) *LeaderboardService {
	return &LeaderboardService{
		tournaments: tournaments,
		matchups:    matchups,
		predictions: predictions,
		users:       userStore,
		metrics:     m,
	}
}

// Leaderboard is computed from scratch on every call.
func (s *LeaderboardService) Leaderboard(ctx context.Context, tournamentID uuid.UUID) ([]scoring.Row, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveLeaderboard(time.Since(start)) }()

	if _, err := s.tournaments.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	var (
		matchups    []bracket.Matchup
		predictions []bracket.Prediction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matchups, err = s.matchups.GetMatchups(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		predictions, err = s.predictions.GetPredictions(gctx, tournamentID, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names, err := s.users.DisplayNames(ctx, scoring.UserIDs(predictions))
	if err != nil {
		return nil, err
	}

	return scoring.ComputeLeaderboard(matchups, predictions, scoring.Names(names)), nil
}
