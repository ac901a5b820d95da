package service

import (
	"context"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	"github.com/AdamBeresnev/bracket-picks/internal/scoring"
	"github.com/AdamBeresnev/bracket-picks/internal/store"
	"github.com/google/uuid"
)

type PickStatus string

const (
	PickCorrect PickStatus = "correct"
	PickWrong   PickStatus = "wrong"
	PickPending PickStatus = "pending"
)

type MatchupView struct {
	ID         uuid.UUID           `json:"id"`
	Region     bracket.Region      `json:"region"`
	Round      int                 `json:"round"`
	MatchOrder int                 `json:"matchOrder"`
	Points     int                 `json:"points"`
	Team1      *bracket.Competitor `json:"team1"`
	Team2      *bracket.Competitor `json:"team2"`
	Winner     *bracket.Slot       `json:"winner"`

	// Only set on a predictor's bracket
	Pick       *bracket.Slot `json:"pick,omitempty"`
	PickStatus PickStatus    `json:"pickStatus,omitempty"`
}

type BracketView struct {
	Tournament      *bracket.Tournament                    `json:"tournament"`
	Locked          bool                                   `json:"locked"`
	UserID          *uuid.UUID                             `json:"userId,omitempty"`
	Matchups        []MatchupView                          `json:"matchups"`
	RegionChampions map[bracket.Region]*bracket.Competitor `json:"regionChampions"`
	Champion        *bracket.Competitor                    `json:"champion"`
}

// BracketService renders the official bracket and each predictor's own version of it.
type BracketService struct {
	tournaments *store.TournamentStore
	matchups    *store.MatchupStore
	predictions *store.PredictionStore
	layout      bracket.Layout
	now         func() time.Time
}

func NewBracketService(tournaments *store.TournamentStore, matchups *store.MatchupStore, predictions *store.PredictionStore) *BracketService {
	return &BracketService{
		tournaments: tournaments,
		matchups:    matchups,
		predictions: predictions,
		layout:      bracket.DefaultLayout,
		now:         utcNow,
	}
}

func (s *BracketService) OfficialBracket(ctx context.Context, tournamentID uuid.UUID) (*BracketView, error) {
	tournament, err := s.tournaments.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	matchups, err := s.matchups.GetMatchups(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	resolver := bracket.NewResolver(s.layout, matchups, bracket.OfficialWinners())
	return s.render(tournament, resolver, nil, nil), nil
}

// UserBracket shows the bracket the way a predictor filled it in, with each pick checked against the
// official outcome.
func (s *BracketService) UserBracket(ctx context.Context, tournamentID, userID uuid.UUID) (*BracketView, error) {
	tournament, err := s.tournaments.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	matchups, err := s.matchups.GetMatchups(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	predictions, err := s.predictions.GetPredictions(ctx, tournamentID, &userID)
	if err != nil {
		return nil, err
	}

	picks := bracket.PicksByMatchup(predictions)
	resolver := bracket.NewResolver(s.layout, matchups, bracket.PredictedWinners(picks))
	return s.render(tournament, resolver, picks, &userID), nil
}

func (s *BracketService) render(tournament *bracket.Tournament, resolver *bracket.Resolver, picks map[uuid.UUID]bracket.Slot, userID *uuid.UUID) *BracketView {
	resolved := resolver.All()

	view := &BracketView{
		Tournament:      tournament,
		Locked:          tournament.Lock().IsLocked(s.now()),
		UserID:          userID,
		Matchups:        make([]MatchupView, 0, len(resolved)),
		RegionChampions: make(map[bracket.Region]*bracket.Competitor, len(s.layout.Regions)),
		Champion:        resolver.Champion(),
	}

	for _, r := range resolved {
		m := r.Matchup
		mv := MatchupView{
			ID:         m.ID,
			Region:     m.Region,
			Round:      m.Round,
			MatchOrder: m.MatchOrder,
			Points:     scoring.RoundPoints(m.Round),
			Team1:      r.Pairing.A,
			Team2:      r.Pairing.B,
			Winner:     m.Winner,
		}
		if picks != nil {
			if slot, ok := picks[m.ID]; ok {
				mv.Pick = &slot
				mv.PickStatus = pickStatus(m, slot)
			}
		}
		view.Matchups = append(view.Matchups, mv)
	}

	for _, region := range s.layout.Regions {
		view.RegionChampions[region] = resolver.RegionChampion(region)
	}
	return view
}

func pickStatus(m *bracket.Matchup, slot bracket.Slot) PickStatus {
	switch {
	case !m.IsDecided():
		return PickPending
	case m.IsCorrect(slot):
		return PickCorrect
	default:
		return PickWrong
	}
}
