package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	apperrors "github.com/AdamBeresnev/bracket-picks/internal/errors"
	"github.com/AdamBeresnev/bracket-picks/internal/live"
	"github.com/AdamBeresnev/bracket-picks/internal/media"
	"github.com/AdamBeresnev/bracket-picks/internal/store"
	"github.com/AdamBeresnev/bracket-picks/internal/utils"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type TournamentService struct {
	tournaments *store.TournamentStore
	matchups    *store.MatchupStore
	hub         Broadcaster
	layout      bracket.Layout
	now         func() time.Time
	rng         *rand.Rand
}

func NewTournamentService(tournaments *store.TournamentStore, matchups *store.MatchupStore, hub Broadcaster) *TournamentService {
	return &TournamentService{
		tournaments: tournaments,
		matchups:    matchups,
		hub:         broadcasterOrNop(hub),
		layout:      bracket.DefaultLayout,
		now:         utcNow,
	}
}

type CreateTournamentInput struct {
	Name   string     `json:"name"`
	Year   int        `json:"year"`
	Slug   string     `json:"slug"`
	LockAt *time.Time `json:"lockAt"`
}

func (s *TournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*bracket.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validation("tournament name is required")
	}
	if input.Year < 1900 || input.Year > 3000 {
		return nil, apperrors.Validationf("year %d is out of range", input.Year)
	}

	tournamentSlug := slug.Make(input.Slug)
	if tournamentSlug == "" {
		tournamentSlug = slug.Make(fmt.Sprintf("%s %d", name, input.Year))
	}

	tournament := &bracket.Tournament{
		ID:        uuid.New(),
		Name:      name,
		Year:      input.Year,
		Slug:      tournamentSlug,
		CreatedAt: s.now(),
		LockAt:    input.LockAt,
	}
	if tournament.LockAt != nil {
		utc := tournament.LockAt.UTC()
		tournament.LockAt = &utc
	}

	if err := s.tournaments.CreateTournament(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	return s.tournaments.ListTournaments(ctx)
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	return s.tournaments.GetTournament(ctx, id)
}

func (s *TournamentService) GetTournamentBySlug(ctx context.Context, tournamentSlug string) (*bracket.Tournament, error) {
	return s.tournaments.GetTournamentBySlug(ctx, tournamentSlug)
}

// ActiveTournament returns the one active tournament. Zero is NotFound, more than one is a Conflict.
func (s *TournamentService) ActiveTournament(ctx context.Context) (*bracket.Tournament, error) {
	active, err := s.tournaments.ListActiveTournaments(ctx)
	if err != nil {
		return nil, err
	}
	switch len(active) {
	case 0:
		return nil, apperrors.NotFound("no active tournament")
	case 1:
		return &active[0], nil
	default:
		return nil, apperrors.Conflictf("%d tournaments are active", len(active))
	}
}

func (s *TournamentService) Activate(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	if err := s.tournaments.ActivateTournament(ctx, id); err != nil {
		return nil, err
	}
	return s.tournaments.GetTournament(ctx, id)
}

type LockInput struct {
	ManualLock  *bool      `json:"manualLock"`
	LockAt      *time.Time `json:"lockAt"`
	ClearLockAt bool       `json:"clearLockAt"`
}

type LockStatus struct {
	TournamentID uuid.UUID  `json:"tournamentId"`
	Locked       bool       `json:"locked"`
	ManualLock   bool       `json:"manualLock"`
	LockAt       *time.Time `json:"lockAt"`
}

func NewLockStatus(t *bracket.Tournament, now time.Time) LockStatus {
	return LockStatus{
		TournamentID: t.ID,
		Locked:       t.Lock().IsLocked(now),
		ManualLock:   t.ManualLock,
		LockAt:       t.LockAt,
	}
}

func (s *TournamentService) LockStatus(ctx context.Context, id uuid.UUID) (LockStatus, error) {
	tournament, err := s.tournaments.GetTournament(ctx, id)
	if err != nil {
		return LockStatus{}, err
	}
	return NewLockStatus(tournament, s.now()), nil
}

// SetLock changes the manual lock and/or the lock time, then tells live clients.
func (s *TournamentService) SetLock(ctx context.Context, id uuid.UUID, input LockInput) (LockStatus, error) {
	if input.LockAt != nil && input.ClearLockAt {
		return LockStatus{}, apperrors.Validation("lockAt and clearLockAt cannot be combined")
	}

	tournament, err := s.tournaments.GetTournament(ctx, id)
	if err != nil {
		return LockStatus{}, err
	}

	if input.ManualLock != nil {
		tournament.ManualLock = *input.ManualLock
	}
	switch {
	case input.ClearLockAt:
		tournament.LockAt = nil
	case input.LockAt != nil:
		utc := input.LockAt.UTC()
		tournament.LockAt = &utc
	}

	if err := s.tournaments.UpdateLock(ctx, id, tournament.ManualLock, tournament.LockAt); err != nil {
		return LockStatus{}, err
	}

	status := NewLockStatus(tournament, s.now())
	s.hub.Broadcast(live.LockStatus, status)
	return status, nil
}

type TeamInput struct {
	Name      string  `json:"name"`
	Seed      *int    `json:"seed"`
	Region    *string `json:"region"`
	MediaLink string  `json:"mediaLink"`
}

type TeamView struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Seed      *int            `json:"seed"`
	Region    *bracket.Region `json:"region"`
	MediaLink *string         `json:"mediaLink"`
	Embed     media.Embed     `json:"embed"`
}

func newTeamView(t bracket.Team) TeamView {
	return TeamView{
		ID:        t.ID,
		Name:      t.Name,
		Seed:      t.Seed,
		Region:    t.Region,
		MediaLink: t.MediaLink,
		Embed:     media.Classify(t.MediaLink),
	}
}

func (s *TournamentService) AddTeams(ctx context.Context, tournamentID uuid.UUID, inputs []TeamInput) ([]TeamView, error) {
	if _, err := s.tournaments.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, apperrors.Validation("no teams given")
	}

	seen := make(map[string]bool, len(inputs))
	teams := make([]bracket.Team, 0, len(inputs))
	for i, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, apperrors.Validationf("team %d has no name", i+1)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, apperrors.Validationf("team %q is listed twice", name)
		}
		seen[key] = true

		if input.Seed != nil && *input.Seed < 1 {
			return nil, apperrors.Validationf("team %q has seed %d, seeds start at 1", name, *input.Seed)
		}

		team := bracket.Team{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Name:         name,
			Seed:         input.Seed,
		}
		if input.Region != nil && strings.TrimSpace(*input.Region) != "" {
			region, ok := s.parseRegion(*input.Region)
			if !ok {
				return nil, apperrors.Validationf("team %q has unknown region %q", name, *input.Region)
			}
			team.Region = &region
		}
		team.MediaLink = utils.StringOrNil(input.MediaLink)
		teams = append(teams, team)
	}

	if err := s.tournaments.CreateTeams(ctx, teams); err != nil {
		return nil, err
	}

	views := make([]TeamView, 0, len(teams))
	for _, t := range teams {
		views = append(views, newTeamView(t))
	}
	return views, nil
}

func (s *TournamentService) parseRegion(raw string) (bracket.Region, bool) {
	for _, region := range s.layout.Regions {
		if strings.EqualFold(string(region), strings.TrimSpace(raw)) {
			return region, true
		}
	}
	return "", false
}

func (s *TournamentService) ListTeams(ctx context.Context, tournamentID uuid.UUID) ([]TeamView, error) {
	teams, err := s.tournaments.GetTeams(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	views := make([]TeamView, 0, len(teams))
	for _, t := range teams {
		views = append(views, newTeamView(t))
	}
	return views, nil
}

func (s *TournamentService) WipeTeams(ctx context.Context, tournamentID uuid.UUID) (int64, error) {
	if _, err := s.tournaments.GetTournament(ctx, tournamentID); err != nil {
		return 0, err
	}
	return s.tournaments.DeleteTeams(ctx, tournamentID)
}

type GenerateInput struct {
	Mode bracket.GenerateMode `json:"mode"`
	// Wipe defaults to true when left out
	Wipe *bool `json:"wipe"`
}

// GenerateBracket builds the whole bracket from the tournament's teams and stores it.
func (s *TournamentService) GenerateBracket(ctx context.Context, tournamentID uuid.UUID, input GenerateInput) ([]bracket.Matchup, error) {
	mode := input.Mode
	if mode == "" {
		mode = bracket.Seeded
	}
	if mode != bracket.Seeded && mode != bracket.Random {
		return nil, apperrors.Validationf("unknown mode %q, use seeded or random", mode)
	}
	wipe := input.Wipe == nil || *input.Wipe

	if _, err := s.tournaments.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	teams, err := s.tournaments.GetTeams(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	matchups, err := bracket.GenerateSkeleton(s.layout, tournamentID, teams, mode, s.rng)
	if err != nil {
		if errors.Is(err, bracket.ErrBracketSize) {
			return nil, apperrors.Wrap(err, apperrors.ErrValidation, "cannot build a bracket from these teams")
		}
		return nil, err
	}

	if err := s.matchups.ReplaceMatchups(ctx, tournamentID, matchups, wipe); err != nil {
		return nil, err
	}

	s.hub.Broadcast(live.BracketGenerated, map[string]any{
		"tournamentId": tournamentID,
		"matchups":     len(matchups),
		"mode":         mode,
	})
	return matchups, nil
}
