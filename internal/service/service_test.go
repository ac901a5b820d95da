package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	"github.com/AdamBeresnev/bracket-picks/internal/metrics"
	"github.com/AdamBeresnev/bracket-picks/internal/store"
	"github.com/AdamBeresnev/bracket-picks/internal/testdb"
	users "github.com/AdamBeresnev/bracket-picks/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type broadcast struct {
	msgType string
	payload any
}

type recordingHub struct {
	mu   sync.Mutex
	sent []broadcast
}

func (h *recordingHub) Broadcast(msgType string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, broadcast{msgType: msgType, payload: payload})
}

func (h *recordingHub) last() broadcast {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.sent) == 0 {
		return broadcast{}
	}
	return h.sent[len(h.sent)-1]
}

type fixture struct {
	db          *sqlx.DB
	hub         *recordingHub
	metrics     *metrics.Metrics
	tournaments *store.TournamentStore
	matchups    *store.MatchupStore
	predictions *store.PredictionStore
	users       *store.UserStore

	tournamentSvc  *TournamentService
	bracketSvc     *BracketService
	pickSvc        *PickService
	matchSvc       *MatchService
	leaderboardSvc *LeaderboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)

	f := &fixture{
		db:          db,
		hub:         &recordingHub{},
		metrics:     metrics.New(),
		tournaments: store.NewTournamentStore(db),
		matchups:    store.NewMatchupStore(db),
		predictions: store.NewPredictionStore(db),
		users:       store.NewUserStore(db),
	}
	f.tournamentSvc = NewTournamentService(f.tournaments, f.matchups, f.hub)
	f.bracketSvc = NewBracketService(f.tournaments, f.matchups, f.predictions)
	f.pickSvc = NewPickService(f.tournaments, f.matchups, f.predictions, f.metrics)
	f.matchSvc = NewMatchService(f.matchups, f.hub, f.metrics)
	f.leaderboardSvc = NewLeaderboardService(f.tournaments, f.matchups, f.predictions, f.users, f.metrics)
	return f
}

func (f *fixture) createTournament(t *testing.T, name string) *bracket.Tournament {
	t.Helper()
	tournament, err := f.tournamentSvc.CreateTournament(context.Background(), CreateTournamentInput{Name: name, Year: 2026})
	require.NoError(t, err)
	return tournament
}

func (f *fixture) createUser(t *testing.T, name string) *users.User {
	t.Helper()
	user := &users.User{ID: uuid.New(), Email: name + "@example.com", DisplayName: name, Role: users.RoleUser, CreatedAt: time.Now().UTC()}
	require.NoError(t, f.users.CreateUser(context.Background(), user))
	return user
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// Four teams in one region: A-B and C-D in round 1, their winners in round 2.
func (f *fixture) fourTeamBracket(t *testing.T, tournamentID uuid.UUID) []bracket.Matchup {
	t.Helper()
	matchups := []bracket.Matchup{
		{ID: uuid.New(), TournamentID: tournamentID, Region: bracket.East, Round: 1, MatchOrder: 1, TeamA: strPtr("A"), TeamB: strPtr("B"), SeedA: intPtr(1), SeedB: intPtr(4)},
		{ID: uuid.New(), TournamentID: tournamentID, Region: bracket.East, Round: 1, MatchOrder: 2, TeamA: strPtr("C"), TeamB: strPtr("D"), SeedA: intPtr(2), SeedB: intPtr(3)},
		{ID: uuid.New(), TournamentID: tournamentID, Region: bracket.East, Round: 2, MatchOrder: 1},
	}
	require.NoError(t, f.matchups.ReplaceMatchups(context.Background(), tournamentID, matchups, true))
	return matchups
}

func pick(m bracket.Matchup, slot bracket.Slot) PickInput {
	return PickInput{MatchupID: m.ID, ChosenWinner: slot}
}
