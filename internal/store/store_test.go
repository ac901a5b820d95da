package store

import (
	"context"
	"testing"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	apperrors "github.com/AdamBeresnev/bracket-picks/internal/errors"
	"github.com/AdamBeresnev/bracket-picks/internal/testdb"
	users "github.com/AdamBeresnev/bracket-picks/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTournament(t *testing.T, db *sqlx.DB, slug string) *bracket.Tournament {
	t.Helper()
	return createTournamentYear(t, db, slug, 2026)
}

func createTournamentYear(t *testing.T, db *sqlx.DB, slug string, year int) *bracket.Tournament {
	t.Helper()
	tournament := &bracket.Tournament{
		ID:        uuid.New(),
		Name:      "March Madness",
		Year:      year,
		Slug:      slug,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, NewTournamentStore(db).CreateTournament(context.Background(), tournament))
	return tournament
}

func createUser(t *testing.T, db *sqlx.DB, name string) *users.User {
	t.Helper()
	user := &users.User{ID: uuid.New(), Email: name + "@example.com", DisplayName: name, Role: users.RoleUser, CreatedAt: time.Now().UTC()}
	require.NoError(t, NewUserStore(db).CreateUser(context.Background(), user))
	return user
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func fourTeamMatchups(tournamentID uuid.UUID) []bracket.Matchup {
	return []bracket.Matchup{
		{ID: uuid.New(), TournamentID: tournamentID, Region: bracket.East, Round: 1, MatchOrder: 1, TeamA: strPtr("A"), TeamB: strPtr("B"), SeedA: intPtr(1), SeedB: intPtr(4)},
		{ID: uuid.New(), TournamentID: tournamentID, Region: bracket.East, Round: 1, MatchOrder: 2, TeamA: strPtr("C"), TeamB: strPtr("D"), SeedA: intPtr(2), SeedB: intPtr(3)},
		{ID: uuid.New(), TournamentID: tournamentID, Region: bracket.East, Round: 2, MatchOrder: 1},
	}
}

func TestTournamentStore(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	s := NewTournamentStore(db)

	first := createTournament(t, db, "march-madness-2026")
	second := createTournamentYear(t, db, "march-madness-2027", 2027)

	t.Run("duplicate slug is a conflict", func(t *testing.T) {
		dup := &bracket.Tournament{ID: uuid.New(), Name: "x", Year: 2026, Slug: first.Slug, CreatedAt: time.Now()}
		err := s.CreateTournament(ctx, dup)
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	})

	t.Run("get", func(t *testing.T) {
		got, err := s.GetTournament(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Slug, got.Slug)
		assert.False(t, got.IsActive)
		assert.Nil(t, got.LockAt)

		_, err = s.GetTournament(ctx, uuid.New())
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

		bySlug, err := s.GetTournamentBySlug(ctx, first.Slug)
		require.NoError(t, err)
		assert.Equal(t, first.ID, bySlug.ID)

		_, err = s.GetTournamentBySlug(ctx, "nope")
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("activate leaves exactly one active", func(t *testing.T) {
		require.NoError(t, s.ActivateTournament(ctx, first.ID))
		require.NoError(t, s.ActivateTournament(ctx, second.ID))

		active, err := s.ListActiveTournaments(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, second.ID, active[0].ID)

		err = s.ActivateTournament(ctx, uuid.New())
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

		active, err = s.ListActiveTournaments(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 1, "failed activation rolls back")
	})

	t.Run("lock state round trip", func(t *testing.T) {
		lockAt := time.Date(2026, 3, 19, 16, 0, 0, 0, time.UTC)
		require.NoError(t, s.UpdateLock(ctx, first.ID, false, &lockAt))

		got, err := s.GetTournament(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LockAt)
		assert.True(t, lockAt.Equal(*got.LockAt))

		scheduled, err := s.ListScheduledLocks(ctx)
		require.NoError(t, err)
		require.Len(t, scheduled, 1)
		assert.Equal(t, first.ID, scheduled[0].ID)

		require.NoError(t, s.UpdateLock(ctx, first.ID, true, nil))
		got, err = s.GetTournament(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, got.ManualLock)
		assert.Nil(t, got.LockAt)

		assert.True(t, apperrors.Is(s.UpdateLock(ctx, uuid.New(), true, nil), apperrors.ErrNotFound))
	})

	t.Run("list", func(t *testing.T) {
		list, err := s.ListTournaments(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID, "newest year first")
	})
}

func TestTeams(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	s := NewTournamentStore(db)
	tournament := createTournament(t, db, "teams")

	east := bracket.East
	teams := []bracket.Team{
		{ID: uuid.New(), TournamentID: tournament.ID, Name: "Duke", Seed: intPtr(1), Region: &east, MediaLink: strPtr("https://youtu.be/abc")},
		{ID: uuid.New(), TournamentID: tournament.ID, Name: "Vermont", Seed: intPtr(16), Region: &east},
	}
	require.NoError(t, s.CreateTeams(ctx, teams))
	require.NoError(t, s.CreateTeams(ctx, nil))

	err := s.CreateTeams(ctx, []bracket.Team{{ID: uuid.New(), TournamentID: tournament.ID, Name: "Duke"}})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	got, err := s.GetTeams(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Duke", got[0].Name)
	assert.Equal(t, bracket.East, *got[0].Region)
	assert.Equal(t, "https://youtu.be/abc", *got[0].MediaLink)

	deleted, err := s.DeleteTeams(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestMatchupStore(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	s := NewMatchupStore(db)
	tournament := createTournament(t, db, "matchups")

	matchups := fourTeamMatchups(tournament.ID)
	require.NoError(t, s.ReplaceMatchups(ctx, tournament.ID, matchups, false))

	t.Run("second bracket without wipe conflicts", func(t *testing.T) {
		err := s.ReplaceMatchups(ctx, tournament.ID, fourTeamMatchups(tournament.ID), false)
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	})

	t.Run("list and get", func(t *testing.T) {
		got, err := s.GetMatchups(ctx, tournament.ID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "A", *got[0].TeamA)
		assert.Nil(t, got[2].TeamA)
		assert.Nil(t, got[2].Winner)

		one, err := s.GetMatchup(ctx, matchups[1].ID)
		require.NoError(t, err)
		assert.Equal(t, 2, *one.SeedA)

		_, err = s.GetMatchup(ctx, uuid.New())
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("set and clear outcome", func(t *testing.T) {
		winner := bracket.Team2
		require.NoError(t, s.SetOutcome(ctx, matchups[0].ID, &winner))

		got, err := s.GetMatchup(ctx, matchups[0].ID)
		require.NoError(t, err)
		require.NotNil(t, got.Winner)
		assert.Equal(t, bracket.Team2, *got.Winner)

		require.NoError(t, s.SetOutcome(ctx, matchups[0].ID, nil))
		got, err = s.GetMatchup(ctx, matchups[0].ID)
		require.NoError(t, err)
		assert.Nil(t, got.Winner)

		assert.True(t, apperrors.Is(s.SetOutcome(ctx, uuid.New(), &winner), apperrors.ErrNotFound))
	})

	t.Run("patch", func(t *testing.T) {
		require.NoError(t, s.PatchMatchup(ctx, matchups[2].ID, MatchupPatch{TeamA: strPtr("Placed"), SeedA: intPtr(5)}))
		require.NoError(t, s.PatchMatchup(ctx, matchups[2].ID, MatchupPatch{}))

		got, err := s.GetMatchup(ctx, matchups[2].ID)
		require.NoError(t, err)
		assert.Equal(t, "Placed", *got.TeamA)
		assert.Equal(t, 5, *got.SeedA)

		require.NoError(t, s.PatchMatchup(ctx, matchups[2].ID, MatchupPatch{TeamA: strPtr(""), SeedA: intPtr(0)}))
		got, err = s.GetMatchup(ctx, matchups[2].ID)
		require.NoError(t, err)
		assert.Nil(t, got.TeamA)
		assert.Nil(t, got.SeedA)

		err = s.PatchMatchup(ctx, matchups[1].ID, MatchupPatch{MatchOrder: intPtr(1)})
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

		err = s.PatchMatchup(ctx, uuid.New(), MatchupPatch{Round: intPtr(2)})
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("wipe replaces the bracket", func(t *testing.T) {
		fresh := fourTeamMatchups(tournament.ID)
		require.NoError(t, s.ReplaceMatchups(ctx, tournament.ID, fresh, true))

		got, err := s.GetMatchups(ctx, tournament.ID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, fresh[0].ID, got[0].ID)
	})
}

func TestPredictionStore(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	tournament := createTournament(t, db, "picks")
	matchups := fourTeamMatchups(tournament.ID)
	require.NoError(t, NewMatchupStore(db).ReplaceMatchups(ctx, tournament.ID, matchups, false))

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	s := NewPredictionStore(db)

	require.NoError(t, s.UpsertPrediction(ctx, &bracket.Prediction{UserID: alice.ID, MatchupID: matchups[0].ID, ChosenWinner: bracket.Team1}))
	require.NoError(t, s.UpsertPrediction(ctx, &bracket.Prediction{UserID: alice.ID, MatchupID: matchups[0].ID, ChosenWinner: bracket.Team2}))
	require.NoError(t, s.UpsertPrediction(ctx, &bracket.Prediction{UserID: bob.ID, MatchupID: matchups[1].ID, ChosenWinner: bracket.Team1}))

	all, err := s.GetPredictions(ctx, tournament.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2, "upsert keeps one pick per user and matchup")

	mine, err := s.GetPredictions(ctx, tournament.ID, &alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, bracket.Team2, mine[0].ChosenWinner)

	other := createTournament(t, db, "other")
	none, err := s.GetPredictions(ctx, other.ID, nil)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	deleted, err := s.DeletePredictions(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestUpsertPredictionsIsAllOrNothing(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	tournament := createTournament(t, db, "batch")
	matchups := fourTeamMatchups(tournament.ID)
	require.NoError(t, NewMatchupStore(db).ReplaceMatchups(ctx, tournament.ID, matchups, false))

	alice := createUser(t, db, "alice")
	s := NewPredictionStore(db)

	err := s.UpsertPredictions(ctx, []bracket.Prediction{
		{UserID: alice.ID, MatchupID: matchups[0].ID, ChosenWinner: bracket.Team1},
		{UserID: alice.ID, MatchupID: matchups[1].ID, ChosenWinner: bracket.Slot("team3")},
	})
	require.Error(t, err)

	stored, err := s.GetPredictions(ctx, tournament.ID, &alice.ID)
	require.NoError(t, err)
	assert.Empty(t, stored, "a failed batch leaves nothing behind")

	batch := []bracket.Prediction{
		{UserID: alice.ID, MatchupID: matchups[0].ID, ChosenWinner: bracket.Team1},
		{UserID: alice.ID, MatchupID: matchups[1].ID, ChosenWinner: bracket.Team2},
	}
	require.NoError(t, s.UpsertPredictions(ctx, batch))
	assert.NotEqual(t, uuid.Nil, batch[0].ID)
	assert.False(t, batch[1].UpdatedAt.IsZero())

	stored, err = s.GetPredictions(ctx, tournament.ID, &alice.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	require.NoError(t, s.UpsertPredictions(ctx, nil))
}

func TestUserStore(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	s := NewUserStore(db)

	provider, providerID := "discord", "1234"
	user := &users.User{
		ID:          uuid.New(),
		Email:       "sam@example.com",
		DisplayName: "Sam",
		Role:        users.RoleUser,
		Provider:    &provider,
		ProviderID:  &providerID,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByProvider(ctx, provider, providerID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.GetUserByProvider(ctx, provider, "nope")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	user.AvatarURL = strPtr("https://cdn.example.com/sam.png")
	user.Role = users.RoleAdmin
	require.NoError(t, s.UpdateProfile(ctx, user))
	require.NoError(t, s.UpdateDisplayName(ctx, user.ID, "Samwise"))

	got, err = s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Samwise", got.DisplayName)
	assert.Equal(t, users.RoleAdmin, got.Role)
	assert.Equal(t, "https://cdn.example.com/sam.png", *got.AvatarURL)

	require.NoError(t, s.UpdateRole(ctx, user.ID, users.RoleUser))
	assert.True(t, apperrors.Is(s.UpdateRole(ctx, uuid.New(), users.RoleUser), apperrors.ErrNotFound))
	assert.True(t, apperrors.Is(s.UpdateDisplayName(ctx, uuid.New(), "x"), apperrors.ErrNotFound))

	other := createUser(t, db, "zoe")
	names, err := s.DisplayNames(ctx, []uuid.UUID{user.ID, other.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{user.ID: "Samwise", other.ID: "zoe"}, names)

	empty, err := s.DisplayNames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	list, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
