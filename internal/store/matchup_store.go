package store

import (
	"context"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchupStore struct {
	db *sqlx.DB
}

const matchupColumns = "id, tournament_id, region, round, match_order, team_a, team_b, seed_a, seed_b, winner, updated_at"

func NewMatchupStore(db *sqlx.DB) *MatchupStore {
	return &MatchupStore{db: db}
}

func (s *MatchupStore) GetMatchups(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Matchup, error) {
	matchups := []bracket.Matchup{}
	err := s.db.SelectContext(ctx, &matchups,
		s.db.Rebind("SELECT "+matchupColumns+" FROM matchups WHERE tournament_id = ? ORDER BY region, round, match_order"), tournamentID)
	return matchups, err
}

func (s *MatchupStore) GetMatchup(ctx context.Context, id uuid.UUID) (*bracket.Matchup, error) {
	var m bracket.Matchup
	err := s.db.GetContext(ctx, &m, s.db.Rebind("SELECT "+matchupColumns+" FROM matchups WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err, "matchup")
	}
	return &m, nil
}

// ReplaceMatchups stores a freshly generated bracket. With wipe the old matchups (and their picks) go first.
func (s *MatchupStore) ReplaceMatchups(ctx context.Context, tournamentID uuid.UUID, matchups []bracket.Matchup, wipe bool) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if wipe {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM matchups WHERE tournament_id = ?"), tournamentID); err != nil {
			return err
		}
	}

	if err := s.createMatchups(ctx, tx, matchups); err != nil {
		return conflict(err, "the tournament already has a bracket")
	}

	return tx.Commit()
}

func (s *MatchupStore) createMatchups(ctx context.Context, tx *sqlx.Tx, matchups []bracket.Matchup) error {
	if len(matchups) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range matchups {
		matchups[i].UpdatedAt = now
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO matchups (id, tournament_id, region, round, match_order, team_a, team_b, seed_a, seed_b, winner, updated_at)
		VALUES (:id, :tournament_id, :region, :round, :match_order, :team_a, :team_b, :seed_a, :seed_b, :winner, :updated_at)`, matchups)
	return err
}

// SetOutcome records the winning slot, or clears it when winner is nil.
func (s *MatchupStore) SetOutcome(ctx context.Context, id uuid.UUID, winner *bracket.Slot) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE matchups SET winner = ?, updated_at = ? WHERE id = ?"), winner, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res, "matchup")
}

// MatchupPatch changes only the fields that are set. An empty team name or a seed below 1 clears the value.
type MatchupPatch struct {
	Round      *int
	MatchOrder *int
	TeamA      *string
	TeamB      *string
	SeedA      *int
	SeedB      *int
}

func (p MatchupPatch) Empty() bool {
	return p.Round == nil && p.MatchOrder == nil && p.TeamA == nil && p.TeamB == nil && p.SeedA == nil && p.SeedB == nil
}

func (p MatchupPatch) values() map[string]any {
	values := map[string]any{}
	if p.Round != nil {
		values["round"] = *p.Round
	}
	if p.MatchOrder != nil {
		values["match_order"] = *p.MatchOrder
	}
	if p.TeamA != nil {
		values["team_a"] = nullString(*p.TeamA)
	}
	if p.TeamB != nil {
		values["team_b"] = nullString(*p.TeamB)
	}
	if p.SeedA != nil {
		values["seed_a"] = nullSeed(*p.SeedA)
	}
	if p.SeedB != nil {
		values["seed_b"] = nullSeed(*p.SeedB)
	}
	return values
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullSeed(seed int) *int {
	if seed < 1 {
		return nil
	}
	return &seed
}

func (s *MatchupStore) PatchMatchup(ctx context.Context, id uuid.UUID, patch MatchupPatch) error {
	if patch.Empty() {
		return nil
	}

	query, args, err := squirrel.Update("matchups").
		SetMap(patch.values()).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(placeholder(s.db)).
		ToSql()
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return conflict(err, "another matchup already has this position")
	}
	return requireAffected(res, "matchup")
}

func placeholder(db *sqlx.DB) squirrel.PlaceholderFormat {
	if sqlx.BindType(db.DriverName()) == sqlx.DOLLAR {
		return squirrel.Dollar
	}
	return squirrel.Question
}
