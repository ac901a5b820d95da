package store

import (
	"context"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentStore struct {
	db *sqlx.DB
}

const (
	tournamentColumns = "id, name, year, slug, is_active, is_locked_manual, lock_at, created_at"
	teamColumns       = "id, tournament_id, name, seed, region, media_link"
)

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tournament *bracket.Tournament) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO tournaments (id, name, year, slug, is_active, is_locked_manual, lock_at, created_at)
        VALUES (:id, :name, :year, :slug, :is_active, :is_locked_manual, :lock_at, :created_at)`, tournament)
	return conflict(err, "a tournament with this slug already exists")
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := s.db.GetContext(ctx, &tournament, s.db.Rebind("SELECT "+tournamentColumns+" FROM tournaments WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err, "tournament")
	}
	return &tournament, nil
}

func (s *TournamentStore) GetTournamentBySlug(ctx context.Context, slug string) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := s.db.GetContext(ctx, &tournament, s.db.Rebind("SELECT "+tournamentColumns+" FROM tournaments WHERE slug = ?"), slug)
	if err != nil {
		return nil, notFound(err, "tournament")
	}
	return &tournament, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	tournaments := []bracket.Tournament{}
	err := s.db.SelectContext(ctx, &tournaments, "SELECT "+tournamentColumns+" FROM tournaments ORDER BY year DESC, created_at DESC")
	return tournaments, err
}

func (s *TournamentStore) ListActiveTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	tournaments := []bracket.Tournament{}
	err := s.db.SelectContext(ctx, &tournaments, s.db.Rebind("SELECT "+tournamentColumns+" FROM tournaments WHERE is_active = ?"), true)
	return tournaments, err
}

// ActivateTournament makes id the only active tournament.
func (s *TournamentStore) ActivateTournament(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind("UPDATE tournaments SET is_active = ? WHERE is_active = ?"), false, true); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, tx.Rebind("UPDATE tournaments SET is_active = ? WHERE id = ?"), true, id)
	if err != nil {
		return err
	}
	if err := requireAffected(res, "tournament"); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *TournamentStore) UpdateLock(ctx context.Context, id uuid.UUID, manual bool, lockAt *time.Time) error {
	if lockAt != nil {
		utc := lockAt.UTC()
		lockAt = &utc
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE tournaments SET is_locked_manual = ?, lock_at = ? WHERE id = ?"), manual, lockAt, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "tournament")
}

// ListScheduledLocks returns tournaments that are not locked by hand but have a lock time.
func (s *TournamentStore) ListScheduledLocks(ctx context.Context) ([]bracket.Tournament, error) {
	tournaments := []bracket.Tournament{}
	err := s.db.SelectContext(ctx, &tournaments,
		s.db.Rebind("SELECT "+tournamentColumns+" FROM tournaments WHERE is_locked_manual = ? AND lock_at IS NOT NULL"), false)
	return tournaments, err
}

func (s *TournamentStore) CreateTeams(ctx context.Context, teams []bracket.Team) error {
	if len(teams) == 0 {
		return nil
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO teams (id, tournament_id, name, seed, region, media_link)
            VALUES (:id, :tournament_id, :name, :seed, :region, :media_link)`, teams)
	return conflict(err, "a team with this name already exists")
}

func (s *TournamentStore) GetTeams(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Team, error) {
	teams := []bracket.Team{}
	err := s.db.SelectContext(ctx, &teams,
		s.db.Rebind("SELECT "+teamColumns+" FROM teams WHERE tournament_id = ? ORDER BY region, seed, name"), tournamentID)
	return teams, err
}

func (s *TournamentStore) DeleteTeams(ctx context.Context, tournamentID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM teams WHERE tournament_id = ?"), tournamentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
