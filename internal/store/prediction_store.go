package store

import (
	"context"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PredictionStore struct {
	db *sqlx.DB
}

const predictionColumns = "p.id, p.user_id, p.matchup_id, p.chosen_winner, p.updated_at"

func NewPredictionStore(db *sqlx.DB) *PredictionStore {
	return &PredictionStore{db: db}
}

// GetPredictions lists the picks on a tournament's matchups. A nil userID means every predictor.
func (s *PredictionStore) GetPredictions(ctx context.Context, tournamentID uuid.UUID, userID *uuid.UUID) ([]bracket.Prediction, error) {
	query := "SELECT " + predictionColumns + ` FROM picks p
		JOIN matchups m ON m.id = p.matchup_id
		WHERE m.tournament_id = ?`
	args := []any{tournamentID}
	if userID != nil {
		query += " AND p.user_id = ?"
		args = append(args, *userID)
	}
	query += " ORDER BY p.user_id, m.region, m.round, m.match_order"

	predictions := []bracket.Prediction{}
	err := s.db.SelectContext(ctx, &predictions, s.db.Rebind(query), args...)
	return predictions, err
}

// UpsertPrediction creates the pick or replaces the chosen slot of the existing one.
func (s *PredictionStore) UpsertPrediction(ctx context.Context, p *bracket.Prediction) error {
	return upsertPrediction(ctx, s.db, p, time.Now().UTC())
}

// UpsertPredictions writes a batch of picks in one transaction, so either all of them land or none do.
func (s *PredictionStore) UpsertPredictions(ctx context.Context, predictions []bracket.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i := range predictions {
		if err := upsertPrediction(ctx, tx, &predictions[i], now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func upsertPrediction(ctx context.Context, db sqlx.ExtContext, p *bracket.Prediction, now time.Time) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.UpdatedAt = now

	_, err := db.ExecContext(ctx, db.Rebind(`INSERT INTO picks (id, user_id, matchup_id, chosen_winner, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, matchup_id) DO UPDATE SET chosen_winner = excluded.chosen_winner, updated_at = excluded.updated_at`),
		p.ID, p.UserID, p.MatchupID, p.ChosenWinner, p.UpdatedAt, p.UpdatedAt)
	return err
}

// DeletePredictions removes every pick of a tournament and returns how many went.
func (s *PredictionStore) DeletePredictions(ctx context.Context, tournamentID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("DELETE FROM picks WHERE matchup_id IN (SELECT id FROM matchups WHERE tournament_id = ?)"), tournamentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
