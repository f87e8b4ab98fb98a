package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// AttemptRepository records catch attempts.
type AttemptRepository interface {
	// Record stores one resolved attempt.
	Record(ctx context.Context, attempt *models.CatchAttempt) error

	// Recent returns up to limit attempts, newest first.
	Recent(ctx context.Context, limit int) ([]*models.CatchAttempt, error)

	// SummaryByStage aggregates attempts and successes per stage.
	SummaryByStage(ctx context.Context) ([]models.StageSummary, error)
}

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new catch attempt repository.
func NewAttemptRepository(db *sql.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Record(ctx context.Context, a *models.CatchAttempt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO catch_attempts (id, pokemon_id, name, stage, chance, roll, success, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.PokemonID, a.Name, a.Stage, a.Chance, a.Roll, a.Success, a.AttemptedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record attempt %s: %w", a.ID, err)
	}
	return nil
}

func (r *attemptRepository) Recent(ctx context.Context, limit int) ([]*models.CatchAttempt, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pokemon_id, name, stage, chance, roll, success, attempted_at
		FROM catch_attempts
		ORDER BY attempted_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var attempts []*models.CatchAttempt
	for rows.Next() {
		a := &models.CatchAttempt{}
		if err := rows.Scan(&a.ID, &a.PokemonID, &a.Name, &a.Stage, &a.Chance, &a.Roll, &a.Success, &a.AttemptedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}
	return attempts, nil
}

func (r *attemptRepository) SummaryByStage(ctx context.Context) ([]models.StageSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT stage, COUNT(*), COALESCE(SUM(success), 0)
		FROM catch_attempts
		GROUP BY stage
		ORDER BY stage
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize attempts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var summaries []models.StageSummary
	for rows.Next() {
		var s models.StageSummary
		if err := rows.Scan(&s.Stage, &s.Attempts, &s.Successes); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summaries: %w", err)
	}
	return summaries, nil
}
