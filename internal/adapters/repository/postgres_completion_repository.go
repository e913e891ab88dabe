package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

const completionColumns = `id, streak_id, user_id, date_completed, day_of_week, created_at`

type PostgresCompletionRepository struct {
	db *sqlx.DB
}

func NewPostgresCompletionRepository(db *sqlx.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

func (r *PostgresCompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.DayOfWeek = c.Weekday()

	query := `
		INSERT INTO completions (` + completionColumns + `)
		VALUES (:id, :streak_id, :user_id, :date_completed, :day_of_week, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCompletion
		}
		if isForeignKeyViolation(err) {
			return domain.ErrStreakNotFound
		}
		return fmt.Errorf("failed to insert completion: %w", err)
	}
	return nil
}

func (r *PostgresCompletionRepository) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	var c domain.Completion
	query := `SELECT ` + completionColumns + ` FROM completions WHERE id = $1`

	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCompletionRepository) ListByStreakID(ctx context.Context, streakID string) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `
		SELECT ` + completionColumns + ` FROM completions
		WHERE streak_id = $1
		ORDER BY date_completed ASC`

	if err := r.db.SelectContext(ctx, &completions, query, streakID); err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *PostgresCompletionRepository) Delete(ctx context.Context, id string, userID string) error {
	query := `
		DELETE FROM completions
		WHERE id = $1
		  AND user_id = $2 -- Security Check`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	return expectOneRow(result, domain.ErrCompletionNotFound)
}
