package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const streakColumns = `id, user_id, name, color, is_active, start_date,
	current_streak, longest_streak, days_completed, created_at, updated_at`

type PostgresStreakRepository struct {
	db *sqlx.DB
}

func NewPostgresStreakRepository(db *sqlx.DB) *PostgresStreakRepository {
	return &PostgresStreakRepository{db: db}
}

func (r *PostgresStreakRepository) Create(ctx context.Context, s *domain.Streak) error {
	query := `
		INSERT INTO streaks (` + streakColumns + `)
		VALUES (
			:id, :user_id, :name, :color, :is_active, :start_date,
			:current_streak, :longest_streak, :days_completed, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrStreakColorTaken
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert streak: %w", err)
	}

	if s.Completions == nil {
		s.Completions = []domain.Completion{}
	}
	return nil
}

func (r *PostgresStreakRepository) GetByID(ctx context.Context, id string) (*domain.Streak, error) {
	var s domain.Streak
	query := `SELECT ` + streakColumns + ` FROM streaks WHERE id = $1`

	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStreakNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	completions := []domain.Completion{}
	cQuery := `SELECT ` + completionColumns + ` FROM completions
		WHERE streak_id = $1
		ORDER BY date_completed ASC, created_at ASC`
	if err := r.db.SelectContext(ctx, &completions, cQuery, id); err != nil {
		return nil, fmt.Errorf("completions query error: %w", err)
	}
	s.Completions = completions

	return &s, nil
}

// ListByUserID loads the user's streaks and all of their completions in two queries.
func (r *PostgresStreakRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Streak, error) {
	streaks := []*domain.Streak{}
	query := `SELECT ` + streakColumns + ` FROM streaks
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`

	if err := r.db.SelectContext(ctx, &streaks, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	if len(streaks) == 0 {
		return streaks, nil
	}

	var completions []domain.Completion
	cQuery := `SELECT ` + completionColumns + ` FROM completions
		WHERE user_id = $1
		ORDER BY date_completed ASC, created_at ASC`
	if err := r.db.SelectContext(ctx, &completions, cQuery, userID); err != nil {
		return nil, fmt.Errorf("completions query error: %w", err)
	}

	byStreak := make(map[string][]domain.Completion, len(streaks))
	for _, c := range completions {
		byStreak[c.StreakID] = append(byStreak[c.StreakID], c)
	}
	for _, s := range streaks {
		s.Completions = byStreak[s.ID]
		if s.Completions == nil {
			s.Completions = []domain.Completion{}
		}
	}

	return streaks, nil
}

func (r *PostgresStreakRepository) Update(ctx context.Context, s *domain.Streak) error {
	query := `
		UPDATE streaks
		SET name = $1, color = $2, is_active = $3, updated_at = $4
		WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query, s.Name, s.Color, s.IsActive, s.UpdatedAt, s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrStreakColorTaken
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	return expectOneRow(res, domain.ErrStreakNotFound)
}

func (r *PostgresStreakRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM streaks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	return expectOneRow(res, domain.ErrStreakNotFound)
}

func (r *PostgresStreakRepository) UpdateStats(ctx context.Context, s *domain.Streak) error {
	query := `
		UPDATE streaks
		SET current_streak = $1, longest_streak = $2, days_completed = $3, updated_at = $4
		WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query, s.CurrentStreak, s.LongestStreak, s.DaysCompleted, s.UpdatedAt, s.ID)
	if err != nil {
		return fmt.Errorf("update stats query failed: %w", err)
	}

	return expectOneRow(res, domain.ErrStreakNotFound)
}

func expectOneRow(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
