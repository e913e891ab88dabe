package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

func testDSN() string {
	_ = godotenv.Load("../../../.env")

	get := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		get("DB_USER", "kanso_user"),
		get("DB_PASSWORD", "secret"),
		get("DB_HOST", "localhost"),
		get("DB_PORT", "5432"),
		get("DB_NAME", "kanso_db"),
	)
}

func setupTestDB(t *testing.T) *sqlx.DB {
	db, err := sqlx.Connect("pgx", testDSN())
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}
	require.NoError(t, CreateSchema(context.Background(), db))
	return db
}

// setupTestSQLDB opens the same database through lib/pq, the way the user repository is wired.
func setupTestSQLDB(t *testing.T) *sql.DB {
	db, err := sql.Open("postgres", testDSN())
	if err != nil {
		t.Skipf("Skipping integration tests: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("Skipping integration tests: database ping failed: %v", err)
	}
	return db
}

func insertUser(t *testing.T, db *sqlx.DB) string {
	id := uuid.NewString()
	_, err := db.Exec(`INSERT INTO users (id, email, name, provider, subject, created_at, updated_at)
		VALUES ($1, $2, 'Fixture', 'google', $1, NOW(), NOW())`, id, fmt.Sprintf("fixture_%s@kanso.app", id))
	require.NoError(t, err, "Failed to create user fixture")

	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func TestPostgresStreakRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPostgresStreakRepository(db)
	completions := NewPostgresCompletionRepository(db)
	ctx := context.Background()

	userID := insertUser(t, db)
	start := domain.NewDate(2024, time.January, 1)

	streak, err := domain.NewStreak(userID, "Integration Streak", "emerald", start)
	require.NoError(t, err)

	t.Run("1. Create", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, streak))
	})

	t.Run("2. GetByID round-trips the date-only start", func(t *testing.T) {
		fetched, err := repo.GetByID(ctx, streak.ID)
		require.NoError(t, err)

		assert.Equal(t, "Integration Streak", fetched.Name)
		assert.Equal(t, domain.ColorEmerald, fetched.Color)
		assert.Equal(t, start, fetched.StartDate)
		assert.True(t, fetched.IsActive)
		assert.NotNil(t, fetched.Completions)
	})

	t.Run("3. Color is unique per user", func(t *testing.T) {
		dup, err := domain.NewStreak(userID, "Another", "emerald", start)
		require.NoError(t, err)

		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrStreakColorTaken)
	})

	t.Run("4. ListByUserID nests completions", func(t *testing.T) {
		other, err := domain.NewStreak(userID, "Second", "sky", start)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, other))

		require.NoError(t, completions.Create(ctx, domain.NewCompletion(streak.ID, userID, start.AddDays(1))))
		require.NoError(t, completions.Create(ctx, domain.NewCompletion(streak.ID, userID, start)))
		require.NoError(t, completions.Create(ctx, domain.NewCompletion(other.ID, userID, start)))

		list, err := repo.ListByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 2)

		byID := map[string]*domain.Streak{}
		for _, s := range list {
			byID[s.ID] = s
		}
		require.Len(t, byID[streak.ID].Completions, 2)
		assert.Equal(t, start, byID[streak.ID].Completions[0].DateCompleted)
		assert.Len(t, byID[other.ID].Completions, 1)
	})

	t.Run("5. Update and UpdateStats", func(t *testing.T) {
		require.NoError(t, streak.Update("Renamed", "lime", false))
		require.NoError(t, repo.Update(ctx, streak))

		require.NoError(t, streak.SetStats(2, 5, 7))
		require.NoError(t, repo.UpdateStats(ctx, streak))

		fetched, err := repo.GetByID(ctx, streak.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", fetched.Name)
		assert.Equal(t, domain.ColorLime, fetched.Color)
		assert.False(t, fetched.IsActive)
		assert.Equal(t, 2, fetched.CurrentStreak)
		assert.Equal(t, 5, fetched.LongestStreak)
		assert.Equal(t, 7, fetched.DaysCompleted)
	})

	t.Run("6. Delete cascades to completions", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, streak.ID))

		_, err := repo.GetByID(ctx, streak.ID)
		assert.ErrorIs(t, err, domain.ErrStreakNotFound)

		left, err := completions.ListByStreakID(ctx, streak.ID)
		require.NoError(t, err)
		assert.Empty(t, left)

		assert.ErrorIs(t, repo.Delete(ctx, streak.ID), domain.ErrStreakNotFound)
	})

	t.Run("7. Unknown user is rejected", func(t *testing.T) {
		orphan, err := domain.NewStreak(uuid.NewString(), "Orphan", "red", start)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, orphan), domain.ErrUserNotFound)
	})
}

func TestPostgresCompletionRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	streaks := NewPostgresStreakRepository(db)
	repo := NewPostgresCompletionRepository(db)
	ctx := context.Background()

	userID := insertUser(t, db)
	streak, err := domain.NewStreak(userID, "Completions", "indigo", domain.NewDate(2024, time.May, 1))
	require.NoError(t, err)
	require.NoError(t, streaks.Create(ctx, streak))

	sunday := domain.NewDate(2024, time.May, 5)
	c := domain.NewCompletion(streak.ID, userID, sunday)

	t.Run("Create stores the ISO weekday", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, c))

		fetched, err := repo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, sunday, fetched.DateCompleted)
		assert.Equal(t, 6, fetched.DayOfWeek)
		assert.Equal(t, streak.ID, fetched.StreakID)
	})

	t.Run("Second completion on the same day is a duplicate", func(t *testing.T) {
		err := repo.Create(ctx, domain.NewCompletion(streak.ID, userID, sunday))
		assert.ErrorIs(t, err, domain.ErrDuplicateCompletion)
	})

	t.Run("Unknown streak is rejected", func(t *testing.T) {
		err := repo.Create(ctx, domain.NewCompletion(uuid.NewString(), userID, sunday))
		assert.ErrorIs(t, err, domain.ErrStreakNotFound)
	})

	t.Run("Delete requires the owner", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, c.ID, "someone-else"), domain.ErrCompletionNotFound)
		require.NoError(t, repo.Delete(ctx, c.ID, userID))

		_, err := repo.GetByID(ctx, c.ID)
		assert.ErrorIs(t, err, domain.ErrCompletionNotFound)
	})
}
