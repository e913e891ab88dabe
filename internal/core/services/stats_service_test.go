package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

type recorderSpy struct {
	aggregates int
	grids      int
}

func (r *recorderSpy) ObserveAggregate(time.Duration) { r.aggregates++ }
func (r *recorderSpy) GridProjected()                 { r.grids++ }

func streakWithDates(id, userID string, dates ...domain.Date) *domain.Streak {
	s := &domain.Streak{ID: id, UserID: userID, Name: id, Color: domain.ColorBlue}
	for _, d := range dates {
		s.Completions = append(s.Completions, *domain.NewCompletion(id, userID, d))
	}
	return s
}

func TestStatsService_GetDashboard(t *testing.T) {
	ctx := context.Background()
	userID := "user-stats-1"
	now := time.Date(2024, 1, 12, 15, 0, 0, 0, time.UTC)
	today := domain.DateOf(now)

	t.Run("Success: Aggregates fresh repository data", func(t *testing.T) {
		repo := new(MockStreakRepo)
		spy := &recorderSpy{}
		svc := services.NewStatsService(repo).WithClock(func() time.Time { return now }, time.UTC).WithRecorder(spy)

		a := streakWithDates("water", userID, today, today.AddDays(-1))
		a.CurrentStreak, a.LongestStreak = 2, 4
		b := streakWithDates("read", userID, today)
		b.CurrentStreak, b.LongestStreak = 1, 1
		repo.On("ListByUserID", ctx, userID).Return([]*domain.Streak{a, b}, nil)

		dash, err := svc.GetDashboard(ctx, userID, domain.Date{})
		require.NoError(t, err)
		require.NotNil(t, dash.Snapshot)

		assert.Equal(t, today, dash.Snapshot.ReferenceDate)
		assert.Equal(t, 3, dash.Snapshot.TotalCompletions)
		assert.Equal(t, 3, dash.Snapshot.TotalCurrentStreak)
		assert.Equal(t, 21, dash.Snapshot.CompletionRate)
		require.Len(t, dash.Performance, 2)
		assert.Equal(t, 50, dash.Performance[0].Health)
		assert.Equal(t, 100, dash.Performance[1].Health)
		assert.Equal(t, 1, spy.aggregates)
	})

	t.Run("Success: Lapsed current runs are reported as zero", func(t *testing.T) {
		repo := new(MockStreakRepo)
		svc := services.NewStatsService(repo).WithClock(func() time.Time { return now }, time.UTC)

		stale := streakWithDates("stale", userID, today.AddDays(-5), today.AddDays(-4), today.AddDays(-3))
		stale.CurrentStreak, stale.LongestStreak, stale.DaysCompleted = 3, 3, 3
		repo.On("ListByUserID", ctx, userID).Return([]*domain.Streak{stale}, nil)

		dash, err := svc.GetDashboard(ctx, userID, domain.Date{})
		require.NoError(t, err)

		assert.Equal(t, 0, dash.Snapshot.TotalCurrentStreak)
		assert.Equal(t, 3, dash.Snapshot.LongestStreak)
		require.Len(t, dash.Performance, 1)
		assert.Equal(t, 0, dash.Performance[0].Current)
		assert.Equal(t, 0, dash.Performance[0].Health)
		assert.Equal(t, 3, stale.CurrentStreak)
	})

	t.Run("Success: Explicit reference date wins over the clock", func(t *testing.T) {
		repo := new(MockStreakRepo)
		svc := services.NewStatsService(repo).WithClock(func() time.Time { return now }, nil)

		repo.On("ListByUserID", ctx, userID).Return([]*domain.Streak{streakWithDates("x", userID)}, nil)

		ref := domain.NewDate(2023, 12, 31)
		dash, err := svc.GetDashboard(ctx, userID, ref)
		require.NoError(t, err)
		assert.Equal(t, ref, dash.Snapshot.ReferenceDate)
	})

	t.Run("Success: No streaks yields an empty snapshot, not an error", func(t *testing.T) {
		repo := new(MockStreakRepo)
		svc := services.NewStatsService(repo)

		repo.On("ListByUserID", ctx, userID).Return([]*domain.Streak{}, nil)

		dash, err := svc.GetDashboard(ctx, userID, domain.Date{})
		require.NoError(t, err)
		assert.Nil(t, dash.Snapshot)
		assert.Empty(t, dash.Performance)
	})

	t.Run("Fail: Propagates DB error", func(t *testing.T) {
		repo := new(MockStreakRepo)
		svc := services.NewStatsService(repo)

		repo.On("ListByUserID", ctx, userID).Return(nil, errors.New("db connection lost"))

		_, err := svc.GetDashboard(ctx, userID, domain.Date{})
		assert.Error(t, err)
		assert.Equal(t, "db connection lost", err.Error())
	})
}

func TestStatsService_GetGrid(t *testing.T) {
	ctx := context.Background()
	ref := domain.NewDate(2024, 1, 4)

	t.Run("Success: Projects the streak onto the requested grid", func(t *testing.T) {
		repo := new(MockStreakRepo)
		spy := &recorderSpy{}
		svc := services.NewStatsService(repo).WithRecorder(spy)

		repo.On("GetByID", ctx, "s1").Return(streakWithDates("s1", "u1", ref, ref.AddDays(-2), ref.AddDays(-30)), nil)

		view, err := svc.GetGrid(ctx, services.GridInput{StreakID: "s1", UserID: "u1", SizeX: 2, SizeY: 2, ReferenceDate: ref})
		require.NoError(t, err)

		require.Len(t, view.Cells, 2)
		assert.Equal(t, domain.NewDate(2024, 1, 1), view.Cells[0][0].Date)
		assert.True(t, view.Cells[0][1].Completed)
		assert.True(t, view.Cells[1][1].Completed)
		assert.Equal(t, 2, view.Completed)
		assert.Equal(t, "bg-blue-500", view.Style.Bright)
		assert.Equal(t, "Ocean", view.ColorName)
		assert.Equal(t, "bg-blue-500", view.Cells[1][1].Class)
		assert.Equal(t, domain.EmptyBlockClass, view.Cells[1][0].Class)
		assert.Equal(t, 1, spy.grids)
	})

	t.Run("Security: Other users' streaks are not found", func(t *testing.T) {
		repo := new(MockStreakRepo)
		svc := services.NewStatsService(repo)

		repo.On("GetByID", ctx, "s1").Return(streakWithDates("s1", "owner"), nil)

		_, err := svc.GetGrid(ctx, services.GridInput{StreakID: "s1", UserID: "intruder", SizeX: 7, SizeY: 7, ReferenceDate: ref})
		assert.ErrorIs(t, err, domain.ErrStreakNotFound)
	})

	t.Run("Fail: Negative size", func(t *testing.T) {
		repo := new(MockStreakRepo)
		svc := services.NewStatsService(repo)

		repo.On("GetByID", ctx, "s1").Return(streakWithDates("s1", "u1"), nil)

		_, err := svc.GetGrid(ctx, services.GridInput{StreakID: "s1", UserID: "u1", SizeX: -1, SizeY: 7, ReferenceDate: ref})
		assert.ErrorIs(t, err, domain.ErrInvalidGridSize)
	})

	t.Run("Fail: Oversized grid is rejected before touching the repository", func(t *testing.T) {
		repo := new(MockStreakRepo)
		svc := services.NewStatsService(repo)

		_, err := svc.GetGrid(ctx, services.GridInput{StreakID: "s1", UserID: "u1", SizeX: 100, SizeY: 100, ReferenceDate: ref})
		assert.ErrorIs(t, err, domain.ErrInvalidGridSize)
		repo.AssertNotCalled(t, "GetByID")
	})

	t.Run("Success: Zero size yields an empty grid", func(t *testing.T) {
		repo := new(MockStreakRepo)
		svc := services.NewStatsService(repo)

		repo.On("GetByID", ctx, "s1").Return(streakWithDates("s1", "u1", ref), nil)

		view, err := svc.GetGrid(ctx, services.GridInput{StreakID: "s1", UserID: "u1", SizeX: 0, SizeY: 7, ReferenceDate: ref})
		require.NoError(t, err)
		assert.Empty(t, view.Cells)
		assert.Equal(t, 0, view.Completed)
	})
}
