package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

func day(y int, m time.Month, d int) domain.Date {
	return domain.NewDate(y, m, d)
}

func TestProject(t *testing.T) {
	t.Run("Success: 2x2 grid fills columns top to bottom", func(t *testing.T) {
		completions := []domain.Date{day(2024, 1, 1), day(2024, 1, 3)}

		grid, err := domain.Project(completions, 2, 2, day(2024, 1, 4))
		require.NoError(t, err)
		require.Len(t, grid, 2)
		require.Len(t, grid[0], 2)

		assert.Equal(t, day(2024, 1, 1), grid[0][0].Date)
		assert.True(t, grid[0][0].Completed)
		assert.Equal(t, day(2024, 1, 2), grid[0][1].Date)
		assert.False(t, grid[0][1].Completed)

		assert.Equal(t, day(2024, 1, 3), grid[1][0].Date)
		assert.True(t, grid[1][0].Completed)
		assert.Equal(t, day(2024, 1, 4), grid[1][1].Date)
		assert.False(t, grid[1][1].Completed)

		assert.Equal(t, 1, grid[1][0].Column)
		assert.Equal(t, 0, grid[1][0].Row)
	})

	t.Run("Window: contiguous distinct days ending at the reference date", func(t *testing.T) {
		ref := day(2024, 3, 1)
		shapes := [][2]int{{1, 1}, {7, 7}, {3, 5}, {53, 7}, {1, 30}}

		for _, shape := range shapes {
			grid, err := domain.Project(nil, shape[0], shape[1], ref)
			require.NoError(t, err)

			seen := make(map[domain.Date]bool)
			var last domain.Date
			expected := ref.AddDays(-(shape[0]*shape[1] - 1))
			for _, column := range grid {
				for _, cell := range column {
					assert.Equal(t, expected, cell.Date, "cells must be consecutive in column-major order")
					assert.False(t, seen[cell.Date], "dates must be distinct")
					seen[cell.Date] = true
					last = cell.Date
					expected = expected.AddDays(1)
				}
			}
			assert.Len(t, seen, shape[0]*shape[1])
			assert.Equal(t, ref, last)
		}
	})

	t.Run("Out of window completions are ignored", func(t *testing.T) {
		ref := day(2024, 1, 31)
		completions := []domain.Date{
			day(2023, 12, 1),
			day(2024, 1, 25),
			day(2024, 1, 31),
			day(2024, 2, 1),
		}

		grid, err := domain.Project(completions, 1, 7, ref)
		require.NoError(t, err)
		assert.Equal(t, 2, domain.CountCompleted(grid))
	})

	t.Run("Duplicate dates mark a single cell", func(t *testing.T) {
		ref := day(2024, 1, 10)
		grid, err := domain.Project([]domain.Date{ref, ref}, 1, 1, ref)
		require.NoError(t, err)
		assert.Equal(t, 1, domain.CountCompleted(grid))
	})

	t.Run("Edge Case: zero sized grid is empty", func(t *testing.T) {
		for _, shape := range [][2]int{{0, 0}, {0, 7}, {7, 0}} {
			grid, err := domain.Project([]domain.Date{day(2024, 1, 1)}, shape[0], shape[1], day(2024, 1, 1))
			require.NoError(t, err)
			assert.Empty(t, grid)
		}
	})

	t.Run("Error: negative dimensions", func(t *testing.T) {
		_, err := domain.Project(nil, -1, 7, day(2024, 1, 1))
		assert.ErrorIs(t, err, domain.ErrInvalidGridSize)

		_, err = domain.Project(nil, 7, -3, day(2024, 1, 1))
		assert.ErrorIs(t, err, domain.ErrInvalidGridSize)
	})

	t.Run("Error: sizes beyond the limits are rejected instead of wrapping", func(t *testing.T) {
		ref := day(2024, 1, 1)
		shapes := [][2]int{
			{3, (1 << 62) / 3 * 2},
			{1 << 32, 1 << 32},
			{domain.MaxGridDimension + 1, 1},
			{1, domain.MaxGridDimension + 1},
			{100, 100},
			{0, domain.MaxGridDimension + 1},
		}

		for _, shape := range shapes {
			grid, err := domain.Project(nil, shape[0], shape[1], ref)
			assert.ErrorIs(t, err, domain.ErrInvalidGridSize, "shape %v", shape)
			assert.Nil(t, grid)
		}
	})

	t.Run("Success: largest accepted grid", func(t *testing.T) {
		grid, err := domain.Project(nil, 10, domain.MaxGridDimension, day(2024, 1, 1))
		require.NoError(t, err)
		require.Len(t, grid, 10)
		assert.Equal(t, day(2024, 1, 1), grid[9][domain.MaxGridDimension-1].Date)
	})

	t.Run("Window crosses a DST change without skipping days", func(t *testing.T) {
		ref := day(2024, 4, 2)
		grid, err := domain.Project([]domain.Date{day(2024, 3, 31)}, 1, 7, ref)
		require.NoError(t, err)
		assert.Equal(t, day(2024, 3, 27), grid[0][0].Date)
		assert.True(t, grid[0][4].Completed)
	})
}

func TestProjectStreak(t *testing.T) {
	ref := day(2024, 5, 10)
	s := &domain.Streak{
		Name: "Run",
		Completions: []domain.Completion{
			{DateCompleted: ref},
			{DateCompleted: ref.AddDays(-1)},
			{DateCompleted: ref.AddDays(-60)},
		},
	}

	grid, err := domain.ProjectStreak(s, 7, 7, ref)
	require.NoError(t, err)
	assert.Equal(t, 2, domain.CountCompleted(grid))
	assert.True(t, grid[6][6].Completed)
	assert.True(t, grid[6][5].Completed)
}
