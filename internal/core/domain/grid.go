package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGridSize = errors.New("invalid grid size")
)

const (
	MaxGridDimension = 366
	MaxGridCells     = 3660
)

// GridCell is one day block of a contribution grid.
type GridCell struct {
	Column    int  `json:"column"`
	Row       int  `json:"row"`
	Date      Date `json:"date"`
	Completed bool `json:"completed"`
}

// Project lays the sizeX*sizeY days ending at ref onto a grid indexed [column][row].
// Days advance down a column first, so each column holds sizeY consecutive days
// and the last cell of the last column is ref itself.
// Completion dates outside that window are ignored.
func Project(dates []Date, sizeX, sizeY int, ref Date) ([][]GridCell, error) {
	completed := make(map[Date]struct{}, len(dates))
	for _, d := range dates {
		completed[d] = struct{}{}
	}
	return project(completed, sizeX, sizeY, ref)
}

// ValidateGridSize rejects negative dimensions and grids larger than
// MaxGridDimension on a side or MaxGridCells in total.
func ValidateGridSize(sizeX, sizeY int) error {
	if sizeX < 0 || sizeY < 0 {
		return fmt.Errorf("%w: %dx%d has a negative dimension", ErrInvalidGridSize, sizeX, sizeY)
	}
	// Both sides are bounded before multiplying, so the product cannot overflow.
	if sizeX > MaxGridDimension || sizeY > MaxGridDimension || sizeX*sizeY > MaxGridCells {
		return fmt.Errorf("%w: %dx%d exceeds the maximum of %d cells", ErrInvalidGridSize, sizeX, sizeY, MaxGridCells)
	}
	return nil
}

func project(completed map[Date]struct{}, sizeX, sizeY int, ref Date) ([][]GridCell, error) {
	if err := ValidateGridSize(sizeX, sizeY); err != nil {
		return nil, err
	}

	total := sizeX * sizeY
	if total == 0 {
		return [][]GridCell{}, nil
	}

	start := ref.AddDays(-(total - 1))

	grid := make([][]GridCell, sizeX)
	for col := 0; col < sizeX; col++ {
		column := make([]GridCell, sizeY)
		for row := 0; row < sizeY; row++ {
			day := start.AddDays(col*sizeY + row)
			_, done := completed[day]
			column[row] = GridCell{
				Column:    col,
				Row:       row,
				Date:      day,
				Completed: done,
			}
		}
		grid[col] = column
	}

	return grid, nil
}

// ProjectStreak projects a streak's own completions.
func ProjectStreak(s *Streak, sizeX, sizeY int, ref Date) ([][]GridCell, error) {
	return project(s.CompletionDates(), sizeX, sizeY, ref)
}

func CountCompleted(grid [][]GridCell) int {
	n := 0
	for _, column := range grid {
		for _, cell := range column {
			if cell.Completed {
				n++
			}
		}
	}
	return n
}
