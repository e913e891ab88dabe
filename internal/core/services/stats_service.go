package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

const DefaultGridSize = 7

// StatsRecorder receives timings of the derived computations. *metrics.Metrics satisfies it.
type StatsRecorder interface {
	ObserveAggregate(d time.Duration)
	GridProjected()
}

type StatsService struct {
	streakRepo domain.StreakRepository
	now        func() time.Time
	loc        *time.Location
	recorder   StatsRecorder
}

func NewStatsService(streakRepo domain.StreakRepository) *StatsService {
	return &StatsService{
		streakRepo: streakRepo,
		now:        time.Now,
		loc:        time.UTC,
	}
}

// WithClock sets the clock and timezone that decide the default reference date.
func (s *StatsService) WithClock(now func() time.Time, loc *time.Location) *StatsService {
	if now != nil {
		s.now = now
	}
	if loc != nil {
		s.loc = loc
	}
	return s
}

func (s *StatsService) WithRecorder(r StatsRecorder) *StatsService {
	s.recorder = r
	return s
}

// Dashboard is the stats page payload. Snapshot is nil when the user has no streaks.
type Dashboard struct {
	Snapshot    *domain.StatsSnapshot      `json:"snapshot"`
	Performance []domain.StreakPerformance `json:"performance"`
}

type GridInput struct {
	StreakID      string
	UserID        string
	SizeX         int
	SizeY         int
	ReferenceDate domain.Date
}

// GridBlock is a grid cell with the style token it is drawn with.
type GridBlock struct {
	domain.GridCell
	Class string `json:"class"`
}

type GridView struct {
	StreakID      string            `json:"streak_id"`
	Name          string            `json:"name"`
	Color         domain.Color      `json:"color"`
	ColorName     string            `json:"color_name"`
	Style         domain.ColorStyle `json:"style"`
	SizeX         int               `json:"size_x"`
	SizeY         int               `json:"size_y"`
	ReferenceDate domain.Date       `json:"reference_date"`
	Completed     int               `json:"completed"`
	Cells         [][]GridBlock     `json:"cells"`
}

func (s *StatsService) referenceDate(ref domain.Date) domain.Date {
	if ref.IsZero() {
		return domain.Today(s.now(), s.loc)
	}
	return ref
}

// GetDashboard aggregates every streak of the user as seen on ref (today when zero).
// Current runs that lapsed since the worker last stored them are reported as zero.
func (s *StatsService) GetDashboard(ctx context.Context, userID string, ref domain.Date) (*Dashboard, error) {
	streaks, err := s.streakRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	day := s.referenceDate(ref)
	settled := domain.SettleCurrentRuns(streaks, day)
	dashboard := &Dashboard{
		Snapshot:    domain.Aggregate(settled, day),
		Performance: domain.Performance(settled),
	}
	if s.recorder != nil {
		s.recorder.ObserveAggregate(time.Since(start))
	}

	return dashboard, nil
}

// GetGrid projects one streak's completions onto a sizeX by sizeY grid ending at ref.
func (s *StatsService) GetGrid(ctx context.Context, input GridInput) (*GridView, error) {
	if err := domain.ValidateGridSize(input.SizeX, input.SizeY); err != nil {
		return nil, err
	}

	streak, err := s.streakRepo.GetByID(ctx, input.StreakID)
	if err != nil {
		return nil, err
	}
	if streak.UserID != input.UserID {
		return nil, domain.ErrStreakNotFound
	}

	ref := s.referenceDate(input.ReferenceDate)
	cells, err := domain.ProjectStreak(streak, input.SizeX, input.SizeY, ref)
	if err != nil {
		return nil, err
	}
	if s.recorder != nil {
		s.recorder.GridProjected()
	}

	return &GridView{
		StreakID:      streak.ID,
		Name:          streak.Name,
		Color:         streak.Color,
		ColorName:     streak.Color.DisplayName(),
		Style:         streak.Color.Style(),
		SizeX:         input.SizeX,
		SizeY:         input.SizeY,
		ReferenceDate: ref,
		Completed:     domain.CountCompleted(cells),
		Cells:         styleBlocks(cells, streak.Color),
	}, nil
}

func styleBlocks(cells [][]domain.GridCell, color domain.Color) [][]GridBlock {
	blocks := make([][]GridBlock, len(cells))
	for i, column := range cells {
		blocks[i] = make([]GridBlock, len(column))
		for j, cell := range column {
			blocks[i][j] = GridBlock{
				GridCell: cell,
				Class:    domain.BlockClass(color, cell.Completed),
			}
		}
	}
	return blocks
}
