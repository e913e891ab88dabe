package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

var ErrFutureCompletion = errors.New("completion date is in the future")

// StreakRecalculator is notified whenever a streak's completions change.
type StreakRecalculator interface {
	Enqueue(streakID string)
}

type CompletionService struct {
	repo       domain.CompletionRepository
	streakRepo domain.StreakRepository
	worker     StreakRecalculator
	now        func() time.Time
	loc        *time.Location
}

func NewCompletionService(repo domain.CompletionRepository, streakRepo domain.StreakRepository, worker StreakRecalculator) *CompletionService {
	return &CompletionService{
		repo:       repo,
		streakRepo: streakRepo,
		worker:     worker,
		now:        time.Now,
		loc:        time.UTC,
	}
}

// WithClock sets the clock and timezone used for defaulting and bounding completion dates.
func (s *CompletionService) WithClock(now func() time.Time, loc *time.Location) *CompletionService {
	if now != nil {
		s.now = now
	}
	if loc != nil {
		s.loc = loc
	}
	return s
}

type CreateCompletionInput struct {
	StreakID      string
	UserID        string
	DateCompleted domain.Date
}

func (s *CompletionService) Create(ctx context.Context, input CreateCompletionInput) (*domain.Completion, error) {
	today := domain.Today(s.now(), s.loc)

	date := input.DateCompleted
	if date.IsZero() {
		date = today
	}
	// One day of slack for clients that are ahead of the server's timezone.
	if date.After(today.AddDays(1)) {
		return nil, fmt.Errorf("%w: %s", ErrFutureCompletion, date)
	}

	completion := domain.NewCompletion(input.StreakID, input.UserID, date)
	if err := completion.Validate(); err != nil {
		return nil, err
	}

	streak, err := s.streakRepo.GetByID(ctx, completion.StreakID)
	if err != nil {
		return nil, err
	}
	if streak.UserID != completion.UserID {
		return nil, domain.ErrUnauthorized
	}

	if err := s.repo.Create(ctx, completion); err != nil {
		return nil, err
	}

	s.worker.Enqueue(completion.StreakID)

	return completion, nil
}

func (s *CompletionService) GetByID(ctx context.Context, id string, userID string) (*domain.Completion, error) {
	completion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if completion.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return completion, nil
}

func (s *CompletionService) ListByStreakID(ctx context.Context, streakID string, userID string) ([]*domain.Completion, error) {
	streak, err := s.streakRepo.GetByID(ctx, streakID)
	if err != nil {
		return nil, err
	}
	if streak.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	return s.repo.ListByStreakID(ctx, streakID)
}

func (s *CompletionService) Delete(ctx context.Context, id string, userID string) error {
	completion, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(completion.StreakID)

	return nil
}
