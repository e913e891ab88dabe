package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

type StreakService struct {
	repo domain.StreakRepository
}

func NewStreakService(repo domain.StreakRepository) *StreakService {
	return &StreakService{
		repo: repo,
	}
}

type CreateStreakInput struct {
	UserID    string
	Name      string
	Color     string
	StartDate domain.Date
}

type UpdateStreakInput struct {
	ID       string
	UserID   string
	Name     string
	Color    string
	IsActive *bool
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *StreakService) Create(ctx context.Context, input CreateStreakInput) (*domain.Streak, error) {
	streak, err := domain.NewStreak(input.UserID, input.Name, input.Color, input.StartDate)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, streak); err != nil {
		return nil, err
	}

	return streak, nil
}

func (s *StreakService) ListByUserID(ctx context.Context, userID string) ([]*domain.Streak, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// GetByID hides streaks owned by someone else behind ErrStreakNotFound.
func (s *StreakService) GetByID(ctx context.Context, id string, userID string) (*domain.Streak, error) {
	streak, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if streak.UserID != userID {
		return nil, domain.ErrStreakNotFound
	}

	return streak, nil
}

func (s *StreakService) Update(ctx context.Context, input UpdateStreakInput) (*domain.Streak, error) {
	streak, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	isActive := streak.IsActive
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	err = streak.Update(
		mergeString(input.Name, streak.Name),
		mergeString(input.Color, string(streak.Color)),
		isActive,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, streak); err != nil {
		return nil, err
	}

	return streak, nil
}

func (s *StreakService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
