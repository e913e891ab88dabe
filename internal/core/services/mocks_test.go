package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

type MockStreakRepo struct {
	mock.Mock
}

func (m *MockStreakRepo) Create(ctx context.Context, s *domain.Streak) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStreakRepo) GetByID(ctx context.Context, id string) (*domain.Streak, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Streak), args.Error(1)
}

func (m *MockStreakRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Streak, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Streak), args.Error(1)
}

func (m *MockStreakRepo) Update(ctx context.Context, s *domain.Streak) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStreakRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStreakRepo) UpdateStats(ctx context.Context, s *domain.Streak) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type MockCompletionRepo struct {
	mock.Mock
}

func (m *MockCompletionRepo) Create(ctx context.Context, c *domain.Completion) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCompletionRepo) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Completion), args.Error(1)
}

func (m *MockCompletionRepo) ListByStreakID(ctx context.Context, streakID string) ([]*domain.Completion, error) {
	args := m.Called(ctx, streakID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Completion), args.Error(1)
}

func (m *MockCompletionRepo) Delete(ctx context.Context, id string, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockRecalculator struct {
	mock.Mock
}

func (m *MockRecalculator) Enqueue(streakID string) {
	m.Called(streakID)
}
