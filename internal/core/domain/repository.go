package domain

import (
	"context"
	"errors"
)

var (
	ErrStreakNotFound     = errors.New("streak not found")
	ErrCompletionNotFound = errors.New("completion not found")
)

type StreakRepository interface {
	// Create persists a new streak.
	Create(ctx context.Context, streak *Streak) error

	// GetByID retrieves a streak together with its completions.
	GetByID(ctx context.Context, id string) (*Streak, error)

	// ListByUserID retrieves every streak of a user, each with its completions nested.
	// This is the read the grid and stats views are computed from.
	ListByUserID(ctx context.Context, userID string) ([]*Streak, error)

	// Update modifies name, color and active flag.
	Update(ctx context.Context, streak *Streak) error

	// Delete removes a streak and, with it, its completions.
	Delete(ctx context.Context, id string) error

	// UpdateStats stores the streak's current/longest/total counters.
	UpdateStats(ctx context.Context, streak *Streak) error
}

type CompletionRepository interface {
	// Create persists a completion. It returns ErrDuplicateCompletion when the streak
	// already has a completion on the same date.
	Create(ctx context.Context, completion *Completion) error

	GetByID(ctx context.Context, id string) (*Completion, error)

	// ListByStreakID returns a streak's completions ordered by date ascending.
	ListByStreakID(ctx context.Context, streakID string) ([]*Completion, error)

	// Delete removes a completion owned by userID.
	Delete(ctx context.Context, id string, userID string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetBySubject(ctx context.Context, provider, subject string) (*User, error)
	Update(ctx context.Context, user *User) error
}
