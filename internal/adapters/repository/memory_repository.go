package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

// InMemoryStore backs the in-memory repositories. Streaks, completions and users share
// one lock so that streak reads can nest completions consistently.
type InMemoryStore struct {
	streaks     map[string]*domain.Streak
	completions map[string]*domain.Completion
	users       map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		streaks:     make(map[string]*domain.Streak),
		completions: make(map[string]*domain.Completion),
		users:       make(map[string]*domain.User),
	}
}

type InMemoryStreakRepository struct{ s *InMemoryStore }
type InMemoryCompletionRepository struct{ s *InMemoryStore }
type InMemoryUserRepository struct{ s *InMemoryStore }

func (s *InMemoryStore) Streaks() *InMemoryStreakRepository         { return &InMemoryStreakRepository{s} }
func (s *InMemoryStore) Completions() *InMemoryCompletionRepository { return &InMemoryCompletionRepository{s} }
func (s *InMemoryStore) Users() *InMemoryUserRepository             { return &InMemoryUserRepository{s} }

// withCompletions returns a copy of the streak carrying its completions, oldest first.
// Caller must hold the lock.
func (s *InMemoryStore) withCompletions(streak *domain.Streak) *domain.Streak {
	out := *streak
	out.Completions = []domain.Completion{}
	for _, c := range s.completions {
		if c.StreakID == streak.ID {
			out.Completions = append(out.Completions, *c)
		}
	}
	sort.SliceStable(out.Completions, func(i, j int) bool {
		a, b := out.Completions[i], out.Completions[j]
		if a.DateCompleted != b.DateCompleted {
			return a.DateCompleted.Before(b.DateCompleted)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return &out
}

func (r *InMemoryStreakRepository) Create(ctx context.Context, streak *domain.Streak) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.streaks {
		if other.UserID == streak.UserID && other.Color == streak.Color {
			return domain.ErrStreakColorTaken
		}
	}

	stored := *streak
	stored.Completions = nil
	r.s.streaks[streak.ID] = &stored
	return nil
}

func (r *InMemoryStreakRepository) GetByID(ctx context.Context, id string) (*domain.Streak, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	streak, ok := r.s.streaks[id]
	if !ok {
		return nil, domain.ErrStreakNotFound
	}
	return r.s.withCompletions(streak), nil
}

func (r *InMemoryStreakRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Streak, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	streaks := []*domain.Streak{}
	for _, s := range r.s.streaks {
		if s.UserID == userID {
			streaks = append(streaks, r.s.withCompletions(s))
		}
	}

	sort.Slice(streaks, func(i, j int) bool {
		if !streaks[i].CreatedAt.Equal(streaks[j].CreatedAt) {
			return streaks[i].CreatedAt.Before(streaks[j].CreatedAt)
		}
		return streaks[i].ID < streaks[j].ID
	})

	return streaks, nil
}

func (r *InMemoryStreakRepository) Update(ctx context.Context, streak *domain.Streak) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.streaks[streak.ID]
	if !ok {
		return domain.ErrStreakNotFound
	}
	for id, other := range r.s.streaks {
		if id != streak.ID && other.UserID == stored.UserID && other.Color == streak.Color {
			return domain.ErrStreakColorTaken
		}
	}

	stored.Name = streak.Name
	stored.Color = streak.Color
	stored.IsActive = streak.IsActive
	stored.UpdatedAt = streak.UpdatedAt
	return nil
}

func (r *InMemoryStreakRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.streaks[id]; !ok {
		return domain.ErrStreakNotFound
	}

	delete(r.s.streaks, id)
	for cid, c := range r.s.completions {
		if c.StreakID == id {
			delete(r.s.completions, cid)
		}
	}
	return nil
}

func (r *InMemoryStreakRepository) UpdateStats(ctx context.Context, streak *domain.Streak) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.streaks[streak.ID]
	if !ok {
		return domain.ErrStreakNotFound
	}

	stored.CurrentStreak = streak.CurrentStreak
	stored.LongestStreak = streak.LongestStreak
	stored.DaysCompleted = streak.DaysCompleted
	stored.UpdatedAt = streak.UpdatedAt
	return nil
}

func (r *InMemoryCompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.streaks[c.StreakID]; !ok {
		return domain.ErrStreakNotFound
	}
	for _, other := range r.s.completions {
		if other.StreakID == c.StreakID && other.DateCompleted == c.DateCompleted {
			return domain.ErrDuplicateCompletion
		}
	}

	c.DayOfWeek = c.Weekday()
	stored := *c
	r.s.completions[c.ID] = &stored
	return nil
}

func (r *InMemoryCompletionRepository) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.completions[id]
	if !ok {
		return nil, domain.ErrCompletionNotFound
	}
	out := *c
	return &out, nil
}

func (r *InMemoryCompletionRepository) ListByStreakID(ctx context.Context, streakID string) ([]*domain.Completion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Completion{}
	for _, c := range r.s.completions {
		if c.StreakID == streakID {
			copied := *c
			out = append(out, &copied)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DateCompleted.Before(out[j].DateCompleted)
	})
	return out, nil
}

func (r *InMemoryCompletionRepository) Delete(ctx context.Context, id string, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.completions[id]
	if !ok || c.UserID != userID {
		return domain.ErrCompletionNotFound
	}

	delete(r.s.completions, id)
	return nil
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.users {
		if other.Email == user.Email || (other.Provider == user.Provider && other.Subject == user.Subject) {
			return domain.ErrEmailAlreadyExists
		}
	}

	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *InMemoryUserRepository) GetBySubject(ctx context.Context, provider, subject string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Provider == provider && user.Subject == subject {
			out := *user
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}

	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}
