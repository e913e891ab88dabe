package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

const (
	streakCacheTTL     = 30 * time.Minute
	generationCacheTTL = 24 * time.Hour
)

var (
	_ domain.StreakRepository     = (*CachedStreakRepository)(nil)
	_ domain.CompletionRepository = (*CachedCompletionRepository)(nil)
)

// CacheRecorder receives cache lookup outcomes. *metrics.Metrics satisfies it.
type CacheRecorder interface {
	CacheHit()
	CacheMiss()
	CacheError()
}

type noopRecorder struct{}

func (noopRecorder) CacheHit()   {}
func (noopRecorder) CacheMiss()  {}
func (noopRecorder) CacheError() {}

// StreakCache holds per-user streak lists keyed by generation. Every write bumps the
// user's generation, so a list loaded before a write can never be served after it.
type StreakCache struct {
	client   redis.Cmdable
	gens     *cache.Generations
	recorder CacheRecorder
}

func NewStreakCache(client redis.Cmdable, recorder CacheRecorder) *StreakCache {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &StreakCache{
		client:   client,
		gens:     cache.NewGenerations(client, "streaks", generationCacheTTL),
		recorder: recorder,
	}
}

func (c *StreakCache) invalidate(ctx context.Context, userID string) {
	if _, err := c.gens.Bump(ctx, userID); err != nil {
		log.Printf("[CACHE] Failed to invalidate for user %s: %v", userID, err)
	}
}

type CachedStreakRepository struct {
	next  domain.StreakRepository
	cache *StreakCache
}

func NewCachedStreakRepository(next domain.StreakRepository, c *StreakCache) *CachedStreakRepository {
	return &CachedStreakRepository{
		next:  next,
		cache: c,
	}
}

func (r *CachedStreakRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Streak, error) {
	gen, err := r.cache.gens.Current(ctx, userID)
	if err != nil {
		r.cache.recorder.CacheError()
		log.Printf("[CACHE] Redis read error: %v", err)
		return r.next.ListByUserID(ctx, userID)
	}

	key := r.cache.gens.Key(userID, gen)

	val, err := r.cache.client.Get(ctx, key).Result()
	if err == nil {
		var streaks []*domain.Streak
		if err := json.Unmarshal([]byte(val), &streaks); err == nil {
			r.cache.recorder.CacheHit()
			return streaks, nil
		}

		log.Printf("[CACHE] Corrupted data for user %s, cleaning up key", userID)
		r.cache.client.Del(ctx, key)
	} else if err != redis.Nil {
		r.cache.recorder.CacheError()
		log.Printf("[CACHE] Redis read error: %v", err)
	}
	r.cache.recorder.CacheMiss()

	streaks, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The key carries the generation read above: if a write happened meanwhile,
	// this value lands under a retired key and is never read.
	if data, err := json.Marshal(streaks); err == nil {
		if setErr := r.cache.client.Set(ctx, key, data, streakCacheTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return streaks, nil
}

func (r *CachedStreakRepository) GetByID(ctx context.Context, id string) (*domain.Streak, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedStreakRepository) Create(ctx context.Context, streak *domain.Streak) error {
	if err := r.next.Create(ctx, streak); err != nil {
		return err
	}
	r.cache.invalidate(ctx, streak.UserID)
	return nil
}

func (r *CachedStreakRepository) Update(ctx context.Context, streak *domain.Streak) error {
	if err := r.next.Update(ctx, streak); err != nil {
		return err
	}
	r.cache.invalidate(ctx, streak.UserID)
	return nil
}

func (r *CachedStreakRepository) Delete(ctx context.Context, id string) error {
	streak, err := r.next.GetByID(ctx, id)
	if err == nil && streak != nil {
		defer r.cache.invalidate(ctx, streak.UserID)
	}

	return r.next.Delete(ctx, id)
}

func (r *CachedStreakRepository) UpdateStats(ctx context.Context, streak *domain.Streak) error {
	if err := r.next.UpdateStats(ctx, streak); err != nil {
		return err
	}
	r.cache.invalidate(ctx, streak.UserID)
	return nil
}

// CachedCompletionRepository retires the owner's cached streak list on every write.
type CachedCompletionRepository struct {
	next  domain.CompletionRepository
	cache *StreakCache
}

func NewCachedCompletionRepository(next domain.CompletionRepository, c *StreakCache) *CachedCompletionRepository {
	return &CachedCompletionRepository{
		next:  next,
		cache: c,
	}
}

func (r *CachedCompletionRepository) Create(ctx context.Context, completion *domain.Completion) error {
	if err := r.next.Create(ctx, completion); err != nil {
		return err
	}
	r.cache.invalidate(ctx, completion.UserID)
	return nil
}

func (r *CachedCompletionRepository) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedCompletionRepository) ListByStreakID(ctx context.Context, streakID string) ([]*domain.Completion, error) {
	return r.next.ListByStreakID(ctx, streakID)
}

func (r *CachedCompletionRepository) Delete(ctx context.Context, id string, userID string) error {
	if err := r.next.Delete(ctx, id, userID); err != nil {
		return err
	}
	r.cache.invalidate(ctx, userID)
	return nil
}
