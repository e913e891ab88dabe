package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(host, port, password string, dbIndex int) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           dbIndex,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return rdb, nil
}

// Generations keeps one monotonically increasing counter per scope (a user, typically).
// Cached values are stored under a key that embeds the counter read before loading them,
// so bumping the counter retires every value loaded earlier, including loads still in flight.
type Generations struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewGenerations returns counters stored as "<prefix>:gen:<scope>". The ttl must outlive
// any value cached under a generation, otherwise an expired counter could restart at a
// number whose stale values are still present.
func NewGenerations(client redis.Cmdable, prefix string, ttl time.Duration) *Generations {
	return &Generations{client: client, prefix: prefix, ttl: ttl}
}

func (g *Generations) counterKey(scope string) string {
	return fmt.Sprintf("%s:gen:%s", g.prefix, scope)
}

// Current returns the scope's generation; a scope that was never bumped is at 0.
func (g *Generations) Current(ctx context.Context, scope string) (int64, error) {
	gen, err := g.client.Get(ctx, g.counterKey(scope)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return gen, nil
}

// Bump retires every value cached for the scope so far.
func (g *Generations) Bump(ctx context.Context, scope string) (int64, error) {
	key := g.counterKey(scope)

	pipe := g.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, g.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Key builds the value key for a scope at a given generation.
func (g *Generations) Key(scope string, gen int64) string {
	return fmt.Sprintf("%s:%s:%d", g.prefix, scope, gen)
}
