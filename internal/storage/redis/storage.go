package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/storage"
)

// unlockScript deletes a lock only if it is still held by the caller's token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interfaces
var (
	_ storage.Storage = (*Storage)(nil)
	_ storage.Locker  = (*Storage)(nil)
)

// Player archive index operations

func (s *Storage) GetPlayerIndex(ctx context.Context, player string) ([]byte, error) {
	return s.get(ctx, indexKey(player))
}

func (s *Storage) SavePlayerIndex(ctx context.Context, player string, data []byte) error {
	// Archive records never expire
	return s.client.Set(ctx, indexKey(player), data, 0).Err()
}

// Month archive operations

func (s *Storage) GetMonthArchive(ctx context.Context, key model.MonthKey) ([]byte, error) {
	return s.get(ctx, monthKey(key))
}

func (s *Storage) SaveMonthArchive(ctx context.Context, key model.MonthKey, data []byte) error {
	// Use a transaction so the record and the index are published together
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, monthKey(key), data, 0)
	pipe.SAdd(ctx, monthsForPlayerIndexKey(key.Player), key.Period())
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListMonths(ctx context.Context, player string) ([]model.MonthKey, error) {
	periods, err := s.client.SMembers(ctx, monthsForPlayerIndexKey(player)).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]model.MonthKey, 0, len(periods))
	for _, period := range periods {
		key, err := model.ParsePeriod(player, period)
		if err != nil {
			return nil, fmt.Errorf("month index for %s: %w", player, err)
		}
		keys = append(keys, key)
	}
	slices.SortFunc(keys, model.MonthKey.Compare)
	return keys, nil
}

// Lock operations

// Lock acquires a lock shared by every process using this Redis instance.
// The lock expires after LockTTL if the holder dies.
func (s *Storage) Lock(ctx context.Context, name string) (func(), error) {
	key := lockKey(name)
	token := uuid.NewString()

	for {
		ok, err := s.client.SetNX(ctx, key, token, s.cfg.LockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.cfg.LockRetry):
		}
	}

	unlock := func() {
		// Use a fresh context so a cancelled caller still releases the lock
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = unlockScript.Run(releaseCtx, s.client, []string{key}, token).Err()
	}
	return unlock, nil
}

func (s *Storage) get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}
