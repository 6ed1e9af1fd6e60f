package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/services/remote"
	"github.com/mcoot/chessarchive/internal/storage"
)

// DefaultFetchConcurrency bounds how many months Prefetch loads at once
const DefaultFetchConcurrency = 4

// FillTimeout bounds one shared fetch, including lock and throttle waits.
// A fill runs detached from the caller that started it.
const FillTimeout = 5 * time.Minute

// Service is a read-through cache over the remote archive. Every record is
// fetched at most once and never refreshed.
type Service struct {
	storage     storage.Storage
	locker      storage.Locker
	fetcher     remote.Fetcher
	flights     singleflight.Group
	concurrency int
	logger      *slog.Logger
}

// New creates a cache service. concurrency <= 0 uses DefaultFetchConcurrency.
func New(store storage.Storage, fetcher remote.Fetcher, concurrency int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}
	locker, _ := store.(storage.Locker)
	return &Service{
		storage:     store,
		locker:      locker,
		fetcher:     fetcher,
		concurrency: concurrency,
		logger:      logger,
	}
}

// PlayerIndex returns the player's month archive URLs, oldest first
func (s *Service) PlayerIndex(ctx context.Context, player string) ([]string, error) {
	name, err := model.NormalizePlayer(player)
	if err != nil {
		return nil, err
	}

	return load(ctx, s, record{
		key:   "index:" + name,
		get:   func(ctx context.Context) ([]byte, error) { return s.storage.GetPlayerIndex(ctx, name) },
		save:  func(ctx context.Context, data []byte) error { return s.storage.SavePlayerIndex(ctx, name, data) },
		fetch: func(ctx context.Context) ([]byte, error) { return s.fetcher.FetchPlayerIndex(ctx, name) },
	}, decodeIndex)
}

// MonthArchive returns the games of one month archive in stored order. Each
// call returns a freshly decoded slice that the caller may modify.
func (s *Service) MonthArchive(ctx context.Context, monthURL string) ([]model.Game, error) {
	key, err := model.ParseMonthURL(monthURL)
	if err != nil {
		return nil, err
	}

	return load(ctx, s, record{
		key:   "month:" + key.Player + ":" + key.Period(),
		get:   func(ctx context.Context) ([]byte, error) { return s.storage.GetMonthArchive(ctx, key) },
		save:  func(ctx context.Context, data []byte) error { return s.storage.SaveMonthArchive(ctx, key, data) },
		fetch: func(ctx context.Context) ([]byte, error) { return s.fetcher.FetchMonthGames(ctx, monthURL) },
	}, decodeMonth)
}

// CachedMonths lists every month persisted for the player, oldest first.
// It never touches the remote.
func (s *Service) CachedMonths(ctx context.Context, player string) ([]model.MonthKey, error) {
	name, err := model.NormalizePlayer(player)
	if err != nil {
		return nil, err
	}
	return s.storage.ListMonths(ctx, name)
}

// Prefetch loads the given months into the cache with bounded parallelism.
// It stops at the first failure.
func (s *Service) Prefetch(ctx context.Context, monthURLs []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, u := range monthURLs {
		g.Go(func() error {
			_, err := s.MonthArchive(ctx, u)
			return err
		})
	}
	return g.Wait()
}

type record struct {
	key   string
	get   func(context.Context) ([]byte, error)
	save  func(context.Context, []byte) error
	fetch func(context.Context) ([]byte, error)
}

// load reads a record through the cache. Concurrent misses for the same key
// share one fetch; every caller decodes its own copy of the bytes.
func load[T any](ctx context.Context, s *Service, rec record, decode func([]byte) (T, error)) (T, error) {
	var zero T

	v, err := readStored(ctx, rec, decode)
	switch {
	case err == nil:
		s.logger.Debug("cache hit", slog.String("key", rec.key))
		return v, nil
	case errors.Is(err, model.ErrCorruptRecord):
		s.logger.Warn("discarding corrupt cache record",
			slog.String("key", rec.key),
			slog.String("error", err.Error()),
		)
	case !errors.Is(err, model.ErrNotFound):
		return zero, err
	}

	// Callers that give up leave the fill running for everyone else waiting
	// on the key.
	ch := s.flights.DoChan(rec.key, func() (any, error) {
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FillTimeout)
		defer cancel()
		return fill(fillCtx, s, rec, decode)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return decode(res.Val.([]byte))
	case <-ctx.Done():
		return zero, fmt.Errorf("load %s: %w", rec.key, ctx.Err())
	}
}

// fill fetches a missing record and persists it. Storage is checked again
// under the key lock, since another flight or process may have written it.
func fill[T any](ctx context.Context, s *Service, rec record, decode func([]byte) (T, error)) ([]byte, error) {
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, rec.key)
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", rec.key, err)
		}
		defer unlock()
	}

	data, err := rec.get(ctx)
	switch {
	case err == nil:
		if _, derr := decode(data); derr == nil {
			return data, nil
		}
	case !errors.Is(err, model.ErrNotFound):
		return nil, fmt.Errorf("read %s: %w", rec.key, err)
	}

	data, err = rec.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := decode(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrInvalidRecord, rec.key, err)
	}
	if err := rec.save(ctx, data); err != nil {
		return nil, fmt.Errorf("persist %s: %w", rec.key, err)
	}

	s.logger.Info("fetched archive record",
		slog.String("key", rec.key),
		slog.Int("bytes", len(data)),
	)
	return data, nil
}

func readStored[T any](ctx context.Context, rec record, decode func([]byte) (T, error)) (T, error) {
	var zero T
	data, err := rec.get(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return zero, err
		}
		return zero, fmt.Errorf("read %s: %w", rec.key, err)
	}
	v, err := decode(data)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", model.ErrCorruptRecord, err)
	}
	return v, nil
}

func decodeIndex(data []byte) ([]string, error) {
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, err
	}
	if urls == nil {
		return nil, errors.New("archive index is null")
	}
	return urls, nil
}

func decodeMonth(data []byte) ([]model.Game, error) {
	var games []model.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, err
	}
	if games == nil {
		return nil, errors.New("month archive is null")
	}
	for i := range games {
		if err := games[i].Validate(); err != nil {
			return nil, err
		}
	}
	return games, nil
}
