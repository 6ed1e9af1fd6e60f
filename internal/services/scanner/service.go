package scanner

import (
	"context"
	"log/slog"
	"math"
	"slices"

	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/services/filter"
	"github.com/mcoot/chessarchive/internal/services/months"
	"github.com/mcoot/chessarchive/internal/services/rating"
)

// Archive is the read-through archive the scanner reads from
type Archive interface {
	PlayerIndex(ctx context.Context, player string) ([]string, error)
	MonthArchive(ctx context.Context, monthURL string) ([]model.Game, error)
	Prefetch(ctx context.Context, monthURLs []string) error
}

// Options controls which games a scan returns
type Options struct {
	// TimeClass restricts the scan to one time class; empty matches all
	TimeClass model.TimeClass
	// Predicate, when set, selects the games returned after the scan
	Predicate filter.Predicate
	// CorrectRatings rewrites post-game ratings into pre-game ratings
	CorrectRatings bool
	// MaxScanned caps the games visited by MostRecent; <= 0 means count*10
	MaxScanned int
}

// Service answers game queries by scanning a player's archive newest first
type Service struct {
	archive Archive
	logger  *slog.Logger
}

// New creates a scanner service
func New(archive Archive, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{archive: archive, logger: logger}
}

type scanned struct {
	game   model.Game
	passed bool
}

// MostRecent returns up to count of the player's latest games passing the
// predicate, oldest first. Every visited game counts towards MaxScanned,
// including games of another time class.
func (s *Service) MostRecent(ctx context.Context, player string, count int, opts Options) ([]model.Game, error) {
	if count <= 0 {
		return []model.Game{}, nil
	}
	maxScanned := opts.MaxScanned
	if maxScanned <= 0 {
		maxScanned = defaultMaxScanned(count)
	}

	index, err := s.archive.PlayerIndex(ctx, player)
	if err != nil {
		return nil, err
	}

	var buf []scanned
	visited, kept := 0, 0
scan:
	for i := len(index) - 1; i >= 0; i-- {
		games, err := s.archive.MonthArchive(ctx, index[i])
		if err != nil {
			return nil, err
		}
		for j := len(games) - 1; j >= 0; j-- {
			visited++
			if matchesTimeClass(games[j], opts.TimeClass) {
				r := record(games[j], opts.Predicate)
				buf = append(buf, r)
				if r.passed {
					kept++
				}
			}
			if kept >= count || visited >= maxScanned {
				break scan
			}
		}
	}

	s.logger.Debug("most recent scan",
		slog.String("player", player),
		slog.Int("visited", visited),
		slog.Int("recorded", len(buf)),
		slog.Int("kept", kept),
	)
	return s.finish(player, buf, opts)
}

// Between returns every game of the player that ended within [start, end]
// and passes the predicate, oldest first. MaxScanned is ignored.
func (s *Service) Between(ctx context.Context, player string, start, end int64, opts Options) ([]model.Game, error) {
	if start > end {
		return []model.Game{}, nil
	}

	index, err := s.archive.PlayerIndex(ctx, player)
	if err != nil {
		return nil, err
	}
	window, err := months.Window(index, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.archive.Prefetch(ctx, window); err != nil {
		return nil, err
	}

	var buf []scanned
	for i := len(window) - 1; i >= 0; i-- {
		games, err := s.archive.MonthArchive(ctx, window[i])
		if err != nil {
			return nil, err
		}
		for j := len(games) - 1; j >= 0; j-- {
			g := games[j]
			if g.EndTime < start || g.EndTime > end || !matchesTimeClass(g, opts.TimeClass) {
				continue
			}
			buf = append(buf, record(g, opts.Predicate))
		}
	}

	s.logger.Debug("between scan",
		slog.String("player", player),
		slog.Int("months", len(window)),
		slog.Int("recorded", len(buf)),
	)
	return s.finish(player, buf, opts)
}

// finish restores chronological order, reconstructs ratings over everything
// recorded and only then drops the games that failed the predicate.
func (s *Service) finish(player string, buf []scanned, opts Options) ([]model.Game, error) {
	slices.Reverse(buf)

	games := make([]model.Game, len(buf))
	for i := range buf {
		games[i] = buf[i].game
	}

	if opts.CorrectRatings {
		summary, err := rating.Reconstruct(games, player)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("reconstructed ratings",
			slog.String("player", player),
			slog.Int("corrected", summary.Corrected),
			slog.Float64("mean_abs_change", summary.MeanAbsChange),
			slog.Int("first_game_estimate", summary.FirstGameEstimate),
		)
	}

	if opts.Predicate == nil {
		return games, nil
	}
	out := make([]model.Game, 0, len(games))
	for i := range games {
		if buf[i].passed {
			out = append(out, games[i])
		}
	}
	return out, nil
}

// defaultMaxScanned is count*10, saturating at math.MaxInt
func defaultMaxScanned(count int) int {
	if count > math.MaxInt/10 {
		return math.MaxInt
	}
	return count * 10
}

func record(g model.Game, pred filter.Predicate) scanned {
	return scanned{game: g, passed: pred == nil || pred(g)}
}

func matchesTimeClass(g model.Game, tc model.TimeClass) bool {
	return tc == "" || g.TimeClass == tc
}
