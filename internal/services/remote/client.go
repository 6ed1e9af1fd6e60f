package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mcoot/chessarchive/internal/model"
)

// DefaultBaseURL is the public chess.com API root
const DefaultBaseURL = "https://api.chess.com/pub"

// Config holds remote archive client settings
type Config struct {
	// BaseURL is the API root that player paths are appended to
	BaseURL string
	// UserAgent identifies this client to the remote; required
	UserAgent string
	// RequestTimeout bounds each individual call
	RequestTimeout time.Duration
	// MinInterval is the delay enforced before every call across all callers
	MinInterval time.Duration
}

// DefaultConfig returns sensible defaults for the remote client
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		RequestTimeout: 30 * time.Second,
		MinInterval:    500 * time.Millisecond,
	}
}

// Fetcher is the part of the client the cache depends on
type Fetcher interface {
	FetchPlayerIndex(ctx context.Context, player string) ([]byte, error)
	FetchMonthGames(ctx context.Context, monthURL string) ([]byte, error)
}

// Client reads player archives from the remote API. It never retries.
type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Fetcher = (*Client)(nil)

// New creates a client. The limiter starts empty so that even the first call
// waits MinInterval.
func New(cfg Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.UserAgent) == "" {
		return nil, model.ErrMissingIdentity
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	limiter := rate.NewLimiter(limit, 1)
	// Drain the initial token so the first call waits one interval too
	limiter.Allow()

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  cfg.UserAgent,
		timeout:    cfg.RequestTimeout,
		limiter:    limiter,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type archiveIndex struct {
	Archives json.RawMessage `json:"archives"`
}

type monthlyGames struct {
	Games json.RawMessage `json:"games"`
}

// FetchPlayerIndex returns the raw JSON array of month archive URLs
func (c *Client) FetchPlayerIndex(ctx context.Context, player string) ([]byte, error) {
	u := fmt.Sprintf("%s/player/%s/games/archives", c.baseURL, url.PathEscape(player))

	var idx archiveIndex
	if err := c.getJSON(ctx, player, u, &idx); err != nil {
		return nil, err
	}
	if len(idx.Archives) == 0 {
		return nil, &model.RetrievalError{Target: player, Err: errors.New(`response has no "archives" field`)}
	}
	return idx.Archives, nil
}

// FetchMonthGames returns the raw JSON array of games for one month
func (c *Client) FetchMonthGames(ctx context.Context, monthURL string) ([]byte, error) {
	var mg monthlyGames
	if err := c.getJSON(ctx, monthURL, monthURL, &mg); err != nil {
		return nil, err
	}
	if len(mg.Games) == 0 {
		return nil, &model.RetrievalError{Target: monthURL, Err: errors.New(`response has no "games" field`)}
	}
	return mg.Games, nil
}

func (c *Client) getJSON(ctx context.Context, target, u string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return c.retrievalError(ctx, target, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &model.RetrievalError{Target: target, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.retrievalError(ctx, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Info("remote request",
		slog.String("url", u),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &model.RetrievalError{Target: target, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return c.retrievalError(ctx, target, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) retrievalError(ctx context.Context, target string, err error) error {
	timeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
	return &model.RetrievalError{Target: target, Timeout: timeout, Err: err}
}
