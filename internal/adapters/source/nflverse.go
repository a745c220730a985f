package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/sackigami/internal/domain/dataset"
	"github.com/okian/sackigami/pkg/logger"
	"github.com/okian/sackigami/pkg/metrics"
)

// Default nflverse source configuration constants.
const (
	DefaultBaseURL     = "https://github.com/nflverse/nflverse-data/releases/download/stats_team"
	DefaultFirstSeason = 1999

	defaultHTTPTimeout = 30 * time.Second
	userAgent          = "sackigami/1.0 (+https://github.com/okian/sackigami)"
	errBodyLimit       = 1024
)

// Option applies a configuration option to NFLVerse.
type Option func(*NFLVerse)

// WithBaseURL sets the release URL the season files are downloaded from.
func WithBaseURL(url string) Option {
	return func(n *NFLVerse) {
		if url != "" {
			n.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(n *NFLVerse) {
		if c != nil {
			n.client = c
		}
	}
}

// WithCache serves finished seasons from c.
func WithCache(c SeasonCache) Option {
	return func(n *NFLVerse) {
		n.cache = c
	}
}

// WithFirstSeason sets the earliest season loaded.
func WithFirstSeason(season int) Option {
	return func(n *NFLVerse) {
		if season > 0 {
			n.firstSeason = season
		}
	}
}

// WithClock sets the time source used to find the current season.
func WithClock(now func() time.Time) Option {
	return func(n *NFLVerse) {
		if now != nil {
			n.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(n *NFLVerse) {
		if l != nil {
			n.log = l
		}
	}
}

// NFLVerse downloads the per-season team-week files published by nflverse.
type NFLVerse struct {
	baseURL     string
	client      *http.Client
	cache       SeasonCache
	firstSeason int
	now         func() time.Time
	log         logger.Logger
}

// NewNFLVerse creates the nflverse source.
func NewNFLVerse(opts ...Option) *NFLVerse {
	n := &NFLVerse{
		baseURL:     DefaultBaseURL,
		client:      &http.Client{Timeout: defaultHTTPTimeout},
		firstSeason: DefaultFirstSeason,
		now:         time.Now,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// URL returns the download location of season.
func (n *NFLVerse) URL(season int) string {
	return fmt.Sprintf("%s/stats_team_week_%d.csv", n.baseURL, season)
}

// Load implements Source. Seasons are concatenated in ascending order; any
// failure aborts the whole load.
func (n *NFLVerse) Load(ctx context.Context) (*dataset.Dataset, error) {
	current := CurrentSeason(n.now())
	if current < n.firstSeason {
		return nil, fmt.Errorf("%w: first season %d is after current season %d", ErrFetch, n.firstSeason, current)
	}

	var rows []dataset.Row
	for season := n.firstSeason; season <= current; season++ {
		body, err := n.season(ctx, season, season < current)
		if err != nil {
			metrics.RecordErrorByComponent("source", "fetch")
			return nil, err
		}

		parsed, err := parseCSV(bytes.NewReader(body), []string{ColSeasonType})
		if err != nil {
			metrics.RecordErrorByComponent("source", "parse")
			return nil, fmt.Errorf("season %d: %w", season, err)
		}
		rows = append(rows, parsed...)
	}

	n.log.Info(ctx, "dataset loaded",
		logger.Int("first_season", n.firstSeason),
		logger.Int("current_season", current),
		logger.Int("rows", len(rows)))
	return dataset.New(rows...), nil
}

// season returns the raw file of season. Finished seasons go through the
// cache; the running season is always downloaded.
func (n *NFLVerse) season(ctx context.Context, season int, finished bool) ([]byte, error) {
	if finished && n.cache != nil {
		body, ok, err := n.cache.Get(ctx, season)
		if err != nil {
			n.log.Warn(ctx, "season cache read failed", logger.Int("season", season), logger.Error(err))
		} else if ok {
			metrics.RecordSeasonLoaded(metrics.OriginCache)
			return body, nil
		}
	}

	body, err := n.download(ctx, season)
	if err != nil {
		return nil, err
	}
	metrics.RecordSeasonLoaded(metrics.OriginNetwork)

	if finished && n.cache != nil {
		if err := n.cache.Put(ctx, season, body); err != nil {
			n.log.Warn(ctx, "season cache write failed", logger.Int("season", season), logger.Error(err))
		}
	}
	return body, nil
}

func (n *NFLVerse) download(ctx context.Context, season int) ([]byte, error) {
	start := time.Now()
	url := n.URL(season)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrFetch, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return nil, fmt.Errorf("%w: %s: %s (%s)", ErrFetch, url, resp.Status, strings.TrimSpace(string(b)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrFetch, url, err)
	}

	metrics.RecordSeasonFetch(time.Since(start))
	n.log.Debug(ctx, "season downloaded", logger.Int("season", season), logger.Int("bytes", len(body)))
	return body, nil
}

// CurrentSeason returns the NFL season running at now. A season starts on
// the first Thursday of September; earlier dates belong to the previous one.
func CurrentSeason(now time.Time) int {
	year := now.Year()
	if now.Before(seasonStart(year)) {
		return year - 1
	}
	return year
}

func seasonStart(year int) time.Time {
	d := time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Thursday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
