// Package feed loads historical results and upcoming fixture prices from football-data.co.uk.
package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/internal/logger"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/transport"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/util/scoreline"
)

// CurrentSeasonMaxAge is how long a cached csv for the newest season is trusted.
// Older seasons are complete, so their cache never expires.
const CurrentSeasonMaxAge = 12 * time.Hour

// maxParallelFetches bounds concurrent season downloads.
const maxParallelFetches = 4

type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Client fetches season csv files for one league and caches them on disk.
type Client struct {
	BaseURL  string
	League   string
	Seasons  []string
	Discover int
	CacheDir string

	fetch FetchFunc
	now   func() time.Time
}

func NewClient(cfg *scoreline.ScorelineConfig) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(cfg.FeedBaseURL, "/"),
		League:   cfg.League,
		Seasons:  cfg.Seasons,
		Discover: cfg.DiscoverSeasons,
		CacheDir: cfg.CacheDir,
		fetch:    transport.Get,
		now:      time.Now,
	}
}

// SeasonURL is where football-data publishes one season of results.
func (c *Client) SeasonURL(season string) string {
	return fmt.Sprintf("%s/mmz4281/%s/%s.csv", c.BaseURL, season, c.League)
}

func (c *Client) cacheFile(season string) string {
	return filepath.Join(c.CacheDir, fmt.Sprintf("%s-%s.csv", c.League, season))
}

// FetchSeason returns the raw csv for season, from the cache when it is fresh enough.
func (c *Client) FetchSeason(ctx context.Context, season string, latest bool) ([]byte, error) {
	cacheFilename := c.cacheFile(season)

	if info, err := os.Stat(cacheFilename); err == nil {
		stale := latest && c.now().Sub(info.ModTime()) > CurrentSeasonMaxAge
		if !stale {
			if data, err := os.ReadFile(cacheFilename); err == nil {
				logger.Debug("Returning data from cached file for", c.League, season)
				return data, nil
			}
		} else {
			logger.Info("Cache for current season is stale:", cacheFilename)
		}
	}

	logger.Info("Fetching historical data from football-data.co.uk for", c.League, season)
	data, err := c.fetch(ctx, c.SeasonURL(season))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch season %s: %w", season, err)
	}

	if err := os.MkdirAll(c.CacheDir, 0755); err != nil {
		logger.Warn("Failed to create cache dir", c.CacheDir, err)
	} else if err := os.WriteFile(cacheFilename, data, 0644); err != nil {
		logger.Warn("Failed to write cache file", cacheFilename, err)
	}
	return data, nil
}

// ResolveSeasons returns the configured seasons, or discovers the latest ones
// from the league index page when none are configured. Oldest first.
func (c *Client) ResolveSeasons(ctx context.Context) ([]string, error) {
	if len(c.Seasons) > 0 {
		var codes []string
		for _, s := range c.Seasons {
			code, err := NormalizeSeason(s)
			if err != nil {
				return nil, err
			}
			codes = append(codes, code)
		}
		sortSeasons(codes)
		return codes, nil
	}

	url := fmt.Sprintf("%s/%s", c.BaseURL, indexPage(c.League))
	html, err := c.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch season index: %w", err)
	}
	found, err := DiscoverSeasons(html, c.League)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no seasons for %s listed at %s", c.League, url)
	}
	if c.Discover > 0 && len(found) > c.Discover {
		found = found[:c.Discover]
	}
	sortSeasons(found)
	logger.Info("Discovered seasons", strings.Join(found, ","))
	return found, nil
}

// Records downloads every season concurrently and returns their matches in season order.
func (c *Client) Records(ctx context.Context) ([]scoreline.MatchRecord, error) {
	seasons, err := c.ResolveSeasons(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]scoreline.MatchRecord, len(seasons))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, season := range seasons {
		g.Go(func() error {
			data, err := c.FetchSeason(gctx, season, i == len(seasons)-1)
			if err != nil {
				return err
			}
			matches, err := ParseCSV(data, season)
			if err != nil {
				return fmt.Errorf("season %s: %w", season, err)
			}
			results[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []scoreline.MatchRecord
	for i, matches := range results {
		logger.Info("Processed", len(matches), "matches for", c.League, seasons[i])
		all = append(all, matches...)
	}
	return all, nil
}

// Fixtures returns upcoming fixtures for the client's league with their 2.5 line prices.
func (c *Client) Fixtures(ctx context.Context) ([]Fixture, error) {
	data, err := c.fetch(ctx, c.BaseURL+"/fixtures.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fixtures: %w", err)
	}
	return ParseFixtures(data, c.League)
}

// ImpliedTotal looks up the fixture and converts its over/under prices into an
// expected total goals figure. ok is false when the fixture is not listed or not priced.
func (c *Client) ImpliedTotal(ctx context.Context, home, away string) (total float64, ok bool, err error) {
	fixtures, err := c.Fixtures(ctx)
	if err != nil {
		return 0, false, err
	}
	for _, f := range fixtures {
		if !strings.EqualFold(f.HomeTeam, home) || !strings.EqualFold(f.AwayTeam, away) {
			continue
		}
		if !f.HasPrices() {
			return 0, false, nil
		}
		total, err := scoreline.ImpliedTotalGoals(f.OverPrice, f.UnderPrice, FixtureLine)
		if err != nil {
			return 0, false, err
		}
		return total, true, nil
	}
	return 0, false, nil
}

// FileSource reads results from a local csv in the football-data layout.
type FileSource struct {
	Path string
}

func (f FileSource) Records(context.Context) ([]scoreline.MatchRecord, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	return ParseCSV(data, "")
}

// NewSource picks the local file when one is configured, the web client otherwise.
func NewSource(cfg *scoreline.ScorelineConfig) scoreline.RecordSource {
	if cfg.LocalCSV != "" {
		return FileSource{Path: cfg.LocalCSV}
	}
	return NewClient(cfg)
}
