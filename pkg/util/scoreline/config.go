package scoreline

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ScorelineConfig contains every tunable that influences predictions and where data lives.
// Defaults come from DefaultScorelineConfig, then an optional YAML file, then SCORELINE_* env vars.
type ScorelineConfig struct {
	// === MATRIX & QUERY PARAMETERS ===

	MaxGoalsTotals     int       `yaml:"max_goals_totals"`     // matrix size for totals queries (default: 8)
	MaxGoalsScorelines int       `yaml:"max_goals_scorelines"` // matrix size for correct score queries (default: 6)
	RateFloor          float64   `yaml:"rate_floor"`           // minimum expected goals per side (default: 0.05)
	OverUnderLines     []float64 `yaml:"over_under_lines"`     // lines priced on every prediction (default: 1.5, 2.5, 3.5)
	TopScorelines      int       `yaml:"top_scorelines"`       // how many exact scores to return (default: 5)

	// === HISTORICAL FEED ===

	FeedBaseURL     string   `yaml:"feed_base_url"`    // football-data.co.uk root
	League          string   `yaml:"league"`           // football-data division code (default: E0)
	Seasons         []string `yaml:"seasons"`          // season codes such as 2324; empty means discover
	DiscoverSeasons int      `yaml:"discover_seasons"` // number of latest seasons to take from the index page
	CacheDir        string   `yaml:"cache_dir"`        // downloaded csv files are kept here
	LocalCSV        string   `yaml:"local_csv"`        // when set, records come from this file instead of the web

	// === STRENGTH STORAGE ===

	Repository    string        `yaml:"repository"` // memory, sqlite or redis
	SQLitePath    string        `yaml:"sqlite_path"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	RedisKey      string        `yaml:"redis_key"`
	RedisTTL      time.Duration `yaml:"redis_ttl"` // zero keeps the snapshot until the next refit

	// === SERVER ===

	MetricsAddr string `yaml:"metrics_addr"` // empty disables the /metrics listener
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
}

// DefaultScorelineConfig returns the default configuration with all standard values
func DefaultScorelineConfig() *ScorelineConfig {
	assets := filepath.Join(os.TempDir(), "scoreline")
	return &ScorelineConfig{
		MaxGoalsTotals:     8,
		MaxGoalsScorelines: 6,
		RateFloor:          DefaultRateFloor,
		OverUnderLines:     []float64{1.5, 2.5, 3.5},
		TopScorelines:      5,

		FeedBaseURL:     "https://www.football-data.co.uk",
		League:          "E0",
		Seasons:         []string{"2324", "2425"},
		DiscoverSeasons: 2,
		CacheDir:        filepath.Join(assets, "cache"),

		Repository: "memory",
		SQLitePath: filepath.Join(assets, "scoreline.db"),
		RedisAddr:  "localhost:6379",
		RedisKey:   "scoreline:strengths",

		LogLevel: "info",
		LogFile:  filepath.Join(assets, "scoreline.log"),
	}
}

// Global configuration instance
var Config *ScorelineConfig

func init() {
	Config = DefaultScorelineConfig()
}

// UpdateConfig replaces the global configuration
func UpdateConfig(c *ScorelineConfig) {
	Config = c
}

// LoadConfig builds a configuration from defaults, the YAML file at path (if any)
// and environment overrides, then validates it.
func LoadConfig(path string) (*ScorelineConfig, error) {
	c := DefaultScorelineConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := ValidateConfig(c); err != nil {
		return nil, err
	}
	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func (c *ScorelineConfig) applyEnv() error {
	c.FeedBaseURL = getEnv("SCORELINE_FEED_URL", c.FeedBaseURL)
	c.League = getEnv("SCORELINE_LEAGUE", c.League)
	c.CacheDir = getEnv("SCORELINE_CACHE_DIR", c.CacheDir)
	c.LocalCSV = getEnv("SCORELINE_LOCAL_CSV", c.LocalCSV)
	c.Repository = getEnv("SCORELINE_REPOSITORY", c.Repository)
	c.SQLitePath = getEnv("SCORELINE_SQLITE_PATH", c.SQLitePath)
	c.RedisAddr = getEnv("SCORELINE_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("SCORELINE_REDIS_PASSWORD", c.RedisPassword)
	c.MetricsAddr = getEnv("SCORELINE_METRICS_ADDR", c.MetricsAddr)
	c.LogLevel = getEnv("SCORELINE_LOG_LEVEL", c.LogLevel)

	if v := getEnv("SCORELINE_SEASONS", ""); v != "" {
		c.Seasons = strings.Split(v, ",")
	}
	if v := getEnv("SCORELINE_RATE_FLOOR", ""); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SCORELINE_RATE_FLOOR: %w", err)
		}
		c.RateFloor = f
	}
	return nil
}

// === CONFIGURATION VALIDATION ===

// ValidateConfig ensures all configuration values are within reasonable ranges
func ValidateConfig(c *ScorelineConfig) error {
	if c.MaxGoalsTotals < 1 || c.MaxGoalsTotals > 20 {
		return fmt.Errorf("MaxGoalsTotals should be between 1 and 20, got: %d", c.MaxGoalsTotals)
	}
	if c.MaxGoalsScorelines < 1 || c.MaxGoalsScorelines > 20 {
		return fmt.Errorf("MaxGoalsScorelines should be between 1 and 20, got: %d", c.MaxGoalsScorelines)
	}
	if !(c.RateFloor > 0) || c.RateFloor > 1 {
		return fmt.Errorf("RateFloor should be in (0, 1], got: %f", c.RateFloor)
	}
	for _, line := range c.OverUnderLines {
		if err := validLine(line); err != nil {
			return fmt.Errorf("OverUnderLines: %w", err)
		}
	}
	if c.TopScorelines < 1 {
		return fmt.Errorf("TopScorelines should be at least 1, got: %d", c.TopScorelines)
	}
	switch c.Repository {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("Repository must be memory, sqlite or redis, got: %q", c.Repository)
	}
	if c.LocalCSV == "" && len(c.Seasons) == 0 && c.DiscoverSeasons < 1 {
		return fmt.Errorf("no seasons configured and season discovery disabled")
	}
	return nil
}
