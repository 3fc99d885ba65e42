// Package store holds the StrengthRepository implementations.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/internal/logger"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/util/scoreline"
)

type Repository interface {
	scoreline.StrengthRepository
	Close() error
}

var (
	_ Repository = (*Memory)(nil)
	_ Repository = (*SQLite)(nil)
	_ Repository = (*Redis)(nil)
)

// Open builds the repository selected by cfg.Repository.
func Open(ctx context.Context, cfg *scoreline.ScorelineConfig) (Repository, error) {
	switch cfg.Repository {
	case "memory", "":
		return NewMemory(), nil
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("creating %s: %w", dir, err)
			}
		}
		return OpenSQLite(ctx, cfg.SQLitePath)
	case "redis":
		client, err := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		logger.Info("Using redis strength store", cfg.RedisAddr)
		return NewRedis(client, cfg.RedisKey, cfg.RedisTTL), nil
	default:
		return nil, fmt.Errorf("unknown repository %q", cfg.Repository)
	}
}
