package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/util/scoreline"
)

// ConnectRedis opens a client and checks the server answers.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// Redis stores the table as one JSON document, so several processes can share a fit.
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, key string, ttl time.Duration) *Redis {
	return &Redis{client: client, key: key, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context) (*scoreline.StrengthTable, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, scoreline.ErrNoStrengths
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	var table scoreline.StrengthTable
	if err := json.Unmarshal(b, &table); err != nil {
		return nil, fmt.Errorf("decoding strength table: %w", err)
	}
	return &table, nil
}

func (r *Redis) Put(ctx context.Context, table *scoreline.StrengthTable) error {
	b, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encoding strength table: %w", err)
	}
	if err := r.client.Set(ctx, r.key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
