package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/util/scoreline"
)

func newTestRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := ConnectRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	repo := NewRedis(client, "scoreline:strengths", ttl)
	t.Cleanup(func() { repo.Close() })
	return repo, mr
}

func TestRedisRepository(t *testing.T) {
	repo, _ := newTestRedis(t, 0)
	exerciseRepository(t, repo)
}

func TestRedisTTLExpiresSnapshot(t *testing.T) {
	repo, mr := newTestRedis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, sampleTable()))
	assert.Equal(t, time.Hour, mr.TTL("scoreline:strengths"))

	mr.FastForward(2 * time.Hour)
	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, scoreline.ErrNoStrengths)
}

func TestRedisCorruptSnapshot(t *testing.T) {
	repo, mr := newTestRedis(t, 0)
	require.NoError(t, mr.Set("scoreline:strengths", "{not json"))

	_, err := repo.Get(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, scoreline.ErrNoStrengths)
}

func TestConnectRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := ConnectRedis(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
