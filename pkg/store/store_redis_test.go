package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/kotrzina/calassist/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	s := NewRedisStore(&config.Config{RedisAddr: addr, RedisDB: 15})
	if err := s.Ping(); err != nil {
		t.Skipf("Skipping test: could not connect to redis: %v", err)
	}

	require.NoError(t, s.Client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = s.Client.Close() })

	return s
}

func TestRedisStore(t *testing.T) {
	s := setupRedisStore(t)

	_, err := s.GetReply("k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetReply("k", "v", time.Minute))
	got, err := s.GetReply("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, s.AddLink(Link{URL: "u1"}))
	require.NoError(t, s.AddLink(Link{URL: "u2"}))

	links, err := s.GetLinks(0)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "u2", links[0].URL)
}
