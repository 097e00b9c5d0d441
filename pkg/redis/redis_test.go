package redis

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func configFor(t *testing.T, mr *miniredis.Miniredis) Config {
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	return Config{Host: host, Port: port, PoolSize: 2}
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewClient(context.Background(), configFor(t, mr), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := configFor(t, mr)
	mr.Close()

	_, err := NewClient(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", Config{Host: "localhost", Port: "6379"}.Addr())
}

func TestPoolCollector(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewClient(context.Background(), configFor(t, mr), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewPoolCollector(c)))

	n, err := testutil.GatherAndCount(reg, "redis_pool_connections", "redis_pool_hits_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(NewPoolCollector(c)), 5)
}
