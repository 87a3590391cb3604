package db

import (
	"net"
	"service-desk/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis_GivesUpAfterRetries(t *testing.T) {
	// Reserve a port and release it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	prev := config.AppConfig
	t.Cleanup(func() { config.AppConfig = prev })
	config.AppConfig = config.Config{}
	config.AppConfig.Redis.Host = "127.0.0.1"
	config.AppConfig.Redis.Port = port
	config.AppConfig.Redis.Retries = 1

	start := time.Now()
	rdb, err := ConnectRedis()

	assert.Nil(t, rdb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping redis")
	// one retry means one backoff wait between the two pings
	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)
}
