// file: db/redis.go

package db

import (
	"context"
	"fmt"
	"net"
	"service-desk/config"
	"service-desk/logger"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client for the session and cache store, retrying the
// initial ping with exponential backoff.
func ConnectRedis() (*redis.Client, error) {
	cfg := config.AppConfig.Redis
	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	tries := uint(1)
	if cfg.Retries > 0 {
		tries += uint(cfg.Retries)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.Multiplier = 2

	attempt := 0
	_, err := backoff.Retry(context.Background(), func() (string, error) {
		attempt++
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return rdb.Ping(ctx).Result()
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, wait time.Duration) {
			logger.Log.WithError(err).Warnf("Redis not ready, retry in %v (%d/%d)", wait, attempt, cfg.Retries)
		}),
	)
	if err == nil {
		logger.Log.WithField("address", addr).Info("Redis connection established successfully")
		return rdb, nil
	}

	logger.Log.WithError(err).WithField("address", addr).Error("Failed to ping Redis")
	rdb.Close()
	return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
}
