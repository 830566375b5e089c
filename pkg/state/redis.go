// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTTL is the default TTL for player records in Redis (30 days)
	DefaultTTL = 30 * 24 * time.Hour
)

// RedisOptions configures InitRedisClient.
type RedisOptions struct {
	Host       string
	Port       string
	Password   string
	MaxRetries uint64
}

// InitRedisClient creates a Redis client and pings it with exponential backoff.
func InitRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Host + ":" + opts.Port,
		Password:     opts.Password,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = 5
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)

	err := backoff.Retry(func() error {
		if _, err := client.Ping(ctx).Result(); err != nil {
			logrus.Warnf("Redis connection failed: %v, retrying...", err)
			return err
		}
		return nil
	}, b)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s:%s: %w", opts.Host, opts.Port, err)
	}

	logrus.Infof("connected to Redis at %s:%s", opts.Host, opts.Port)
	return client, nil
}

// RedisKV stores records as Redis strings with a TTL.
type RedisKV struct {
	client *redis.Client
	ttl    time.Duration
}

var _ KV = (*RedisKV)(nil)

// NewRedisKV wraps client. A zero ttl uses DefaultTTL.
func NewRedisKV(client *redis.Client, ttl time.Duration) *RedisKV {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &RedisKV{client: client, ttl: ttl}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		logrus.Errorf("failed to get %s: %v", key, err)
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		logrus.Errorf("failed to set %s: %v", key, err)
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	logrus.Debugf("updated %s with TTL %v", key, r.ttl)
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		logrus.Errorf("failed to delete %s: %v", key, err)
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
