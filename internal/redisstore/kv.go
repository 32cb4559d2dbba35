package redisstore

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const defaultPrefix = "memestock:settings:"

// Config describes the Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// KV stores settings as plain Redis string keys without expiry.
type KV struct {
	client *redis.Client
	prefix string
}

// New connects to Redis and verifies the connection with a PING.
func New(ctx context.Context, c Config) (*KV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "could not reach redis at %s", c.Addr)
	}
	return NewWithClient(client), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client) *KV {
	return &KV{client: client, prefix: defaultPrefix}
}

// Key returns the Redis key used for a setting.
func (k *KV) Key(name string) string {
	return k.prefix + name
}

func (k *KV) Get(ctx context.Context, name string) (string, bool, error) {
	value, err := k.client.Get(ctx, k.Key(name)).Result()
	if err == redis.Nil {
		return "", false, nil
	} else if err != nil {
		return "", false, errors.Wrapf(err, "redis get %s", name)
	}
	return value, true, nil
}

func (k *KV) Set(ctx context.Context, name, value string) error {
	if err := k.client.Set(ctx, k.Key(name), value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", name)
	}
	return nil
}

func (k *KV) Close() error {
	return k.client.Close()
}
