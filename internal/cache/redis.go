package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movierec-web/internal/config"
	"movierec-web/internal/logging"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// JSONCache guarda valores serializados en JSON con TTL.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Redis implementa JSONCache sobre go-redis.
type Redis struct {
	client *redis.Client
}

// New devuelve Noop si no hay REDIS_ADDR configurado.
func New(ctx context.Context, cfg *config.Config) (JSONCache, error) {
	if cfg.RedisAddr == "" {
		logging.Debug().Msg("[cache] sin redis_addr, cache deshabilitada")
		return Noop{}, nil
	}
	return NewRedis(ctx, cfg.RedisAddr, cfg.RedisPass)
}

func NewRedis(ctx context.Context, addr, password string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectando a redis %s: %w", addr, err)
	}

	logging.Info().Str("addr", addr).Msg("[cache] redis OK")
	return &Redis{client: client}, nil
}

// GetJSON lee una key; si existe deserializa el JSON en dest.
func (r *Redis) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serializa value y lo guarda con TTL.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, b, ttl).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Noop no guarda nada.
type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) (bool, error)         { return false, nil }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
