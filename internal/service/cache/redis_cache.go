package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"demandcast/internal/domain/models"
	xlogger "demandcast/pkg/logger"
)

// RedisCache shares the forecast cache across replicas. Payloads travel as
// the JSON the API would serve anyway, so a hit replays byte-equivalent data.
type RedisCache struct {
	cli    *redis.Client
	prefix string
	logger *xlogger.Logger
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func NewRedisCache(cfg RedisConfig, logger *xlogger.Logger) *RedisCache {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "forecast:"
	}
	return &RedisCache{cli: rdb, prefix: prefix, logger: logger}
}

func (r *RedisCache) Get(ctx context.Context, key string) (*models.ForecastResponse, bool) {
	b, err := r.cli.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("redis cache read failed", xlogger.String("key", key), xlogger.Error(err))
		}
		return nil, false
	}
	var resp models.ForecastResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		r.logger.Warn("redis cache entry corrupt, dropping", xlogger.String("key", key), xlogger.Error(err))
		return nil, false
	}
	return &resp, true
}

func (r *RedisCache) Set(ctx context.Context, key string, v *models.ForecastResponse, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		r.logger.Warn("redis cache marshal failed", xlogger.String("key", key), xlogger.Error(err))
		return
	}
	if err := r.cli.Set(ctx, r.prefix+key, b, ttl).Err(); err != nil {
		r.logger.Warn("redis cache write failed", xlogger.String("key", key), xlogger.Error(err))
	}
}
