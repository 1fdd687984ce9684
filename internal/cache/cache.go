// FilePath: internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/config"
	"github.com/vigilaire/hub/internal/models"
)

// LatestReadings keeps the newest reading per sensor hot, so the dashboard
// list endpoint does not need one store query per sensor. It is strictly an
// accelerator: a miss or a redis failure falls through to the store.
type LatestReadings interface {
	Set(ctx context.Context, reading *models.Reading)
	Get(ctx context.Context, sensorID string) (*models.Reading, bool)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis per the config. When no redis host is configured it
// returns a no-op cache instead.
func New(cfg config.RedisConfig) LatestReadings {
	if !cfg.Enabled() {
		return Nop{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	nuts.L.Infof("[Cache] Latest-reading cache on redis %s:%d", cfg.Host, cfg.Port)
	return &redisCache{client: client, ttl: cfg.TTL}
}

func key(sensorID string) string {
	return "vigilaire:latest:" + sensorID
}

func (c *redisCache) Set(ctx context.Context, reading *models.Reading) {
	payload, err := json.Marshal(reading)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(reading.SensorID), payload, c.ttl).Err(); err != nil {
		nuts.L.Warnf("[Cache] Failed to cache latest reading for %s: %v", reading.SensorID, err)
	}
}

func (c *redisCache) Get(ctx context.Context, sensorID string) (*models.Reading, bool) {
	payload, err := c.client.Get(ctx, key(sensorID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			nuts.L.Warnf("[Cache] Failed to read latest reading for %s: %v", sensorID, err)
		}
		return nil, false
	}
	var reading models.Reading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return nil, false
	}
	return &reading, true
}

// Nop is the cache used when redis is not configured.
type Nop struct{}

func (Nop) Set(context.Context, *models.Reading) {}

func (Nop) Get(context.Context, string) (*models.Reading, bool) { return nil, false }
