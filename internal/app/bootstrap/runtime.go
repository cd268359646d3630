package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/config"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/journey"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildJourneyStore keeps journeys in Redis. Without Redis, development
// falls back to an in-process store and other environments get nil.
func BuildJourneyStore(redisClient *redis.Client, cfg *appconfig.Config, logger *logging.Logger) journey.Store {
	if logger == nil {
		logger = logging.Default()
	}
	if redisClient != nil {
		return journey.NewRedisStore(redisClient, cfg.JourneyTTL)
	}
	if cfg.Env == "development" {
		logger.Warn("journey state kept in memory; journeys are lost on restart")
		return journey.NewMemoryStore(cfg.JourneyTTL)
	}
	return nil
}
