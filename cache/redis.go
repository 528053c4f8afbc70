package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"keydoctor/config"
)

const pingTimeout = 2 * time.Second

// NewRedis returns nil when REDIS_HOST is unset or the server does not answer
// a ping; probe guarding then stays in-process.
func NewRedis(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) (*redis.Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.RedisHost) == "" {
		log.Infow("redis disabled (missing REDIS_HOST)")
		return nil, nil
	}

	addr := fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort)
	opts := &redis.Options{
		Addr:     addr,
		Username: strings.TrimSpace(cfg.RedisUser),
		Password: cfg.RedisPassword,
	}
	if strings.EqualFold(strings.TrimSpace(cfg.RedisScheme), "rediss") {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Warnw("redis unreachable, probe guard stays in-process", "addr", addr, "err", err)
		return nil, nil
	}
	log.Infow("redis connected", "addr", addr)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := client.Close(); err != nil {
				log.Warnw("redis close failed", "err", err)
			}
			return nil
		},
	})

	return client, nil
}

type NewProbeGuardParams struct {
	fx.In

	Cfg    *config.Config
	Client *redis.Client `optional:"true"`
	Logger *zap.SugaredLogger
}

func NewProbeGuard(p NewProbeGuardParams) ProbeGuard {
	if p.Client == nil {
		return NewLocalGuard()
	}
	p.Logger.Infow("probe_guard_redis", "ttl", p.Cfg.ProbeLockTTL.String())
	return NewRedisGuard(p.Client, p.Cfg.ProbeLockTTL)
}
