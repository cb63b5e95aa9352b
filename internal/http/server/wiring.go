// Package server arma el handler HTTP completo con todas sus dependencias.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dropDatabas3/authcore/internal/cache"
	"github.com/dropDatabas3/authcore/internal/config"
	"github.com/dropDatabas3/authcore/internal/domain/repository"
	authctrl "github.com/dropDatabas3/authcore/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/authcore/internal/http/controllers/health"
	"github.com/dropDatabas3/authcore/internal/http/router"
	authsvc "github.com/dropDatabas3/authcore/internal/http/services/auth"
	healthsvc "github.com/dropDatabas3/authcore/internal/http/services/health"
	jwtx "github.com/dropDatabas3/authcore/internal/jwt"
	"github.com/dropDatabas3/authcore/internal/metrics"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
	"github.com/dropDatabas3/authcore/internal/rate"
	"github.com/dropDatabas3/authcore/internal/store/memory"
	"github.com/dropDatabas3/authcore/internal/store/pg"
	"github.com/dropDatabas3/authcore/internal/token"
)

// Build arma el handler con todo cableado y devuelve el cleanup de recursos.
func Build(ctx context.Context, cfg *config.Config) (http.Handler, func() error, error) {
	log := logger.L().With(logger.Component("server.wiring"))

	// 1. Claves y codec.
	keys, err := jwtx.LoadOrGenerate(cfg.JWT.KeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("key material: %w", err)
	}
	codec := jwtx.NewCodec(keys, cfg.JWT.Issuer)

	issuer := jwtx.NewIssuer(codec)
	issuer.AccessTTL = config.Duration(cfg.JWT.AccessTTL)
	issuer.RefreshTTL = config.Duration(cfg.JWT.RefreshTTL)

	// 2. Store autoritativo.
	var (
		users     repository.UserRepository
		revoked   repository.RevokedTokenRepository
		storePing func(ctx context.Context) error
		pgStore   *pg.Store
		cleanup   = func() error { return nil }
	)
	switch cfg.Storage.Driver {
	case "postgres":
		pgStore, err = pg.New(ctx, cfg.Storage.DSN, pg.Config{
			MaxConns:        int32(cfg.Storage.Postgres.MaxConns),
			MinConns:        int32(cfg.Storage.Postgres.MinConns),
			ConnMaxLifetime: config.Duration(cfg.Storage.Postgres.ConnMaxLifetime),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		users, revoked, storePing = pgStore, pgStore, pgStore.Ping
		cleanup = func() error { pgStore.Close(); return nil }
	case "memory":
		log.Warn("memory storage driver: todo se pierde al reiniciar")
		mem := memory.New()
		users, revoked, storePing = mem, mem, mem.Ping
	default:
		return nil, nil, fmt.Errorf("storage driver desconocido: %q", cfg.Storage.Driver)
	}

	// 3. Cache.
	cacheClient, err := cache.New(cache.Config{
		Driver:     cfg.Cache.Driver,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: config.Duration(cfg.Cache.RevocationTTL),
	})
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("cache: %w", err)
	}
	storeCleanup := cleanup
	cleanup = func() error {
		cerr := cacheClient.Close()
		if serr := storeCleanup(); serr != nil {
			return serr
		}
		return cerr
	}

	// 4. Núcleo de tokens.
	revocations := token.NewRevocationStore(revoked, cacheClient, config.Duration(cfg.Cache.RevocationTTL))
	validator := token.NewValidator(codec, revocations, users)
	revoker := token.NewRevoker(revocations, users)

	// 5. Services y controllers.
	services := authsvc.New(authsvc.Deps{
		Users:     users,
		Issuer:    issuer,
		Validator: validator,
		Revoker:   revoker,
	})
	authControllers := authctrl.NewControllers(services)

	healthController := healthctrl.NewHealthController(healthsvc.NewHealthService(healthsvc.Deps{
		Codec:      codec,
		StoreCheck: storePing,
		CacheCheck: cacheClient.Ping,
	}))

	// 6. Métricas.
	var mcfg metrics.Config
	if pgStore != nil {
		mcfg.Pool = pgStore.Pool
	}
	metricsHandler, err := metrics.Register(mcfg)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("metrics: %w", err)
	}

	// 7. Rate limiter.
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		window := config.Duration(cfg.Rate.Window)
		if rdb, ok := cache.RedisBackend(cacheClient); ok {
			limiter = rate.NewRedisLimiter(rdb, cfg.Cache.Redis.Prefix+":rl:", cfg.Rate.MaxRequests, window)
		} else {
			limiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, window)
		}
	}

	// 8. Janitor de jtis revocados.
	janitor := token.NewJanitor(revoked, config.Duration(cfg.GC.Retention), config.Duration(cfg.GC.Interval))
	go janitor.Run(logger.ToContext(ctx, logger.L()))

	handler := router.New(router.Deps{
		Auth:      authControllers,
		Health:    healthController,
		Validator: validator,
		Limiter:   limiter,
		Metrics:   metricsHandler,
	})

	log.Info("handler wired",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("cache", cfg.Cache.Driver),
		logger.Bool("rate_limit", cfg.Rate.Enabled),
	)
	return handler, cleanup, nil
}
