package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"csemotors/web/internal/cache"
	"csemotors/web/internal/config"
	"csemotors/web/internal/database"
	"csemotors/web/internal/handlers"
	"csemotors/web/internal/jobs"
	"csemotors/web/internal/log"
	"csemotors/web/internal/repository"
	"csemotors/web/internal/repository/memory"
	"csemotors/web/internal/security"
	"csemotors/web/internal/server"
	"csemotors/web/internal/service"
	"csemotors/web/internal/session"
	"csemotors/web/internal/storage"
	"csemotors/web/internal/validation"
	"csemotors/web/internal/view"
	"csemotors/web/internal/worker/queue"
)

type repositories struct {
	accounts        service.AccountRepository
	classifications service.ClassificationRepository
	vehicles        service.VehicleRepository
	reviews         service.ReviewRepository
	ping            handlers.PingFunc
	close           func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, "web")

	ctx := context.Background()

	repos := openRepositories(ctx, cfg, logger)

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	var (
		images    service.ImageStore
		taskQueue service.TaskQueue
	)
	if cfg.Storage.Enabled {
		objectStore, err := storage.NewObjectStore(cfg.Storage)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init object store")
		}
		if err := objectStore.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure bucket failed")
		}
		images = objectStore
		taskQueue = queue.NewProducer(redisClient, cfg.Worker.Stream)
	}

	validator := validation.New()
	revoker := session.NewRevoker(redisClient)
	nav := cache.NewClassifications(redisClient, repos.classifications, cfg.Cache.NavTTL, logger)

	accounts := service.NewAccountService(repos.accounts, revoker, security.NewPasswordHasher(security.DefaultArgon2Params), validator, cfg, logger)
	inventory := service.NewInventoryService(repos.classifications, nav, repos.vehicles, images, taskQueue, validator, logger)
	reviews := service.NewReviewService(repos.reviews, repos.vehicles, validator, logger)

	renderer, err := view.NewRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	health := map[string]handlers.PingFunc{
		"cache": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}
	if repos.ping != nil {
		health["database"] = repos.ping
	}

	handlerSet := handlers.NewHandlerSet(handlers.Dependencies{
		Log:        logger,
		Config:     cfg,
		Notices:    session.NewFlashStore(redisClient, cfg.Security.FlashTTL),
		Accounts:   accounts,
		Inventory:  inventory,
		Reviews:    reviews,
		Revocation: revoker,
		Health:     health,
	})
	httpServer := server.NewHTTPServer(cfg, logger, renderer, handlerSet)

	scheduler := jobs.NewScheduler(inventory, cfg.Jobs.NavRefreshSpec, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}
	scheduler.WarmNav()

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, repos, redisClient)
}

// openRepositories connects to postgres. Development without a DSN falls back
// to a seeded in-memory store that is lost on exit.
func openRepositories(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) repositories {
	if cfg.Postgres.DSN == "" && cfg.IsDevelopment() {
		logger.Warn().Msg("no postgres dsn configured, using in-memory store")
		store := memory.NewSeeded()
		return repositories{
			accounts:        store.Accounts(),
			classifications: store.Classifications(),
			vehicles:        store.Vehicles(),
			reviews:         store.Reviews(),
			close:           func() {},
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if cfg.Postgres.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("database migration failed")
		}
	}

	return repositories{
		accounts:        repository.NewAccountRepository(pool),
		classifications: repository.NewClassificationRepository(pool),
		vehicles:        repository.NewVehicleRepository(pool),
		reviews:         repository.NewReviewRepository(pool),
		ping:            pool.Ping,
		close:           pool.Close,
	}
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, repos repositories, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop(shutdownCtx)

	repos.close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
