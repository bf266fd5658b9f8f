package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/askage/askage-service/internal/config"
	api "github.com/askage/askage-service/internal/http"
	"github.com/askage/askage-service/internal/log"
	"github.com/askage/askage-service/internal/metrics"
	"github.com/askage/askage-service/internal/oauth"
	"github.com/askage/askage-service/internal/queue"
	"github.com/askage/askage-service/internal/repo"
)

func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := repo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	var rds *repo.Redis
	if cfg.RedisAddr != "" {
		rds = repo.NewRedis(cfg.RedisAddr)
		if err := rds.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, rate limiting disabled", zap.Error(err))
			rds = nil
		} else {
			defer rds.Close()
		}
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		p, err := queue.NewRabbit(cfg.RabbitURL, queue.Exchange)
		if err != nil {
			logger.Warn("rabbit unreachable, events disabled", zap.Error(err))
		} else {
			pub = p
			defer pub.Close()
		}
	}

	google := oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret,
		cfg.GoogleRedirectURI, cfg.OAuthStateSecret)

	h := api.NewHandler(store, google, rds, cfg.RateLimitPerMin, pub)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("askage-service listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
