package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/subcore/company-service/internal/app"
	"github.com/subcore/company-service/internal/company"
	"github.com/subcore/company-service/internal/identity"
	"github.com/subcore/company-service/internal/member"
	"github.com/subcore/company-service/internal/observability"
	"github.com/subcore/company-service/internal/platform/cache"
	"github.com/subcore/company-service/internal/platform/db"
	"github.com/subcore/company-service/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := db.Migrate(cfg.PGDSN, cfg.MigrationsPath); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	userRepo := users.NewRepository(pool)
	userService := users.NewService(userRepo)

	verifier := identity.NewClient(cfg.UserServiceBaseURL, cfg.UserServiceKey, cfg.UserServiceID, cfg.UserServiceTimeout)
	gateway := identity.NewGateway(identity.GatewayConfig{
		Verifier: verifier,
		Cache:    identity.NewRedisTokenCache(redisClient),
		TTL:      cfg.TokenCacheTTL,
		Logger:   logger,
		Metrics:  metrics,
		Syncer:   userService,
	})

	companyRepo := company.NewRepository(pool)
	companyService := company.NewService(companyRepo, userService)
	companyHandler := company.NewHandler(logger, companyService)

	memberRepo := member.NewRepository(pool)
	memberService := member.NewService(memberRepo, userService)
	memberHandler := member.NewHandler(logger, memberService)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Gateway:        gateway,
		CompanyHandler: companyHandler,
		MemberHandler:  memberHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}
