package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"talent-portal/internal/config"
	"talent-portal/internal/domain"
	apphttp "talent-portal/internal/http"
	"talent-portal/internal/metrics"
	"talent-portal/internal/notify"
	"talent-portal/internal/repository/memory"
	"talent-portal/internal/service"
	"talent-portal/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	accounts, err := service.DefaultAccounts(cfg.Auth.AdminPassword, cfg.Auth.HRPassword, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatalf("seed accounts: %v", err)
	}
	accountRepo := memory.NewAccountRepository(accounts...)
	sessionRepo := memory.NewSessionRepository()

	var seed []domain.Job
	if cfg.Jobs.Seed {
		seed = service.DefaultJobs(time.Now())
	}
	jobRepo := memory.NewJobRepository(seed...)

	authService, err := service.NewAuthService(accountRepo, sessionRepo, service.AuthConfig{
		TTL:        cfg.Session.TTL,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
		Metrics:    m,
	})
	if err != nil {
		logger.Fatalf("setup auth: %v", err)
	}
	go service.RunSessionSweeper(ctx, authService, cfg.Session.SweepInterval, logger)

	jobService := service.NewJobService(jobRepo, service.JobConfig{Logger: logger, Metrics: m})

	notifier, err := buildNotifier(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup notifier: %v", err)
	}

	cleanup := storage.NewCleanupScheduler(storage.CleanupConfig{
		Delay:   cfg.Upload.CleanupDelay,
		Logger:  logger,
		Metrics: m,
	})
	intakeService := service.NewIntakeService(service.IntakeConfig{
		From:     cfg.Notify.From,
		To:       cfg.Notify.To,
		Notifier: notifier,
		Cleanup:  cleanup,
		Logger:   logger,
		Metrics:  m,
	})
	stager := storage.NewLocalStager(cfg.Upload.Dir, cfg.Upload.MaxBytes)

	var limiter gin.HandlerFunc
	if rdb := buildRedis(ctx, cfg, logger); rdb != nil {
		defer rdb.Close()
		limiter = apphttp.NewRateLimiter(rdb, apphttp.RateLimitConfig{
			Capacity:       cfg.RateLimit.Capacity,
			RefillInterval: cfg.RateLimit.RefillInterval,
		}, logger)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(authService, jobService, intakeService, stager, apphttp.Config{
		CookieName:     cfg.Session.CookieName,
		CookieSecret:   cfg.Session.Secret,
		SecureCookie:   cfg.Session.SecureCookie,
		MaxUploadBytes: stager.MaxBytes(),
		StaticDir:      staticDir(cfg.Server.StaticDir, logger),
		AllowOrigins:   cfg.Server.AllowOrigins,
		RateLimit:      limiter,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:         logger,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	cleanup.Shutdown()

	logger.Info("bye")
}

func buildNotifier(ctx context.Context, cfg config.Config, logger *logrus.Logger) (notify.Notifier, error) {
	if cfg.Notify.Driver != "gmail" {
		logger.Info("notifications go to the log")
		return notify.NewLogNotifier(logger), nil
	}
	n, err := notify.NewGmailNotifier(ctx, notify.GmailConfig{
		CredentialsFile: cfg.Notify.Gmail.CredentialsFile,
		TokenFile:       cfg.Notify.Gmail.TokenFile,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Infof("notifications sent via gmail to %s", cfg.Notify.To)
	return n, nil
}

// buildRedis returns nil when rate limiting is not configured or redis is
// unreachable at startup.
func buildRedis(ctx context.Context, cfg config.Config, logger *logrus.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warnf("redis unavailable, rate limiting disabled: %v", err)
		_ = client.Close()
		return nil
	}
	logger.Infof("rate limiting via redis at %s", cfg.Redis.Addr)
	return client
}

func staticDir(dir string, logger *logrus.Logger) string {
	if dir == "" {
		return ""
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Warnf("static dir %s not found, pages will not be served", dir)
		return ""
	}
	return dir
}
