package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"bookkeeper/internal/config"
	"bookkeeper/internal/database"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/migrations"
	"bookkeeper/internal/redis"
	"bookkeeper/internal/repository"
	"bookkeeper/internal/scheduler"
	"bookkeeper/internal/server"
	"bookkeeper/internal/services"
)

func main() {
	cfg := config.Load()
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logr := logger.WithComponent("main")

	db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.DatabaseDebug)
	if err != nil {
		logr.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if _, err := migrations.RunMigrations(db); err != nil {
		logr.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// The dashboard cache is optional; without Redis every request recomputes.
	var cache services.MetricsCache
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL)
		if err != nil {
			logr.Warn().Err(err).Msg("Redis unavailable, dashboard cache disabled")
		} else {
			defer redisClient.Close()
			cache = redisClient
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := services.RegisterMetrics(registry); err != nil {
		logr.Fatal().Err(err).Msg("Failed to register metrics")
	}

	store := repository.NewStore(db)
	svc := server.BuildServices(store, cache, cfg.CacheDuration(), cfg.BackupPrefix)

	job := scheduler.NewAuditJob(svc.Reconcile, cfg.ReconcileRepair)
	sched, err := scheduler.Start(job, cfg.ReconcileAt, cfg.Location())
	if err != nil {
		logr.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	if sched != nil {
		defer sched.Stop()
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := server.NewRouter(svc, server.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Registry:       registry,
		Logger:         logger.WithComponent("http"),
		Health: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})
	if err != nil {
		logr.Fatal().Err(err).Msg("Failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info().Str("port", cfg.ServerPort).Str("driver", cfg.DatabaseDriver).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error().Err(err).Msg("Server shutdown failed")
	}
	logr.Info().Msg("Server stopped")
}
