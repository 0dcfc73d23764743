package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/onclass/bootcamp-api/internal/api"
	"github.com/onclass/bootcamp-api/internal/capacity"
	"github.com/onclass/bootcamp-api/internal/config"
	"github.com/onclass/bootcamp-api/internal/metrics"
	"github.com/onclass/bootcamp-api/internal/outbox"
	"github.com/onclass/bootcamp-api/internal/pkg/logger"
	"github.com/onclass/bootcamp-api/internal/repository/postgres"
	"github.com/onclass/bootcamp-api/internal/service/bootcamp"
	"github.com/onclass/bootcamp-api/internal/service/enrollment"
	"github.com/onclass/bootcamp-api/internal/userdir"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("configuration load failed", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(logLevel(cfg.Logging.Level))

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		logger.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("redis unreachable, deletion outbox disabled",
				"addr", cfg.Redis.Addr, "error", err)
			rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	capacityClient := capacity.NewClient(capacity.Config{
		BaseURL:    cfg.Capacity.BaseURL,
		Timeout:    time.Duration(cfg.Capacity.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.Capacity.MaxRetries,
	})
	userClient := userdir.NewClient(userdir.Config{
		BaseURL:    cfg.User.BaseURL,
		Timeout:    time.Duration(cfg.User.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.User.MaxRetries,
	})
	reporter := metrics.NewReporter(metrics.Config{
		BaseURL: cfg.Metrics.BaseURL,
		Timeout: time.Duration(cfg.Metrics.TimeoutSeconds) * time.Second,
	})

	bootcampRepo := postgres.NewBootcampRepo(db)
	enrollmentRepo := postgres.NewEnrollmentRepo(db)
	deletionOutbox := outbox.NewStore(rdb)

	bootcampSvc := bootcamp.NewService(bootcampRepo, capacityClient, deletionOutbox)
	enrollmentSvc := enrollment.NewService(enrollmentRepo, bootcampRepo, userClient)

	router := api.SetupRoutes(
		api.NewBootcampHandler(bootcampSvc, reporter),
		api.NewEnrollmentHandler(enrollmentSvc, reporter),
		api.NewHealthHandler(db, rdb),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", "error", err)
	}
}

func logLevel(s string) logger.Level {
	switch strings.ToLower(s) {
	case "debug":
		return logger.DEBUG
	case "warn":
		return logger.WARN
	case "error":
		return logger.ERROR
	default:
		return logger.INFO
	}
}
