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
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := validators.Register(); err != nil {
		zl.Fatal("failed to register validators", zap.Error(err))
	}

	db, err := dbpkg.NewDB(cfg, zl)
	if err != nil {
		zl.Fatal("failed to connect database", zap.Error(err))
	}

	if cfg.Seed {
		if err := dbpkg.Seed(context.Background(), db, cfg.SeedAdminPassword, zl); err != nil {
			zl.Fatal("failed to seed database", zap.Error(err))
		}
	}

	// ------------------------------
	// eventos de auditoria
	// ------------------------------
	sinks := []audit.Sink{audit.NewGormSink(db)}
	var kafkaSink *audit.KafkaSink
	if cfg.Kafka.Enabled() {
		kafkaSink = audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		sinks = append(sinks, kafkaSink)
		zl.Info("publishing appointment events to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	dispatcher := audit.NewDispatcher(zl, sinks...)

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zl.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		rdb = redis.NewClient(opts)
	} else {
		zl.Warn("REDIS_URL not set, booking rate limit disabled")
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Log:    zl,
		Audit:  dispatcher,
		Redis:  rdb,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}

	// o dispatcher drena a fila antes de fechar os sinks
	dispatcher.Close()
	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			zl.Error("kafka writer close", zap.Error(err))
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
