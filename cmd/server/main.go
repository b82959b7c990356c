package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"orderdesk/internal/commons"
	"orderdesk/internal/config"
	"orderdesk/internal/infrastructure/kafka"
	"orderdesk/internal/infrastructure/logger"
	"orderdesk/internal/infrastructure/metrics"
	"orderdesk/internal/infrastructure/mysql"
	"orderdesk/internal/order"
	"orderdesk/internal/product"
	"orderdesk/internal/server"
)

func main() {
	cfg, err := commons.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, "orderdesk-server")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	var db *sql.DB
	if cfg.Catalog.Enabled || cfg.Order.Store == config.StoreMySQL {
		db, err = mysql.NewConnection(ctx, cfg.Database)
		if err != nil {
			zapLogger.Fatal("connecting to database", zap.Error(err))
		}
		defer db.Close()
		if err := mysql.EnsureSchema(ctx, db); err != nil {
			zapLogger.Fatal("preparing schema", zap.Error(err))
		}
		zapLogger.Info("database connected")
	}

	repo, err := order.NewRepository(cfg.Order, db)
	if err != nil {
		zapLogger.Fatal("creating order store", zap.Error(err))
	}

	m := metrics.New(prometheus.DefaultRegisterer, "server")
	deps := order.Deps{Recorder: m}

	if cfg.Kafka.Enabled() {
		publisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, zapLogger)
		defer publisher.Close()
		deps.Publisher = publisher
		zapLogger.Info("publishing order events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	var productCtrl *product.Controller
	if cfg.Catalog.Enabled {
		productModule := product.NewModule(db, zapLogger)
		productCtrl = productModule.Controller
		deps.Catalog = productModule.Service
	}

	orderModule := order.NewModule(repo, cfg, deps, zapLogger)

	if _, err := orderModule.Lifecycle.Sweep(ctx, cfg.Order.TTL); err != nil {
		zapLogger.Warn("startup sweep failed", zap.Error(err))
	}

	router := server.NewRouter(server.RouterDeps{
		Orders:   orderModule.Controller,
		Products: productCtrl,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Logger:   zapLogger,
	})

	srv := server.New(cfg.Server.Port, router, zapLogger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, 10*time.Second); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
