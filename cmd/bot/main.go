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

	"orderdesk/internal/bot"
	"orderdesk/internal/commons"
	"orderdesk/internal/config"
	"orderdesk/internal/infrastructure/kafka"
	"orderdesk/internal/infrastructure/logger"
	"orderdesk/internal/infrastructure/metrics"
	"orderdesk/internal/infrastructure/mysql"
	"orderdesk/internal/infrastructure/telegram"
	"orderdesk/internal/order"
	"orderdesk/internal/order/service"
	"orderdesk/internal/order/validator"
	"orderdesk/internal/server"
)

func main() {
	cfg, err := commons.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, "orderdesk-bot")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Bot.Token == "" {
		zapLogger.Fatal("BOT_TOKEN is not set")
	}
	if cfg.Bot.OrdersChatID == 0 {
		zapLogger.Warn("ORDERS_CHAT_ID is not set, submitted orders will not reach staff")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.Order.Store == config.StoreMySQL {
		db, err = mysql.NewConnection(ctx, cfg.Database)
		if err != nil {
			zapLogger.Fatal("connecting to database", zap.Error(err))
		}
		defer db.Close()
		if err := mysql.EnsureSchema(ctx, db); err != nil {
			zapLogger.Fatal("preparing schema", zap.Error(err))
		}
	}

	repo, err := order.NewRepository(cfg.Order, db)
	if err != nil {
		zapLogger.Fatal("creating order store", zap.Error(err))
	}

	client, err := telegram.New(cfg.Bot.Token, cfg.Bot.PollTimeout, zapLogger)
	if err != nil {
		zapLogger.Fatal("starting telegram client", zap.Error(err))
	}

	m := metrics.New(prometheus.DefaultRegisterer, "bot")
	settings := bot.NewSettings(cfg.Bot, cfg.Payment)

	var publisher service.EventPublisher
	if cfg.Kafka.Enabled() {
		p := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, zapLogger)
		defer p.Close()
		publisher = p
	}

	lifecycle := service.NewLifecycleService(repo, bot.NewStaffNotifier(client, settings), publisher, m, zapLogger)
	if _, err := lifecycle.Sweep(ctx, cfg.Order.TTL); err != nil {
		zapLogger.Warn("startup sweep failed", zap.Error(err))
	}

	chatBot := bot.New(bot.NewMemorySessionStore(), lifecycle, validator.New(), settings, m, zapLogger)

	if cfg.Bot.MetricsPort > 0 {
		ops := server.New(cfg.Bot.MetricsPort, server.NewOpsRouter(prometheus.DefaultGatherer), zapLogger)
		go func() {
			if err := ops.Run(ctx, 5*time.Second); err != nil {
				zapLogger.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	zapLogger.Info("bot polling started")
	if err := client.Run(ctx, chatBot); err != nil {
		zapLogger.Error("bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("bot stopped gracefully")
}
