package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logger"
	"github.com/Domenick1991/flightdesk/internal/notify"
	"github.com/Domenick1991/flightdesk/internal/repository"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	if !cfg.Kafka.Enabled() {
		zl.Error("no kafka brokers configured, nothing to consume")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		zl.Error("connect postgres", "error", err)
		return
	}
	defer pool.Close()

	notifier := notify.NewNotifier(repository.NewPilotRepository(pool), zl)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.EventsTopic, zl)
	defer consumer.Close()

	zl.Info("worker started", "topic", cfg.Kafka.EventsTopic, "group_id", cfg.Kafka.GroupID)
	if err := consumer.Consume(ctx, notifier.Handle); err != nil {
		zl.Error("consumer stopped", "error", err)
		return
	}
	zl.Info("worker stopped")
}
