package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/clitter/clitter/internal/config"
	"github.com/clitter/clitter/internal/workers"
	"github.com/clitter/clitter/pkg/cache"
	"github.com/clitter/clitter/pkg/logger"
	"github.com/clitter/clitter/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.New(os.Stdout, cfg.Log.Level)
	logger.Info("Starting clitter worker...")

	if !cfg.Kafka.Enabled || !cfg.Redis.Enabled {
		logger.Fatal("The worker needs both kafka and redis enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	consumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, logger.Logger)
	defer consumer.Close()

	worker := workers.NewEventWorker(consumer, cache.NewProfileCache(redisClient, cfg.Cache.ProfileTTL, nil), logger)

	done := make(chan error, 1)
	go func() {
		done <- worker.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down worker...")
		cancel()
		if err := <-done; err != nil {
			logger.WithError(err).Error("Worker stopped with error")
		}
	case err := <-done:
		if err != nil {
			logger.WithError(err).Error("Worker stopped with error")
		}
	}

	logger.Info("Worker exited")
}
