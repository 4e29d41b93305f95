package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"health-assistant/internal/api"
	"health-assistant/internal/config"
	"health-assistant/internal/db"
	"health-assistant/internal/intake"
	"health-assistant/internal/kafka"
	"health-assistant/internal/logging"
	"health-assistant/internal/notifier"
	"health-assistant/internal/providers"
	"health-assistant/internal/scheduler"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// Connect to database
	dbConn, err := db.New(cfg.DB.DSN)
	if err != nil {
		logger.Errorf("Failed to connect to database: %v", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer dbConn.Close()

	// Outbound Telegram sink
	sink, err := providers.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.RatePerSecond, logger)
	if err != nil {
		logger.Errorf("Failed to init Telegram sink: %v", err)
		log.Fatalf("Telegram sink failed: %v", err)
	}

	// Notification dispatcher with its delivery worker pool
	dispatcher := notifier.New(dbConn, sink, logger, cfg.Notifier.QueueSize, cfg.Notifier.MaxWorkers, cfg.Notifier.SendTimeout)
	var wg sync.WaitGroup
	dispatcher.Start(&wg)

	// Synchronous intake pipeline
	pipeline := intake.New(dbConn, dispatcher, logger)

	// Escalation scheduler
	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Errorf("Invalid timezone %q, falling back to UTC: %v", cfg.Scheduler.Timezone, err)
		loc = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	sched := scheduler.New(dbConn, dispatcher, logger, loc)
	sched.Start(ctx, &wg)

	// Optional Kafka intake lane
	var consumer *kafka.Consumer
	if cfg.KafkaEnabled() {
		consumer = kafka.NewConsumer(cfg.Kafka.Broker, cfg.Kafka.Topic, cfg.Kafka.GroupID, pipeline, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			consumer.Start(ctx)
		}()
	}

	// Start API server
	handler := api.NewHandler(dbConn, pipeline, dispatcher, logger)
	router := api.NewRouter(logger, cfg, handler)
	go func() {
		logger.Infof("Starting API server on %s", cfg.API.Port)
		if err := router.Run(cfg.API.Port); err != nil {
			logger.Errorf("API server failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Info("Shutting down...")
	cancel()
	if consumer != nil {
		consumer.Close()
	}
	dispatcher.Stop()
	wg.Wait()
	logger.Info("Service stopped")
}
