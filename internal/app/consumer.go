package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-timetrack/internal/activitylog"
	"go-timetrack/internal/events"
	"go-timetrack/internal/messaging/kafka/consumer"
	"go-timetrack/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	activityLogRepo := activitylog.NewRepository(gormDB)
	activityLogService := activitylog.NewService(activityLogRepo)

	timeEntryReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.TimeEntryStoppedTopic,
		GroupID:        "go-timetrack-activity-log",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer timeEntryReader.Close()

	timesheetReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.TimesheetUnlockedTopic,
		GroupID:        "go-timetrack-activity-log",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer timesheetReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeTimeEntryLifecycle(ctx, timeEntryReader, activityLogService, logger)
	go consumer.ConsumeTimesheetLifecycle(ctx, timesheetReader, activityLogService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
