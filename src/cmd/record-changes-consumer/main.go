package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"campusrecords/src/adapters/kafka/consumers"
	"campusrecords/src/helper/env"
	"campusrecords/src/infra/kafka"
	"campusrecords/src/infra/postgres"
	"campusrecords/src/repositories"
)

func main() {
	log.SetOutput(os.Stdout)
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}
	log.Println("Starting Record Changes Consumer with Uber Fx...")

	app := fx.New(
		// Providers
		fx.Provide(
			newLogger,
			newReadWriteClient,
			newKafkaClient,
			newChangeLogRepository,
			newRecordChangesConsumer,
		),

		// Invocations
		fx.Invoke(startConsumer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start consumer application: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Shutting down record changes consumer...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
	}

	log.Println("Record changes consumer shutdown complete")
}

func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(env.GetString("LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func newReadWriteClient() (*postgres.ReadWriteClient, error) {
	dbReadHost := env.MustGetString("DB_READ_HOST")
	dbWriteHost := env.MustGetString("DB_WRITE_HOST")
	dbReadPort := env.GetString("DB_READ_PORT", "5432")
	dbWritePort := env.GetString("DB_WRITE_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := env.GetInt("DB_MAX_POOL_CONNECTIONS", 10)

	return postgres.NewReadWriteClient(dbReadHost, dbWriteHost, dbReadPort, dbWritePort, dbname, dbUser, dbPassword, maxConnections)
}

func newKafkaClient() (*kafka.KafkaClient, error) {
	brokers := env.MustGetString("KAFKA_BROKERS")
	groupID := env.MustGetString("KAFKA_RECORD_CHANGES_CONSUMER_GROUP_ID")
	batchSize := env.MustGetInt("KAFKA_BATCH_SIZE")

	return kafka.NewKafkaClient(brokers, groupID, batchSize)
}

func newChangeLogRepository(readWriteClient *postgres.ReadWriteClient) *repositories.ChangeLogRepository {
	return repositories.NewChangeLogRepository(readWriteClient.GetWritePool())
}

func newRecordChangesConsumer(
	logger *slog.Logger,
	changeLogRepository *repositories.ChangeLogRepository,
) *consumers.RecordChangesConsumer {
	return consumers.NewRecordChangesConsumer(logger, changeLogRepository)
}

func startConsumer(
	lc fx.Lifecycle,
	logger *slog.Logger,
	readWriteClient *postgres.ReadWriteClient,
	kafkaClient *kafka.KafkaClient,
	recordChangesConsumer *consumers.RecordChangesConsumer,
) {
	// O ctx do OnStart expira ao fim da inicialização; o consumer precisa de um próprio.
	consumeCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			topic := env.GetString("KAFKA_RECORD_EVENTS_TOPIC", "record-events")

			// Start consumer in background
			go func() {
				defer close(done)
				if err := recordChangesConsumer.Start(consumeCtx, kafkaClient, topic); err != nil {
					logger.Error("Consumer failed", "error", err)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()

			select {
			case <-done:
			case <-ctx.Done():
				logger.Warn("Consumer did not stop before the shutdown deadline")
			}

			logger.Info("Shutting down Kafka client...")
			if err := kafkaClient.Close(); err != nil {
				logger.Error("Failed to close Kafka client", "error", err)
				return err
			}
			readWriteClient.Close()

			logger.Info("Kafka client shut down gracefully")
			return nil
		},
	})
}
