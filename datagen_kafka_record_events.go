//go:build datagen_kafka_record_events
// +build datagen_kafka_record_events

package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faker/faker/v4"

	"campusrecords/src/domain"
	"campusrecords/src/infra/kafka"
	"campusrecords/src/services/events"
)

var (
	recordTypes = []string{"RecommendationRequest", "UCSBDiningCommonsMenuItem", "UCSBOrganization", "MenuItemReview"}
	eventTypes  = []domain.RecordEventType{domain.RecordCreated, domain.RecordUpdated, domain.RecordDeleted}
)

func generateEvent() domain.RecordEvent {
	recordID := int64(rand.Intn(10000) + 1)
	record, _ := json.Marshal(map[string]any{
		"id":            recordID,
		"reviewerEmail": faker.Email(),
		"comments":      faker.Sentence(),
	})

	return domain.RecordEvent{
		EventID:    faker.UUIDHyphenated(),
		EventType:  eventTypes[rand.Intn(len(eventTypes))],
		RecordType: recordTypes[rand.Intn(len(recordTypes))],
		RecordID:   recordID,
		Record:     record,
		OccurredAt: time.Now().UTC(),
	}
}

// generateBatch repete alguns eventos para exercitar a deduplicação do change log.
func generateBatch(size int, duplicateRate float64) []domain.RecordEvent {
	batch := make([]domain.RecordEvent, 0, size)
	for i := 0; i < size; i++ {
		if i > 0 && rand.Float64() < duplicateRate {
			batch = append(batch, batch[rand.Intn(len(batch))])
			continue
		}
		batch = append(batch, generateEvent())
	}
	return batch
}

func main() {
	totalMessages := flag.Int("count", 1000, "Total number of events to generate. Use -1 for infinite.")
	batchSize := flag.Int("batch-size", 100, "Number of events per batch")
	topic := flag.String("topic", "record-events", "Kafka topic to send events to")
	brokers := flag.String("brokers", "", "Kafka brokers (comma-separated) (required)")
	duplicateRate := flag.Float64("duplicate-rate", 0.05, "Fraction of events re-sent with the same event id")
	delayMs := flag.Int("delay-ms", 100, "Delay in milliseconds between batches")
	flag.Parse()

	if *brokers == "" {
		log.Fatal("The 'brokers' flag is required")
	}

	kafkaClient, err := kafka.NewKafkaClient(*brokers, "", *batchSize)
	if err != nil {
		log.Fatalf("Failed to create Kafka client: %v", err)
	}
	defer kafkaClient.Close()

	publisher := events.NewRecordEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)), kafkaClient, *topic)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping...")
		cancel()
	}()

	isInfinite := *totalMessages == -1
	sent := 0
	startTime := time.Now()

	for isInfinite || sent < *totalMessages {
		select {
		case <-ctx.Done():
			log.Println("Shutdown requested, stopping event generation")
			return
		default:
		}

		size := *batchSize
		if !isInfinite && *totalMessages-sent < size {
			size = *totalMessages - sent
		}

		if err := publisher.PublishRecordEvents(ctx, generateBatch(size, *duplicateRate)); err != nil {
			log.Printf("Failed to publish batch: %v", err)
			time.Sleep(time.Second)
			continue
		}

		sent += size
		log.Printf("Sent %d events (%.1f/s)", sent, float64(sent)/time.Since(startTime).Seconds())

		time.Sleep(time.Duration(*delayMs) * time.Millisecond)
	}
}
