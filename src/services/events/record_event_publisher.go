package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"campusrecords/src/domain"
	"campusrecords/src/infra/kafka"
)

const (
	sourceService = "campus-records-api"
	schemaVersion = "v1"
)

// MessageProducer é a parte do KafkaClient usada para publicar.
type MessageProducer interface {
	Producer(messages []kafka.Message, topic string) error
}

type RecordEventPublisher struct {
	logger   *slog.Logger
	producer MessageProducer
	topic    string
}

func NewRecordEventPublisher(
	logger *slog.Logger,
	producer MessageProducer,
	topic string,
) *RecordEventPublisher {
	return &RecordEventPublisher{
		logger:   logger,
		producer: producer,
		topic:    topic,
	}
}

// PublishRecordEvents publica um lote de eventos. Eventos que não serializam são
// descartados com log; o restante segue para o broker.
func (p *RecordEventPublisher) PublishRecordEvents(ctx context.Context, events []domain.RecordEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))

	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("Failed to marshal record event",
				"error", err,
				"event_id", event.EventID,
				"record_type", event.RecordType)
			continue
		}

		messages = append(messages, kafka.Message{
			Key:     event.PartitionKey(),
			Value:   value,
			Headers: eventHeaders(event),
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Producer(messages, p.topic); err != nil {
		return fmt.Errorf("failed to publish record events to topic %s: %w", p.topic, err)
	}

	p.logger.Debug("Published record events", "topic", p.topic, "events_count", len(messages))

	return nil
}

func (p *RecordEventPublisher) PublishRecordEvent(ctx context.Context, event domain.RecordEvent) error {
	return p.PublishRecordEvents(ctx, []domain.RecordEvent{event})
}

// eventHeaders permite filtrar eventos sem desserializar o payload.
func eventHeaders(event domain.RecordEvent) map[string]string {
	return map[string]string{
		"event_type":     string(event.EventType),
		"record_type":    event.RecordType,
		"record_id":      strconv.FormatInt(event.RecordID, 10),
		"event_id":       event.EventID,
		"source_service": sourceService,
		"schema_version": schemaVersion,
	}
}
