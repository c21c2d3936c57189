package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"campusrecords/src/domain"
	"campusrecords/src/infra/kafka"
)

// ChangeLogWriter grava eventos no change log; eventos repetidos são ignorados.
type ChangeLogWriter interface {
	AppendChanges(ctx context.Context, events []domain.RecordEvent) (int64, error)
}

// MessageSource entrega lotes de mensagens de um tópico até ctx ser cancelado.
type MessageSource interface {
	Consumer(ctx context.Context, handler kafka.Handler, topic string) error
}

type RecordChangesConsumer struct {
	logger *slog.Logger
	writer ChangeLogWriter
}

func NewRecordChangesConsumer(
	logger *slog.Logger,
	writer ChangeLogWriter,
) *RecordChangesConsumer {
	return &RecordChangesConsumer{
		logger: logger,
		writer: writer,
	}
}

func (c *RecordChangesConsumer) Start(ctx context.Context, source MessageSource, topic string) error {
	c.logger.Info("Starting record changes consumer", "topic", topic)

	handler := func(messages []kafka.Message) error {
		return c.HandleMessages(ctx, messages)
	}

	return source.Consumer(ctx, handler, topic)
}

// HandleMessages grava o lote no change log. Mensagens que não decodificam ou que
// não gravariam (campos faltando, event id que não é UUID) são descartadas; um erro
// de gravação é devolvido para que o lote não seja marcado.
func (c *RecordChangesConsumer) HandleMessages(ctx context.Context, messages []kafka.Message) error {
	if len(messages) == 0 {
		return nil
	}

	events := make([]domain.RecordEvent, 0, len(messages))

	for _, msg := range messages {
		var event domain.RecordEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Error("Skipping undecodable message",
				"error", err,
				"key", msg.Key,
				"value", string(msg.Value))
			continue
		}

		if event.EventID == "" || event.EventType == "" || event.RecordType == "" {
			c.logger.Error("Skipping message with missing required fields",
				"key", msg.Key,
				"event_id", event.EventID,
				"event_type", event.EventType,
				"record_type", event.RecordType)
			continue
		}

		// event_id é UUID no banco: um id inválido derrubaria o lote inteiro.
		if _, err := uuid.Parse(event.EventID); err != nil {
			c.logger.Error("Skipping message with invalid event id",
				"error", err,
				"key", msg.Key,
				"event_id", event.EventID)
			continue
		}

		events = append(events, event)
	}

	if len(events) == 0 {
		c.logger.Warn("No valid events in batch", "count", len(messages))
		return nil
	}

	inserted, err := c.writer.AppendChanges(ctx, events)
	if err != nil {
		c.logger.Error("Failed to append record changes",
			"error", err,
			"events_count", len(events))
		return fmt.Errorf("failed to append record changes: %w", err)
	}

	c.logger.Info("Successfully processed messages batch",
		"count", len(messages),
		"events_count", len(events),
		"inserted", inserted,
		"duplicates", int64(len(events))-inserted)

	return nil
}
