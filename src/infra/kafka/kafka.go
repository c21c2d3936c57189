package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

type KafkaClient struct {
	consumer  sarama.ConsumerGroup
	producer  sarama.SyncProducer
	batchSize int
}

type Message struct {
	Key      string
	Value    []byte
	Headers  map[string]string
	internal *sarama.ConsumerMessage
}

type Handler func(messages []Message) error

// NewKafkaClient cria o producer e, quando groupID não é vazio, o consumer group.
// A API só publica; o consumer de change log também consome.
func NewKafkaClient(brokers string, groupID string, batchSize int) (*KafkaClient, error) {
	brokerList := strings.Split(brokers, ",")

	config := NewConfig(batchSize)

	producer, err := sarama.NewSyncProducer(brokerList, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	var consumer sarama.ConsumerGroup
	if groupID != "" {
		consumer, err = sarama.NewConsumerGroup(brokerList, groupID, config)
		if err != nil {
			producer.Close()
			return nil, fmt.Errorf("failed to create consumer group: %w", err)
		}
	}

	log.Printf("Kafka client initialized (group: %q, batch size: %d)", groupID, batchSize)

	return &KafkaClient{
		consumer:  consumer,
		producer:  producer,
		batchSize: batchSize,
	}, nil
}

// NewKafkaClientFrom monta o client a partir de implementações já criadas (ex.: sarama/mocks).
func NewKafkaClientFrom(producer sarama.SyncProducer, consumer sarama.ConsumerGroup, batchSize int) *KafkaClient {
	return &KafkaClient{
		consumer:  consumer,
		producer:  producer,
		batchSize: batchSize,
	}
}

func NewConfig(batchSize int) *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V2_8_0_0

	// Consumer config
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Group.Session.Timeout = 30 * time.Second
	config.Consumer.Group.Heartbeat.Interval = 10 * time.Second
	config.Consumer.MaxProcessingTime = 60 * time.Second
	config.Consumer.MaxWaitTime = 250 * time.Millisecond
	config.ChannelBufferSize = batchSize * 2

	// Timeouts curtos: um broker fora do ar não pode segurar o envio por minutos
	config.Net.DialTimeout = 3 * time.Second
	config.Net.ReadTimeout = 5 * time.Second
	config.Net.WriteTimeout = 5 * time.Second

	// Producer config - eventos de registro são poucos e precisam de durabilidade
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Idempotent = true
	config.Producer.Timeout = 5 * time.Second
	config.Net.MaxOpenRequests = 1
	config.Producer.Retry.Max = 3
	config.Producer.Retry.Backoff = 250 * time.Millisecond
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1024 * 1024

	return config
}

func (k *KafkaClient) Consumer(ctx context.Context, handler Handler, topic string) error {
	if k.consumer == nil {
		return fmt.Errorf("kafka client was created without a consumer group")
	}

	consumerHandler := &consumerGroupHandler{
		handler:      handler,
		batchSize:    k.batchSize,
		retryBackoff: 5 * time.Second,
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Kafka consumer context cancelled")
			return nil
		default:
			if err := k.consumer.Consume(ctx, []string{topic}, consumerHandler); err != nil {
				log.Printf("Error consuming from topic %s: %v", topic, err)
				time.Sleep(5 * time.Second) // Retry delay
				continue
			}
		}
	}
}

func (k *KafkaClient) Producer(messages []Message, topic string) error {
	if len(messages) == 0 {
		return nil
	}

	kafkaMessages := make([]*sarama.ProducerMessage, len(messages))
	for i, msg := range messages {
		kafkaMessages[i] = &sarama.ProducerMessage{
			Topic:   topic,
			Key:     sarama.StringEncoder(msg.Key),
			Value:   sarama.ByteEncoder(msg.Value),
			Headers: toRecordHeaders(msg.Headers),
		}
	}

	// SendMessages preserva a ordem por chave, ao contrário de envios concorrentes
	if err := k.producer.SendMessages(kafkaMessages); err != nil {
		var producerErrors sarama.ProducerErrors
		if errors.As(err, &producerErrors) {
			for _, perr := range producerErrors {
				log.Printf("  - message with key %v failed: %v", perr.Msg.Key, perr.Err)
			}
			return fmt.Errorf("batch send failed: %d/%d messages failed", len(producerErrors), len(messages))
		}
		return fmt.Errorf("batch send failed: %w", err)
	}

	log.Printf("Batch sent successfully: %d messages to topic %s", len(messages), topic)
	return nil
}

func (k *KafkaClient) Close() error {
	var errs []error

	if k.consumer != nil {
		if err := k.consumer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close consumer: %w", err))
		}
	}

	if err := k.producer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close producer: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing kafka client: %v", errs)
	}

	return nil
}

func toRecordHeaders(headers map[string]string) []sarama.RecordHeader {
	if len(headers) == 0 {
		return nil
	}

	recordHeaders := make([]sarama.RecordHeader, 0, len(headers))
	for key, value := range headers {
		recordHeaders = append(recordHeaders, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}
	return recordHeaders
}

func fromRecordHeaders(headers []*sarama.RecordHeader) map[string]string {
	if len(headers) == 0 {
		return nil
	}

	result := make(map[string]string, len(headers))
	for _, header := range headers {
		if header != nil {
			result[string(header.Key)] = string(header.Value)
		}
	}
	return result
}

// consumerGroupHandler implementa sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	handler      Handler
	batchSize    int
	retryBackoff time.Duration
}

func (h *consumerGroupHandler) Setup(session sarama.ConsumerGroupSession) error {
	log.Printf("Kafka consumer group session setup - batch size: %d", h.batchSize)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Println("Kafka consumer group session cleanup")
	return nil
}

// ConsumeClaim entrega as mensagens em lotes. Quando o handler falha, nenhum offset
// posterior é marcado: a claim termina com erro, a sessão é encerrada e o lote volta
// a partir do último offset commitado.
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	batchSize := h.batchSize
	batchTimeout := 2 * time.Second

	log.Printf("Starting consumer for partition %d (batch: %d, timeout: %v)",
		claim.Partition(), batchSize, batchTimeout)

	messages := make([]Message, 0, batchSize)
	timer := time.NewTimer(batchTimeout)
	defer timer.Stop()

	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				// Channel closed, process remaining messages
				return h.processBatch(session, messages)
			}

			messages = append(messages, Message{
				Key:      string(message.Key),
				Value:    message.Value,
				Headers:  fromRecordHeaders(message.Headers),
				internal: message,
			})

			if len(messages) >= batchSize {
				if err := h.processBatch(session, messages); err != nil {
					return h.abandonClaim(session, claim, err)
				}
				messages = messages[:0]
				timer.Reset(batchTimeout)
			}

		case <-timer.C:
			if err := h.processBatch(session, messages); err != nil {
				return h.abandonClaim(session, claim, err)
			}
			messages = messages[:0]
			timer.Reset(batchTimeout)

		case <-session.Context().Done():
			return h.processBatch(session, messages)
		}
	}
}

// abandonClaim espera o backoff antes de devolver o erro, para que uma falha
// persistente do handler não vire um loop de rebalanceamento.
func (h *consumerGroupHandler) abandonClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, err error) error {
	log.Printf("Abandoning partition %d after handler error, batch will be redelivered: %v", claim.Partition(), err)

	if h.retryBackoff > 0 {
		backoff := time.NewTimer(h.retryBackoff)
		defer backoff.Stop()

		select {
		case <-backoff.C:
		case <-session.Context().Done():
		}
	}

	return fmt.Errorf("partition %d: %w", claim.Partition(), err)
}

func (h *consumerGroupHandler) processBatch(session sarama.ConsumerGroupSession, messages []Message) error {
	if len(messages) == 0 {
		return nil
	}

	log.Printf("Processing batch of %d messages", len(messages))

	if err := h.handler(messages); err != nil {
		log.Printf("Handler error for batch: %v", err)
		return fmt.Errorf("handler failed for batch of %d messages: %w", len(messages), err)
	}

	for _, msg := range messages {
		if msg.internal != nil {
			session.MarkMessage(msg.internal, "")
		}
	}

	log.Printf("Successfully processed batch of %d messages", len(messages))
	return nil
}
