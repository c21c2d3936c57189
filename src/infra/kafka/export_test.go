package kafka

import "github.com/IBM/sarama"

// NewBatchHandler expõe o handler do consumer group para os testes, sem backoff.
func NewBatchHandler(handler Handler, batchSize int) sarama.ConsumerGroupHandler {
	return &consumerGroupHandler{handler: handler, batchSize: batchSize}
}
