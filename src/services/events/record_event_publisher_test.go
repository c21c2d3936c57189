package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"campusrecords/src/domain"
	"campusrecords/src/infra/kafka"
	"campusrecords/src/services/events"
	"campusrecords/src/test_artefacts/comparer"
)

type capturingProducer struct {
	topic    string
	messages []kafka.Message
	err      error
}

func (c *capturingProducer) Producer(messages []kafka.Message, topic string) error {
	if c.err != nil {
		return c.err
	}
	c.topic = topic
	c.messages = append(c.messages, messages...)
	return nil
}

func newEvent(id int64) domain.RecordEvent {
	return domain.RecordEvent{
		EventID:    "c7a1e0a4-8a55-4d0a-9a52-6f2f5d7d1d11",
		EventType:  domain.RecordCreated,
		RecordType: "UCSBOrganization",
		RecordID:   id,
		Record:     json.RawMessage(`{"id":1,"orgCode":"ZPR"}`),
		OccurredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

var _ = Describe("RecordEventPublisher", func() {
	var (
		ctx      context.Context
		logger   *slog.Logger
		producer *capturingProducer
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		producer = &capturingProducer{}
	})

	It("keys the message by record type and id and sets the filtering headers", func() {
		publisher := events.NewRecordEventPublisher(logger, producer, "record-events")

		err := publisher.PublishRecordEvent(ctx, newEvent(1))

		Expect(err).NotTo(HaveOccurred())
		Expect(producer.topic).To(Equal("record-events"))
		Expect(producer.messages).To(HaveLen(1))

		message := producer.messages[0]
		Expect(message.Key).To(Equal("UCSBOrganization:1"))
		Expect(message.Headers).To(Equal(map[string]string{
			"event_type":     "record.created",
			"record_type":    "UCSBOrganization",
			"record_id":      "1",
			"event_id":       "c7a1e0a4-8a55-4d0a-9a52-6f2f5d7d1d11",
			"source_service": "campus-records-api",
			"schema_version": "v1",
		}))

		var decoded domain.RecordEvent
		Expect(json.Unmarshal(message.Value, &decoded)).To(Succeed())
		Expect(decoded).To(BeComparableTo(newEvent(1), comparer.JSONRawMessage()))
	})

	It("publishes a batch in order", func() {
		publisher := events.NewRecordEventPublisher(logger, producer, "record-events")

		err := publisher.PublishRecordEvents(ctx, []domain.RecordEvent{newEvent(1), newEvent(2), newEvent(3)})

		Expect(err).NotTo(HaveOccurred())
		Expect(producer.messages).To(HaveLen(3))
		Expect(producer.messages[2].Key).To(Equal("UCSBOrganization:3"))
	})

	It("does not call the producer for an empty batch", func() {
		producer.err = errors.New("must not be called")
		publisher := events.NewRecordEventPublisher(logger, producer, "record-events")

		Expect(publisher.PublishRecordEvents(ctx, nil)).To(Succeed())
	})

	It("wraps producer failures with the topic", func() {
		producer.err = errors.New("broker down")
		publisher := events.NewRecordEventPublisher(logger, producer, "record-events")

		err := publisher.PublishRecordEvent(ctx, newEvent(1))

		Expect(err).To(MatchError(ContainSubstring("record-events")))
		Expect(err).To(MatchError(ContainSubstring("broker down")))
	})

	When("backed by a KafkaClient", func() {
		It("sends the event through the sarama producer", func() {
			syncProducer := mocks.NewSyncProducer(GinkgoT(), nil)
			client := kafka.NewKafkaClientFrom(syncProducer, nil, 10)
			DeferCleanup(client.Close)

			var sent *sarama.ProducerMessage
			syncProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
				sent = msg
				return nil
			})

			publisher := events.NewRecordEventPublisher(logger, client, "record-events")
			Expect(publisher.PublishRecordEvent(ctx, newEvent(9))).To(Succeed())

			Expect(sent).NotTo(BeNil())
			key, _ := sent.Key.Encode()
			Expect(string(key)).To(Equal("UCSBOrganization:9"))
			Expect(sent.Headers).To(ContainElement(sarama.RecordHeader{Key: []byte("event_type"), Value: []byte("record.created")}))
		})
	})
})
