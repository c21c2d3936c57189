package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"campusrecords/src/domain"
	"campusrecords/src/domain/entities"
	"campusrecords/src/infra/kafka"
	"campusrecords/src/services/events"
	"campusrecords/src/services/records"
	"campusrecords/src/test_artefacts/fakes"
	"campusrecords/src/test_artefacts/stubs"
)

// blockedProducer segura cada envio até release ser fechado, como um broker fora do ar.
type blockedProducer struct {
	release chan struct{}

	mu       sync.Mutex
	messages []kafka.Message
}

func (b *blockedProducer) Producer(messages []kafka.Message, topic string) error {
	<-b.release

	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, messages...)
	return nil
}

func (b *blockedProducer) Sent() []kafka.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]kafka.Message(nil), b.messages...)
}

type batchSink struct {
	mu      sync.Mutex
	batches [][]domain.RecordEvent
	err     error
}

func (s *batchSink) PublishRecordEvents(ctx context.Context, batch []domain.RecordEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, batch)
	return s.err
}

func (s *batchSink) RecordIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int64
	for _, batch := range s.batches {
		for _, event := range batch {
			ids = append(ids, event.RecordID)
		}
	}
	return ids
}

var _ = Describe("AsyncRecordEventPublisher", func() {
	var (
		ctx    context.Context
		logger *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	It("returns before a stalled broker accepts the event", func() {
		producer := &blockedProducer{release: make(chan struct{})}
		publisher := events.NewAsyncRecordEventPublisher(logger,
			events.NewRecordEventPublisher(logger, producer, "record-events"), 10, 10)
		DeferCleanup(func() {
			close(producer.release)
			Expect(publisher.Close(context.Background())).To(Succeed())
		})

		service := records.NewRecordService[entities.UCSBOrganization](logger, "UCSBOrganization",
			fakes.NewMemoryRepository[entities.UCSBOrganization](), publisher)
		admin := domain.Principal{Subject: "admin@ucsb.edu", Roles: []string{"ROLE_ADMIN"}}

		start := time.Now()
		created, err := service.Create(ctx, admin, stubs.NewOrganizationStub().Get())

		Expect(err).NotTo(HaveOccurred())
		Expect(created.ID).To(Equal(int64(1)))
		Expect(time.Since(start)).To(BeNumerically("<", 500*time.Millisecond))
		Consistently(producer.Sent, 100*time.Millisecond).Should(BeEmpty())
	})

	It("delivers queued events in order once the broker is back", func() {
		producer := &blockedProducer{release: make(chan struct{})}
		publisher := events.NewAsyncRecordEventPublisher(logger,
			events.NewRecordEventPublisher(logger, producer, "record-events"), 10, 10)

		for id := int64(1); id <= 3; id++ {
			Expect(publisher.PublishRecordEvent(ctx, newEvent(id))).To(Succeed())
		}

		close(producer.release)
		Expect(publisher.Close(ctx)).To(Succeed())

		sent := producer.Sent()
		Expect(sent).To(HaveLen(3))
		Expect(sent[0].Key).To(Equal("UCSBOrganization:1"))
		Expect(sent[2].Key).To(Equal("UCSBOrganization:3"))
	})

	It("refuses events when the queue is full instead of blocking", func() {
		producer := &blockedProducer{release: make(chan struct{})}
		publisher := events.NewAsyncRecordEventPublisher(logger,
			events.NewRecordEventPublisher(logger, producer, "record-events"), 1, 1)
		DeferCleanup(func() {
			close(producer.release)
			Expect(publisher.Close(context.Background())).To(Succeed())
		})

		// O worker retira o primeiro e fica preso no producer; o segundo ocupa a fila.
		Expect(publisher.PublishRecordEvent(ctx, newEvent(1))).To(Succeed())
		Eventually(func() error {
			return publisher.PublishRecordEvent(ctx, newEvent(2))
		}).Should(Succeed())

		Expect(publisher.PublishRecordEvent(ctx, newEvent(3))).To(MatchError(events.ErrPublishQueueFull))
	})

	It("drains the queue on close and rejects later events", func() {
		sink := &batchSink{}
		publisher := events.NewAsyncRecordEventPublisher(logger, sink, 10, 2)

		for id := int64(1); id <= 5; id++ {
			Expect(publisher.PublishRecordEvent(ctx, newEvent(id))).To(Succeed())
		}

		Expect(publisher.Close(ctx)).To(Succeed())
		Expect(sink.RecordIDs()).To(Equal([]int64{1, 2, 3, 4, 5}))

		Expect(publisher.PublishRecordEvent(ctx, newEvent(6))).To(MatchError(events.ErrPublisherClosed))
	})

	It("keeps delivering after a sink failure", func() {
		sink := &batchSink{err: errors.New("broker down")}
		publisher := events.NewAsyncRecordEventPublisher(logger, sink, 10, 1)

		Expect(publisher.PublishRecordEvent(ctx, newEvent(1))).To(Succeed())
		Expect(publisher.PublishRecordEvent(ctx, newEvent(2))).To(Succeed())

		Expect(publisher.Close(ctx)).To(Succeed())
		Expect(sink.RecordIDs()).To(Equal([]int64{1, 2}))
	})

	It("gives up waiting on close when the context expires", func() {
		producer := &blockedProducer{release: make(chan struct{})}
		publisher := events.NewAsyncRecordEventPublisher(logger,
			events.NewRecordEventPublisher(logger, producer, "record-events"), 10, 10)
		DeferCleanup(func() { close(producer.release) })

		Expect(publisher.PublishRecordEvent(ctx, newEvent(1))).To(Succeed())

		closeCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		Expect(publisher.Close(closeCtx)).To(MatchError(context.DeadlineExceeded))
	})
})
