package repositories_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"campusrecords/src/domain"
	"campusrecords/src/repositories"
	"campusrecords/src/test_artefacts/test_seeder"
)

var _ = Describe("ChangeLogRepository", func() {
	var (
		ctx        context.Context
		testSeeder test_seeder.TestSeeder
		changeLog  *repositories.ChangeLogRepository
	)

	newEvent := func(eventType domain.RecordEventType, recordID int64) domain.RecordEvent {
		return domain.RecordEvent{
			EventID:    uuid.NewString(),
			EventType:  eventType,
			RecordType: "UCSBOrganization",
			RecordID:   recordID,
			Record:     json.RawMessage(`{"id": 1, "orgCode": "ZPR"}`),
			OccurredAt: time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC),
		}
	}

	BeforeEach(func() {
		ctx = context.Background()

		readWriteClient, seeder := connectTestDB(ctx)
		testSeeder = seeder
		changeLog = repositories.NewChangeLogRepository(readWriteClient.GetWritePool())
	})

	It("appends every event in order", func() {
		events := []domain.RecordEvent{newEvent(domain.RecordCreated, 1), newEvent(domain.RecordUpdated, 1)}

		inserted, err := changeLog.AppendChanges(ctx, events)

		Expect(err).NotTo(HaveOccurred())
		Expect(inserted).To(Equal(int64(2)))

		changes, err := testSeeder.SelectRecordChanges(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(changes).To(HaveLen(2))
		Expect(changes[0].EventID).To(Equal(events[0].EventID))
		Expect(changes[0].EventType).To(Equal("record.created"))
		Expect(changes[1].EventType).To(Equal("record.updated"))
		Expect(string(changes[1].Record)).To(MatchJSON(`{"id":1,"orgCode":"ZPR"}`))
		Expect(changes[1].OccurredAt.Equal(events[1].OccurredAt)).To(BeTrue())
	})

	It("ignores redelivered events", func() {
		event := newEvent(domain.RecordDeleted, 9)
		_, err := changeLog.AppendChanges(ctx, []domain.RecordEvent{event})
		Expect(err).NotTo(HaveOccurred())

		inserted, err := changeLog.AppendChanges(ctx, []domain.RecordEvent{event, newEvent(domain.RecordCreated, 10)})

		Expect(err).NotTo(HaveOccurred())
		Expect(inserted).To(Equal(int64(1)))

		count, err := testSeeder.CountRows(ctx, "record_changes")
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(2))
	})

	It("does nothing for an empty batch", func() {
		inserted, err := changeLog.AppendChanges(ctx, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(inserted).To(BeZero())
	})
})
