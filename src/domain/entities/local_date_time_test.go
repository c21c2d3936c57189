package entities_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"campusrecords/src/domain/entities"
)

var _ = Describe("LocalDateTime", func() {
	DescribeTable("parses the accepted formats",
		func(input string, expected time.Time) {
			parsed, err := entities.ParseLocalDateTime(input)

			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Time.Equal(expected)).To(BeTrue(), parsed.String())
			Expect(parsed.Location()).To(Equal(time.UTC))
		},
		Entry("local date-time", "2022-01-03T00:00:00", time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)),
		Entry("with fraction", "2022-01-03T10:15:30.25", time.Date(2022, 1, 3, 10, 15, 30, 250000000, time.UTC)),
		Entry("RFC 3339 keeps the wall clock", "2022-01-03T10:15:30-08:00", time.Date(2022, 1, 3, 10, 15, 30, 0, time.UTC)),
	)

	It("rejects anything else", func() {
		_, err := entities.ParseLocalDateTime("03/01/2022")

		Expect(err).To(MatchError(ContainSubstring("invalid local date-time")))
	})

	It("round-trips through JSON without loss", func() {
		original := entities.NewLocalDateTime(time.Date(2023, 11, 5, 8, 9, 10, 123456000, time.UTC))

		data, err := json.Marshal(original)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`"2023-11-05T08:09:10.123456"`))

		var decoded entities.LocalDateTime
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		Expect(decoded).To(Equal(original))
	})

	It("maps the zero value to null and back", func() {
		data, err := json.Marshal(entities.LocalDateTime{})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("null"))

		var decoded entities.LocalDateTime
		Expect(json.Unmarshal([]byte("null"), &decoded)).To(Succeed())
		Expect(decoded.IsZero()).To(BeTrue())
	})

	It("serializes records with the API field names", func() {
		request := entities.RecommendationRequest{
			ID:             3,
			RequesterEmail: "student@ucsb.edu",
			ProfessorEmail: "prof@ucsb.edu",
			Explanation:    "PhD",
			DateRequested:  entities.NewLocalDateTime(time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)),
			DateNeeded:     entities.NewLocalDateTime(time.Date(2022, 3, 11, 0, 0, 0, 0, time.UTC)),
			Done:           true,
		}

		data, err := json.Marshal(request)

		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(MatchJSON(`{
			"id": 3,
			"requesterEmail": "student@ucsb.edu",
			"professorEmail": "prof@ucsb.edu",
			"explanation": "PhD",
			"dateRequested": "2022-01-03T00:00:00",
			"dateNeeded": "2022-03-11T00:00:00",
			"done": true
		}`))
	})
})
