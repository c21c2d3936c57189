package records_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"campusrecords/src/domain"
	"campusrecords/src/domain/entities"
	"campusrecords/src/services/records"
	"campusrecords/src/test_artefacts/stubs"
)

var _ = Describe("Validate", func() {
	It("accepts complete records of every type", func() {
		Expect(records.Validate("UCSBOrganization", stubs.NewOrganizationStub().Get())).To(Succeed())
		Expect(records.Validate("UCSBDiningCommonsMenuItem", stubs.NewMenuItemStub().Get())).To(Succeed())
		Expect(records.Validate("RecommendationRequest", stubs.NewRecommendationRequestStub().Get())).To(Succeed())
		Expect(records.Validate("MenuItemReview", stubs.NewMenuItemReviewStub().Get())).To(Succeed())
	})

	It("reports violations with the JSON field names", func() {
		violations := records.Violations(entities.RecommendationRequest{
			RequesterEmail: "not-an-email",
			ProfessorEmail: "prof@ucsb.edu",
			DateNeeded:     entities.NewLocalDateTime(time.Date(2022, 3, 11, 0, 0, 0, 0, time.UTC)),
		})

		Expect(violations).To(ConsistOf(
			domain.Violation{Field: "requesterEmail", Rule: "email"},
			domain.Violation{Field: "explanation", Rule: "required"},
			domain.Violation{Field: "dateRequested", Rule: "required"},
		))
	})

	DescribeTable("checks the review constraints",
		func(review entities.MenuItemReview, expected []domain.Violation) {
			Expect(records.Violations(review)).To(ConsistOf(expected))
		},
		Entry("stars above five", stubs.NewMenuItemReviewStub().WithStars(6).Get(),
			[]domain.Violation{{Field: "stars", Rule: "lte=5"}}),
		Entry("negative stars", stubs.NewMenuItemReviewStub().WithStars(-1).Get(),
			[]domain.Violation{{Field: "stars", Rule: "gte=0"}}),
		Entry("missing item", stubs.NewMenuItemReviewStub().WithItemID(0).Get(),
			[]domain.Violation{{Field: "itemId", Rule: "required"}}),
		Entry("zero stars and no comments", stubs.NewMenuItemReviewStub().WithStars(0).WithComments("").Get(),
			[]domain.Violation{}),
	)

	It("wraps the violations in a ValidationError naming the type", func() {
		err := records.Validate("UCSBDiningCommonsMenuItem", entities.UCSBDiningCommonsMenuItem{Name: "Pasta"})

		Expect(err).To(MatchError("invalid UCSBDiningCommonsMenuItem: diningCommonsCode (required), station (required)"))
	})
})
