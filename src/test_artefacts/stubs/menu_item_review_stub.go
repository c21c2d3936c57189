package stubs

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"campusrecords/src/domain/entities"
)

type MenuItemReviewStub struct {
	review entities.MenuItemReview
}

func NewMenuItemReviewStub() MenuItemReviewStub {
	review := entities.MenuItemReview{
		ItemID:        int64(gofakeit.Number(1, 1000)),
		ReviewerEmail: gofakeit.Email(),
		Stars:         gofakeit.Number(0, 5),
		DateReviewed:  entities.NewLocalDateTime(time.Now().UTC().Truncate(time.Second)),
		Comments:      gofakeit.Sentence(6),
	}

	return MenuItemReviewStub{review: review}
}

func (rs MenuItemReviewStub) WithItemID(itemID int64) MenuItemReviewStub {
	rs.review.ItemID = itemID
	return rs
}

func (rs MenuItemReviewStub) WithStars(stars int) MenuItemReviewStub {
	rs.review.Stars = stars
	return rs
}

func (rs MenuItemReviewStub) WithComments(comments string) MenuItemReviewStub {
	rs.review.Comments = comments
	return rs
}

func (rs MenuItemReviewStub) Get() entities.MenuItemReview {
	return rs.review
}
