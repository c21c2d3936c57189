package entities

// MenuItemReview é a avaliação de um item de cardápio.
// ItemID referencia um UCSBDiningCommonsMenuItem apenas pelo id.
type MenuItemReview struct {
	ID            int64         `json:"id"`
	ItemID        int64         `json:"itemId" validate:"required,gt=0"`
	ReviewerEmail string        `json:"reviewerEmail" validate:"required,email"`
	Stars         int           `json:"stars" validate:"gte=0,lte=5"`
	DateReviewed  LocalDateTime `json:"dateReviewed" validate:"required"`
	Comments      string        `json:"comments,omitempty"`
}

func (r MenuItemReview) RecordID() int64 {
	return r.ID
}

func (r MenuItemReview) WithID(id int64) MenuItemReview {
	r.ID = id
	return r
}
