package entities

// RecommendationRequest é um pedido de carta de recomendação feito a um professor.
type RecommendationRequest struct {
	ID             int64         `json:"id"`
	RequesterEmail string        `json:"requesterEmail" validate:"required,email"`
	ProfessorEmail string        `json:"professorEmail" validate:"required,email"`
	Explanation    string        `json:"explanation" validate:"required"`
	DateRequested  LocalDateTime `json:"dateRequested" validate:"required"`
	DateNeeded     LocalDateTime `json:"dateNeeded" validate:"required"`
	Done           bool          `json:"done"`
}

func (r RecommendationRequest) RecordID() int64 {
	return r.ID
}

func (r RecommendationRequest) WithID(id int64) RecommendationRequest {
	r.ID = id
	return r
}
