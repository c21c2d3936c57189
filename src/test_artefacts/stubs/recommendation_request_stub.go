package stubs

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"campusrecords/src/domain/entities"
)

type RecommendationRequestStub struct {
	request entities.RecommendationRequest
}

func NewRecommendationRequestStub() RecommendationRequestStub {
	requested := time.Now().UTC().Truncate(time.Second).AddDate(0, 0, -gofakeit.Number(1, 30))

	request := entities.RecommendationRequest{
		RequesterEmail: gofakeit.Email(),
		ProfessorEmail: gofakeit.Email(),
		Explanation:    gofakeit.Sentence(8),
		DateRequested:  entities.NewLocalDateTime(requested),
		DateNeeded:     entities.NewLocalDateTime(requested.AddDate(0, 1, 0)),
		Done:           false,
	}

	return RecommendationRequestStub{request: request}
}

func (rs RecommendationRequestStub) WithDone(done bool) RecommendationRequestStub {
	rs.request.Done = done
	return rs
}

func (rs RecommendationRequestStub) WithRequesterEmail(email string) RecommendationRequestStub {
	rs.request.RequesterEmail = email
	return rs
}

func (rs RecommendationRequestStub) Get() entities.RecommendationRequest {
	return rs.request
}
