package http_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apihttp "campusrecords/src/adapters/http"
	"campusrecords/src/domain"
	"campusrecords/src/infra/jwt"
	"campusrecords/src/services/records"
)

// unencodableService devolve valores que encoding/json não serializa.
type unencodableService struct{}

func (unencodableService) RecordType() string { return "Unencodable" }

func (unencodableService) List(context.Context, domain.Principal) ([]chan int, error) {
	return []chan int{make(chan int)}, nil
}

func (unencodableService) Create(_ context.Context, _ domain.Principal, fields chan int) (chan int, error) {
	return fields, nil
}

func (unencodableService) GetByID(context.Context, domain.Principal, int64) (chan int, error) {
	return make(chan int), nil
}

func (unencodableService) Update(_ context.Context, _ domain.Principal, _ int64, fields chan int) (chan int, error) {
	return fields, nil
}

func (unencodableService) Delete(context.Context, domain.Principal, int64) (records.DeleteResult, error) {
	return records.DeleteResult{}, nil
}

var _ = Describe("record routes", func() {
	It("reports response encoding failures on the injected logger", func() {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		token, err := jwt.NewTokenIssuer(secret, issuer, time.Hour).Issue("user@ucsb.edu", "ROLE_USER")
		Expect(err).NotTo(HaveOccurred())

		server := apihttp.NewServer(logger, 0, jwt.NewTokenVerifier(secret, issuer), nil,
			apihttp.NewRecordRoutes[chan int](logger, "/api/unencodable", unencodableService{},
				func(*apihttp.FormReader) chan int { return nil }),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/unencodable/all", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		server.Handler().ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(logs.String()).To(ContainSubstring("Failed to write JSON response"))
		Expect(logs.String()).To(ContainSubstring("record_type=Unencodable"))
	})
})
