package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"campusrecords/src/domain"
	"campusrecords/src/services/records"
)

// RecordService é o contrato do serviço CRUD consumido pelas rotas.
type RecordService[T any] interface {
	RecordType() string
	List(ctx context.Context, principal domain.Principal) ([]T, error)
	Create(ctx context.Context, principal domain.Principal, fields T) (T, error)
	GetByID(ctx context.Context, principal domain.Principal, id int64) (T, error)
	Update(ctx context.Context, principal domain.Principal, id int64, fields T) (T, error)
	Delete(ctx context.Context, principal domain.Principal, id int64) (records.DeleteResult, error)
}

type recordHandler[T any] struct {
	logger  *slog.Logger
	path    string
	service RecordService[T]
	decode  FormDecoder[T]
}

// NewRecordRoutes expõe um RecordService em path:
//
//	GET    path/all
//	POST   path/post?campo=valor...
//	GET    path?id=
//	PUT    path?id=    (corpo JSON)
//	DELETE path?id=
func NewRecordRoutes[T any](logger *slog.Logger, path string, service RecordService[T], decode FormDecoder[T]) RecordRoutes {
	return &recordHandler[T]{
		logger:  logger.With("record_type", service.RecordType()),
		path:    path,
		service: service,
		decode:  decode,
	}
}

func (h *recordHandler[T]) Register(mux *http.ServeMux) {
	mux.Handle("GET "+h.path+"/all", requireCapability(h.logger, domain.CapabilityRead, h.List))
	mux.Handle("POST "+h.path+"/post", requireCapability(h.logger, domain.CapabilityAdmin, h.Create))
	mux.Handle("GET "+h.path, requireCapability(h.logger, domain.CapabilityRead, h.Get))
	mux.Handle("PUT "+h.path, requireCapability(h.logger, domain.CapabilityAdmin, h.Update))
	mux.Handle("DELETE "+h.path, requireCapability(h.logger, domain.CapabilityAdmin, h.Delete))
}

func (h *recordHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if all == nil {
		all = []T{}
	}
	writeJSON(w, h.logger, http.StatusOK, all)
}

func (h *recordHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, h.logger, h.invalid("form", "parseable"))
		return
	}

	form := newFormReader(r.Form)
	fields := h.decode(form)
	if err := form.Err(h.service.RecordType()); err != nil {
		writeError(w, h.logger, err)
		return
	}

	created, err := h.service.Create(r.Context(), PrincipalFrom(r.Context()), fields)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, created)
}

func (h *recordHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.parseID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	record, err := h.service.GetByID(r.Context(), PrincipalFrom(r.Context()), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, record)
}

func (h *recordHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.parseID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var fields T
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.logger.Debug("Invalid request body", "error", err)
		writeError(w, h.logger, h.invalid("body", "json"))
		return
	}

	updated, err := h.service.Update(r.Context(), PrincipalFrom(r.Context()), id, fields)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, updated)
}

func (h *recordHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.parseID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.service.Delete(r.Context(), PrincipalFrom(r.Context()), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

func (h *recordHandler[T]) parseID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return 0, h.invalid("id", "required")
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, h.invalid("id", "int64")
	}
	return id, nil
}

func (h *recordHandler[T]) invalid(field, rule string) error {
	return &domain.ValidationError{
		Type:       h.service.RecordType(),
		Violations: []domain.Violation{{Field: field, Rule: rule}},
	}
}
