package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"campusrecords/src/domain"
	"campusrecords/src/services/authorization"
)

// Record é a restrição dos tipos atendidos pelo serviço.
type Record[T any] interface {
	RecordID() int64
	WithID(id int64) T
}

// Repository é o colaborador de persistência. FindByID, Save (em update) e Delete
// retornam domain.ErrRecordNotFound quando o id não existe.
type Repository[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (T, error)
	Save(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, id int64) error
}

type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, event domain.RecordEvent) error
}

// DeleteResult é a confirmação devolvida por Delete.
type DeleteResult struct {
	Message string `json:"message"`
}

// RecordService implementa o CRUD de um tipo de registro: cada operação verifica a
// capacidade do principal antes de qualquer acesso ao repositório.
type RecordService[T Record[T]] struct {
	logger      *slog.Logger
	recordType  string
	displayName string
	repository  Repository[T]
	publisher   EventPublisher
	now         func() time.Time
}

func NewRecordService[T Record[T]](
	logger *slog.Logger,
	recordType string,
	repository Repository[T],
	publisher EventPublisher,
) *RecordService[T] {
	if publisher == nil {
		publisher = NopEventPublisher{}
	}

	return &RecordService[T]{
		logger:     logger.With("record_type", recordType),
		recordType: recordType,
		repository: repository,
		publisher:  publisher,
		now:        time.Now,
	}
}

// WithDisplayName troca o nome usado na mensagem de delete (ex.: "Recommendation Request").
func (s *RecordService[T]) WithDisplayName(name string) *RecordService[T] {
	s.displayName = name
	return s
}

func (s *RecordService[T]) RecordType() string {
	return s.recordType
}

func (s *RecordService[T]) List(ctx context.Context, principal domain.Principal) ([]T, error) {
	if err := authorization.Require(principal, domain.CapabilityRead); err != nil {
		return nil, err
	}

	return s.repository.FindAll(ctx)
}

// Create ignora qualquer id presente em fields; o id é atribuído pelo banco.
func (s *RecordService[T]) Create(ctx context.Context, principal domain.Principal, fields T) (T, error) {
	var zero T
	if err := authorization.Require(principal, domain.CapabilityAdmin); err != nil {
		return zero, err
	}

	record := fields.WithID(0)
	if err := Validate(s.recordType, record); err != nil {
		return zero, err
	}

	saved, err := s.repository.Save(ctx, record)
	if err != nil {
		return zero, err
	}

	s.logger.Info("Record created", "id", saved.RecordID(), "subject", principal.Subject)
	s.publish(ctx, domain.RecordCreated, saved.RecordID(), saved)

	return saved, nil
}

func (s *RecordService[T]) GetByID(ctx context.Context, principal domain.Principal, id int64) (T, error) {
	var zero T
	if err := authorization.Require(principal, domain.CapabilityRead); err != nil {
		return zero, err
	}

	record, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return zero, s.translate(err, id)
	}

	return record, nil
}

// Update substitui todos os campos do registro pelos de fields. O id do argumento
// prevalece sobre qualquer id vindo no corpo.
func (s *RecordService[T]) Update(ctx context.Context, principal domain.Principal, id int64, fields T) (T, error) {
	var zero T
	if err := authorization.Require(principal, domain.CapabilityAdmin); err != nil {
		return zero, err
	}

	existing, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return zero, s.translate(err, id)
	}

	record := fields.WithID(existing.RecordID())
	if err := Validate(s.recordType, record); err != nil {
		return zero, err
	}

	saved, err := s.repository.Save(ctx, record)
	if err != nil {
		return zero, s.translate(err, id)
	}

	s.logger.Info("Record updated", "id", id, "subject", principal.Subject)
	s.publish(ctx, domain.RecordUpdated, id, saved)

	return saved, nil
}

func (s *RecordService[T]) Delete(ctx context.Context, principal domain.Principal, id int64) (DeleteResult, error) {
	if err := authorization.Require(principal, domain.CapabilityAdmin); err != nil {
		return DeleteResult{}, err
	}

	existing, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return DeleteResult{}, s.translate(err, id)
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return DeleteResult{}, s.translate(err, id)
	}

	s.logger.Info("Record deleted", "id", id, "subject", principal.Subject)
	s.publish(ctx, domain.RecordDeleted, id, existing)

	name := s.displayName
	if name == "" {
		name = s.recordType
	}

	return DeleteResult{Message: fmt.Sprintf("%s with id %d deleted", name, id)}, nil
}

func (s *RecordService[T]) translate(err error, id int64) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.NewNotFoundError(s.recordType, id)
	}
	return err
}

// publish é best-effort: a mutação já foi confirmada no banco, então uma falha
// de publicação é registrada e não devolvida ao cliente.
func (s *RecordService[T]) publish(ctx context.Context, eventType domain.RecordEventType, id int64, record T) {
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.Error("Failed to marshal record for event", "id", id, "error", err)
		return
	}

	event := domain.RecordEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		RecordType: s.recordType,
		RecordID:   id,
		Record:     payload,
		OccurredAt: s.now().UTC(),
	}

	if err := s.publisher.PublishRecordEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish record event",
			"id", id,
			"event_id", event.EventID,
			"event_type", eventType,
			"error", err)
	}
}

// NopEventPublisher descarta eventos; usado quando não há broker configurado.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishRecordEvent(context.Context, domain.RecordEvent) error {
	return nil
}
