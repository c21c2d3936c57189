package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrRecordNotFound = errors.New("record not found")

	ErrConflict = errors.New("record conflicts with an existing record")

	ErrForbidden = errors.New("access is denied")

	ErrUnauthenticated = errors.New("invalid or expired credentials")

	ErrUnavailableServer = errors.New("Oops, something unexpected happened. Please try again later.")
)

// NotFoundError identifica qual registro não existe. errors.Is(err, ErrRecordNotFound) é verdadeiro.
type NotFoundError struct {
	Type string
	ID   int64
}

func NewNotFoundError(recordType string, id int64) *NotFoundError {
	return &NotFoundError{Type: recordType, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Type, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrRecordNotFound
}

// Violation descreve um campo que não passou na validação.
type Violation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type ValidationError struct {
	Type       string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s (%s)", v.Field, v.Rule))
	}
	return fmt.Sprintf("invalid %s: %s", e.Type, strings.Join(parts, ", "))
}

// ############################################################
// ################## EVENTOS DE REGISTROS ####################
// ############################################################

type RecordEventType string

const (
	RecordCreated RecordEventType = "record.created"
	RecordUpdated RecordEventType = "record.updated"
	RecordDeleted RecordEventType = "record.deleted"
)

// RecordEvent descreve uma mutação já persistida de um registro.
// Record carrega o estado após a mutação; em deleções, o último estado conhecido.
type RecordEvent struct {
	EventID    string          `json:"eventId"`
	EventType  RecordEventType `json:"eventType"`
	RecordType string          `json:"recordType"`
	RecordID   int64           `json:"recordId"`
	Record     json.RawMessage `json:"record,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// PartitionKey mantém todos os eventos de um mesmo registro na mesma partição.
func (e RecordEvent) PartitionKey() string {
	return fmt.Sprintf("%s:%d", e.RecordType, e.RecordID)
}
