package http

import (
	"net/url"
	"strconv"
	"strings"

	"campusrecords/src/domain"
	"campusrecords/src/domain/entities"
)

// FormDecoder monta um registro a partir dos parâmetros da requisição.
// Erros de conversão ficam acumulados no FormReader.
type FormDecoder[T any] func(form *FormReader) T

// FormReader lê parâmetros tipados e acumula as violações encontradas.
type FormReader struct {
	values     url.Values
	violations []domain.Violation
}

func newFormReader(values url.Values) *FormReader {
	return &FormReader{values: values}
}

// String devolve o valor como veio; ausência é tratada pela validação do registro.
func (f *FormReader) String(name string) string {
	return f.values.Get(name)
}

func (f *FormReader) Bool(name string) bool {
	raw, ok := f.lookup(name)
	if !ok {
		return false
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		f.violate(name, "boolean")
	}
	return value
}

func (f *FormReader) Int64(name string) int64 {
	raw, ok := f.lookup(name)
	if !ok {
		return 0
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f.violate(name, "int64")
	}
	return value
}

func (f *FormReader) Int(name string) int {
	raw, ok := f.lookup(name)
	if !ok {
		return 0
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		f.violate(name, "int")
	}
	return value
}

func (f *FormReader) LocalDateTime(name string) entities.LocalDateTime {
	raw, ok := f.lookup(name)
	if !ok {
		return entities.LocalDateTime{}
	}

	value, err := entities.ParseLocalDateTime(raw)
	if err != nil {
		f.violate(name, "datetime")
	}
	return value
}

// Err devolve um *domain.ValidationError quando algum parâmetro é inválido.
func (f *FormReader) Err(recordType string) error {
	if len(f.violations) == 0 {
		return nil
	}
	return &domain.ValidationError{Type: recordType, Violations: f.violations}
}

// lookup exige presença: parâmetros não-string ausentes viram violação "required".
func (f *FormReader) lookup(name string) (string, bool) {
	raw := strings.TrimSpace(f.values.Get(name))
	if raw == "" {
		f.violate(name, "required")
		return "", false
	}
	return raw, true
}

func (f *FormReader) violate(field, rule string) {
	f.violations = append(f.violations, domain.Violation{Field: field, Rule: rule})
}
