package records

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"campusrecords/src/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Violações usam o nome do campo no JSON ("orgCode"), não o nome Go.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	return v
}

// Validate aplica as regras declaradas nas tags `validate` e devolve um
// *domain.ValidationError com a lista de violações, ou nil.
func Validate(recordType string, record any) error {
	violations := Violations(record)
	if len(violations) == 0 {
		return nil
	}
	return &domain.ValidationError{Type: recordType, Violations: violations}
}

func Violations(record any) []domain.Violation {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []domain.Violation{{Field: "", Rule: err.Error()}}
	}

	violations := make([]domain.Violation, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		rule := fieldError.Tag()
		if fieldError.Param() != "" {
			rule += "=" + fieldError.Param()
		}
		violations = append(violations, domain.Violation{Field: fieldError.Field(), Rule: rule})
	}

	return violations
}
