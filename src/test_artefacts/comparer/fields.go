package comparer

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// IgnoreFieldsFor ignora campos de T, tipicamente o "ID" atribuído pelo banco.
func IgnoreFieldsFor[T any](fields ...string) cmp.Option {
	var zero T
	return cmpopts.IgnoreFields(zero, fields...)
}
