package comparer

import (
	"time"

	"github.com/google/go-cmp/cmp"

	"campusrecords/src/domain/entities"
)

// TimeWithinTolerance considera iguais instantes a até toleranceMs de distância.
// Necessário porque o PostgreSQL guarda microssegundos.
func TimeWithinTolerance(toleranceMs int) cmp.Option {
	tolerance := time.Duration(toleranceMs) * time.Millisecond

	return cmp.Comparer(func(x, y time.Time) bool {
		return x.Sub(y).Abs() <= tolerance
	})
}

// LocalDateTimeWithinTolerance é a versão de TimeWithinTolerance para entities.LocalDateTime.
func LocalDateTimeWithinTolerance(toleranceMs int) cmp.Option {
	tolerance := time.Duration(toleranceMs) * time.Millisecond

	return cmp.Comparer(func(x, y entities.LocalDateTime) bool {
		return x.Sub(y.Time).Abs() <= tolerance
	})
}
