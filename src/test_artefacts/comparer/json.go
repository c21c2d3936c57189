package comparer

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// JSONRawMessage compara payloads JSON pelo conteúdo, ignorando espaços e ordem das chaves.
func JSONRawMessage() cmp.Option {
	return cmp.Comparer(func(x, y json.RawMessage) bool {
		if len(bytes.TrimSpace(x)) == 0 || len(bytes.TrimSpace(y)) == 0 {
			return len(bytes.TrimSpace(x)) == len(bytes.TrimSpace(y))
		}

		var xValue, yValue any
		if json.Unmarshal(x, &xValue) != nil || json.Unmarshal(y, &yValue) != nil {
			return bytes.Equal(x, y)
		}

		return reflect.DeepEqual(xValue, yValue)
	})
}
