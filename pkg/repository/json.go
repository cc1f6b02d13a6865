package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

type jsonbScanner[T any] struct {
	dst *T
}

// JSONB returns a sql.Scanner that decodes a jsonb column into dst.
// NULL leaves dst unchanged.
func JSONB[T any](dst *T) sql.Scanner {
	return jsonbScanner[T]{dst: dst}
}

func (s jsonbScanner[T]) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, s.dst)
	case string:
		return json.Unmarshal([]byte(v), s.dst)
	default:
		return fmt.Errorf("scan jsonb: unsupported source type %T", src)
	}
}

// JSONBArg encodes v as a jsonb query parameter.
func JSONBArg(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode jsonb: %w", err)
	}
	return string(data), nil
}
