package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LocalDateTimeLayout é o formato ISO sem fuso horário usado na API.
const LocalDateTimeLayout = "2006-01-02T15:04:05.999999999"

// LocalDateTime representa uma data/hora sem fuso, no formato "2022-01-03T00:00:00".
type LocalDateTime struct {
	time.Time
}

func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{Time: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}
}

// ParseLocalDateTime aceita o formato local ISO e também RFC 3339.
func ParseLocalDateTime(value string) (LocalDateTime, error) {
	if t, err := time.ParseInLocation(LocalDateTimeLayout, value, time.UTC); err == nil {
		return LocalDateTime{Time: t}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return LocalDateTime{}, fmt.Errorf("invalid local date-time %q, expected format 2006-01-02T15:04:05", value)
	}

	return NewLocalDateTime(t), nil
}

func (ldt LocalDateTime) String() string {
	return ldt.Time.Format(LocalDateTimeLayout)
}

func (ldt LocalDateTime) MarshalJSON() ([]byte, error) {
	if ldt.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ldt.String())
}

func (ldt *LocalDateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		ldt.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("local date-time must be a string: %w", err)
	}

	parsed, err := ParseLocalDateTime(raw)
	if err != nil {
		return err
	}

	*ldt = parsed
	return nil
}
