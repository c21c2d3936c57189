package test_seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RecordChange é uma linha de record_changes.
type RecordChange struct {
	EventID    string
	EventType  string
	RecordType string
	RecordID   int64
	Record     json.RawMessage
	OccurredAt time.Time
}

func (ts TestSeeder) CountRows(ctx context.Context, table string) (int, error) {
	var count int
	err := ts.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
	return count, err
}

func (ts TestSeeder) SelectRecordChanges(ctx context.Context) ([]RecordChange, error) {
	query := `SELECT event_id, event_type, record_type, record_id, record, occurred_at
			  FROM record_changes ORDER BY id`

	rows, err := ts.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []RecordChange
	for rows.Next() {
		var change RecordChange
		err := rows.Scan(
			&change.EventID,
			&change.EventType,
			&change.RecordType,
			&change.RecordID,
			&change.Record,
			&change.OccurredAt,
		)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}

	return changes, rows.Err()
}
