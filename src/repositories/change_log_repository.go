package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campusrecords/src/domain"
)

// ChangeLogRepository grava os eventos de registro consumidos do Kafka na tabela record_changes.
type ChangeLogRepository struct {
	writePool *pgxpool.Pool
}

func NewChangeLogRepository(writePool *pgxpool.Pool) *ChangeLogRepository {
	return &ChangeLogRepository{writePool: writePool}
}

// AppendChanges é idempotente por event_id: reentregas do Kafka não duplicam linhas.
// Retorna quantos eventos eram novos.
func (r *ChangeLogRepository) AppendChanges(ctx context.Context, events []domain.RecordEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO record_changes (event_id, event_type, record_type, record_id, record, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id) DO NOTHING`

	batch := &pgx.Batch{}
	for _, event := range events {
		var record any
		if len(event.Record) > 0 {
			record = event.Record
		}
		batch.Queue(query, event.EventID, string(event.EventType), event.RecordType, event.RecordID, record, event.OccurredAt)
	}

	tx, err := r.writePool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)

	var inserted int64
	for range events {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("failed to append record change: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit record changes: %w", err)
	}

	return inserted, nil
}
