package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"campusrecords/src/domain"
	"campusrecords/src/infra/postgres"
)

// RecordRepository é o colaborador de persistência genérico: findAll, findById, save e delete.
type RecordRepository[T Record[T]] struct {
	readPool  *pgxpool.Pool
	writePool *pgxpool.Pool
	schema    RecordSchema[T]
}

func NewRecordRepository[T Record[T]](readWriteClient *postgres.ReadWriteClient, schema RecordSchema[T]) *RecordRepository[T] {
	return &RecordRepository[T]{
		readPool:  readWriteClient.GetReadPool(),
		writePool: readWriteClient.GetWritePool(),
		schema:    schema,
	}
}

func (r *RecordRepository[T]) Schema() RecordSchema[T] {
	return r.schema
}

func (r *RecordRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	rows, err := r.readPool.Query(ctx, r.schema.selectAllQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.schema.Table, err)
	}
	defer rows.Close()

	records := make([]T, 0)
	for rows.Next() {
		record, err := r.schema.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.schema.Table, err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", r.schema.Table, err)
	}

	return records, nil
}

func (r *RecordRepository[T]) FindByID(ctx context.Context, id int64) (T, error) {
	return r.findByID(ctx, r.readPool, id)
}

// FindByIDFromPrimary lê da escrita, sem o atraso de replicação da réplica.
// É o que o cache usa para se preencher.
func (r *RecordRepository[T]) FindByIDFromPrimary(ctx context.Context, id int64) (T, error) {
	return r.findByID(ctx, r.writePool, id)
}

func (r *RecordRepository[T]) findByID(ctx context.Context, pool *pgxpool.Pool, id int64) (T, error) {
	record, err := r.schema.Scan(pool.QueryRow(ctx, r.schema.selectByIDQuery(), id))
	if err != nil {
		var zero T
		if postgres.IsNoRows(err) {
			return zero, domain.ErrRecordNotFound
		}
		return zero, fmt.Errorf("failed to find %s %d: %w", r.schema.Table, id, err)
	}

	return record, nil
}

// Save insere quando o id é zero e, caso contrário, sobrescreve todas as colunas da linha.
func (r *RecordRepository[T]) Save(ctx context.Context, record T) (T, error) {
	var (
		query string
		args  = r.schema.Values(record)
	)

	if record.RecordID() == 0 {
		query = r.schema.insertQuery()
	} else {
		query = r.schema.updateQuery()
		args = append(args, record.RecordID())
	}

	saved, err := r.schema.Scan(r.writePool.QueryRow(ctx, query, args...))
	if err != nil {
		var zero T
		switch {
		case postgres.IsNoRows(err):
			return zero, domain.ErrRecordNotFound
		case postgres.IsUniqueViolation(err):
			return zero, fmt.Errorf("failed to save %s: %w", r.schema.Table, domain.ErrConflict)
		}
		return zero, fmt.Errorf("failed to save %s: %w", r.schema.Table, err)
	}

	return saved, nil
}

func (r *RecordRepository[T]) Delete(ctx context.Context, id int64) error {
	tag, err := r.writePool.Exec(ctx, r.schema.deleteQuery(), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", r.schema.Table, id, err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
