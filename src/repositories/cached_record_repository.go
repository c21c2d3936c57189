package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"campusrecords/src/domain"
	"campusrecords/src/infra/redis"
)

// deletedMarker fica no lugar de um registro apagado até o TTL expirar. Não é JSON
// válido, então não colide com um registro serializado.
const deletedMarker = "deleted"

// RecordStore é o repositório de origem do cache. FindByIDFromPrimary não pode
// devolver dados atrasados em relação às escritas já confirmadas.
type RecordStore[T Record[T]] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (T, error)
	FindByIDFromPrimary(ctx context.Context, id int64) (T, error)
	Save(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, id int64) error
	Schema() RecordSchema[T]
}

// CachedRecordRepository coloca um cache no Redis na frente de FindByID.
//   - misses são preenchidos a partir do primário e só se a chave continuar vazia,
//     então uma leitura lenta não sobrescreve o que uma escrita gravou;
//   - Save grava o registro salvo na chave (write-through) e Delete grava um marcador;
//   - FindAll não passa pelo cache.
type CachedRecordRepository[T Record[T]] struct {
	logger      *slog.Logger
	store       RecordStore[T]
	redisClient *redis.RedisClient
}

func NewCachedRecordRepository[T Record[T]](
	logger *slog.Logger,
	store RecordStore[T],
	redisClient *redis.RedisClient,
) *CachedRecordRepository[T] {
	return &CachedRecordRepository[T]{
		logger:      logger,
		store:       store,
		redisClient: redisClient,
	}
}

func (r *CachedRecordRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	return r.store.FindAll(ctx)
}

func (r *CachedRecordRepository[T]) FindByID(ctx context.Context, id int64) (T, error) {
	cacheKey := r.recordKey(id)

	var cached T
	switch r.getFromCache(ctx, cacheKey, &cached) {
	case cacheHit:
		return cached, nil
	case cacheDeleted:
		return cached, domain.ErrRecordNotFound
	}

	record, err := r.store.FindByIDFromPrimary(ctx, id)
	if err != nil {
		return record, err
	}

	r.fillCache(ctx, cacheKey, record)
	return record, nil
}

func (r *CachedRecordRepository[T]) Save(ctx context.Context, record T) (T, error) {
	saved, err := r.store.Save(ctx, record)
	if err != nil {
		return saved, err
	}

	dataJSON, err := json.Marshal(saved)
	if err != nil {
		r.logger.Warn("Failed to marshal saved record for cache", "id", saved.RecordID(), "error", err)
		r.invalidate(ctx, saved.RecordID())
		return saved, nil
	}

	r.overwrite(ctx, saved.RecordID(), string(dataJSON))
	return saved, nil
}

func (r *CachedRecordRepository[T]) Delete(ctx context.Context, id int64) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}

	r.overwrite(ctx, id, deletedMarker)
	return nil
}

func (r *CachedRecordRepository[T]) recordKey(id int64) string {
	return fmt.Sprintf("record:%s:%s", r.store.Schema().Table, strconv.FormatInt(id, 10))
}

type cacheResult int

const (
	cacheMiss cacheResult = iota
	cacheHit
	cacheDeleted
)

// getFromCache trata qualquer falha do Redis como cache miss.
func (r *CachedRecordRepository[T]) getFromCache(ctx context.Context, cacheKey string, target any) cacheResult {
	cachedJSON, found, err := r.redisClient.GetKey(ctx, cacheKey)
	if err != nil {
		r.logger.Warn("Cache read failed, falling back to postgres", "key", cacheKey, "error", err)
		return cacheMiss
	}

	if !found {
		r.logger.Debug("Cache MISS", "key", cacheKey)
		return cacheMiss
	}

	if cachedJSON == deletedMarker {
		r.logger.Debug("Cache HIT (deleted)", "key", cacheKey)
		return cacheDeleted
	}

	if err := json.Unmarshal([]byte(cachedJSON), target); err != nil {
		r.logger.Warn("Failed to unmarshal cached data", "key", cacheKey, "error", err)
		return cacheMiss
	}

	r.logger.Debug("Cache HIT", "key", cacheKey)
	return cacheHit
}

func (r *CachedRecordRepository[T]) fillCache(ctx context.Context, cacheKey string, value any) {
	dataJSON, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("Failed to marshal cache data", "key", cacheKey, "error", err)
		return
	}

	stored, err := r.redisClient.SetKeyIfAbsent(ctx, cacheKey, string(dataJSON))
	if err != nil {
		r.logger.Warn("Failed to set cache", "key", cacheKey, "error", err)
		return
	}
	if !stored {
		r.logger.Debug("Cache already filled by a write", "key", cacheKey)
	}
}

// overwrite grava o estado pós-escrita. Se o Redis falhar, tenta ao menos apagar a
// chave para não deixar o valor anterior visível.
func (r *CachedRecordRepository[T]) overwrite(ctx context.Context, id int64, value string) {
	cacheKey := r.recordKey(id)

	if err := r.redisClient.SetKey(ctx, cacheKey, value); err != nil {
		r.logger.Warn("Failed to write through cache, invalidating", "key", cacheKey, "error", err)
		r.invalidate(ctx, id)
	}
}

func (r *CachedRecordRepository[T]) invalidate(ctx context.Context, id int64) {
	if err := r.redisClient.InvalidateKeys(ctx, r.recordKey(id)); err != nil {
		r.logger.Error("Failed to invalidate cache", "table", r.store.Schema().Table, "id", id, "error", err)
	}
}
