package fakes

import (
	"context"
	"sort"
	"sync"

	"campusrecords/src/domain"
)

type record[T any] interface {
	RecordID() int64
	WithID(id int64) T
}

// MemoryRepository é um repositório em memória com a mesma semântica do RecordRepository.
type MemoryRepository[T record[T]] struct {
	mu      sync.Mutex
	records map[int64]T
	nextID  int64

	// Err, quando definido, é devolvido por todas as operações.
	Err error

	Writes int
}

func NewMemoryRepository[T record[T]](seed ...T) *MemoryRepository[T] {
	repository := &MemoryRepository[T]{records: make(map[int64]T)}
	for _, r := range seed {
		repository.Save(context.Background(), r)
	}
	repository.Writes = 0
	return repository
}

func (m *MemoryRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	ids := make([]int64, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]T, 0, len(ids))
	for _, id := range ids {
		result = append(result, m.records[id])
	}
	return result, nil
}

func (m *MemoryRepository[T]) FindByID(ctx context.Context, id int64) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if m.Err != nil {
		return zero, m.Err
	}

	r, ok := m.records[id]
	if !ok {
		return zero, domain.ErrRecordNotFound
	}
	return r, nil
}

func (m *MemoryRepository[T]) Save(ctx context.Context, r T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if m.Err != nil {
		return zero, m.Err
	}

	if r.RecordID() == 0 {
		m.nextID++
		r = r.WithID(m.nextID)
	} else if _, ok := m.records[r.RecordID()]; !ok {
		return zero, domain.ErrRecordNotFound
	}

	m.records[r.RecordID()] = r
	m.Writes++
	return r, nil
}

func (m *MemoryRepository[T]) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	if _, ok := m.records[id]; !ok {
		return domain.ErrRecordNotFound
	}

	delete(m.records, id)
	m.Writes++
	return nil
}

func (m *MemoryRepository[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
