package fakes

import (
	"context"
	"sync"

	"campusrecords/src/domain"
)

type RecordingPublisher struct {
	mu     sync.Mutex
	events []domain.RecordEvent

	Err error
}

func (p *RecordingPublisher) PublishRecordEvent(ctx context.Context, event domain.RecordEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}

	p.events = append(p.events, event)
	return nil
}

func (p *RecordingPublisher) Events() []domain.RecordEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]domain.RecordEvent(nil), p.events...)
}
