package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"campusrecords/src/domain"
)

var (
	ErrPublishQueueFull = errors.New("record event queue is full")
	ErrPublisherClosed  = errors.New("record event publisher is closed")
)

// RecordEventSink recebe os lotes montados pelo AsyncRecordEventPublisher.
type RecordEventSink interface {
	PublishRecordEvents(ctx context.Context, events []domain.RecordEvent) error
}

// AsyncRecordEventPublisher tira a publicação do caminho da requisição: PublishRecordEvent
// só enfileira, e um único worker entrega ao sink na ordem de chegada.
// Com a fila cheia o evento é recusado em vez de bloquear quem publica.
type AsyncRecordEventPublisher struct {
	logger       *slog.Logger
	sink         RecordEventSink
	queue        chan domain.RecordEvent
	maxBatchSize int

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewAsyncRecordEventPublisher(
	logger *slog.Logger,
	sink RecordEventSink,
	queueSize int,
	maxBatchSize int,
) *AsyncRecordEventPublisher {
	if maxBatchSize < 1 {
		maxBatchSize = 1
	}

	p := &AsyncRecordEventPublisher{
		logger:       logger,
		sink:         sink,
		queue:        make(chan domain.RecordEvent, queueSize),
		maxBatchSize: maxBatchSize,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}

	go p.run()

	return p
}

func (p *AsyncRecordEventPublisher) PublishRecordEvent(ctx context.Context, event domain.RecordEvent) error {
	select {
	case <-p.stop:
		return ErrPublisherClosed
	default:
	}

	select {
	case p.queue <- event:
		return nil
	default:
		return ErrPublishQueueFull
	}
}

// Close para de aceitar eventos e espera o worker esvaziar a fila ou ctx expirar.
func (p *AsyncRecordEventPublisher) Close(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.stop) })

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *AsyncRecordEventPublisher) run() {
	defer close(p.done)

	for {
		select {
		case event := <-p.queue:
			p.deliver(p.collect(event))
		case <-p.stop:
			for {
				select {
				case event := <-p.queue:
					p.deliver(p.collect(event))
				default:
					return
				}
			}
		}
	}
}

// collect junta ao primeiro evento o que já estiver na fila, até maxBatchSize.
func (p *AsyncRecordEventPublisher) collect(first domain.RecordEvent) []domain.RecordEvent {
	batch := []domain.RecordEvent{first}

	for len(batch) < p.maxBatchSize {
		select {
		case event := <-p.queue:
			batch = append(batch, event)
		default:
			return batch
		}
	}

	return batch
}

func (p *AsyncRecordEventPublisher) deliver(batch []domain.RecordEvent) {
	if err := p.sink.PublishRecordEvents(context.Background(), batch); err != nil {
		p.logger.Error("Failed to deliver record events",
			"error", err,
			"events_count", len(batch),
			"first_event_id", batch[0].EventID)
	}
}
