package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Event struct {
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Metadata any
	At       time.Time
}

// Sink é um destino de eventos de auditoria (banco, Kafka, ...).
type Sink interface {
	Name() string
	Write(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	log   *zap.Logger
	sinks []Sink
	queue chan Event

	once sync.Once
	done chan struct{}
}

func NewDispatcher(log *zap.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		log:   log.With(zap.String("component", "audit")),
		sinks: sinks,
		queue: make(chan Event, 100), // buffer seguro
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Write(ctx, ev); err != nil {
				d.log.Warn("audit sink failed",
					zap.String("sink", s.Name()),
					zap.String("action", ev.Action),
					zap.String("entity_id", ev.EntityID),
					zap.Error(err),
				)
			}
			cancel()
		}
	}
}

// Dispatch nunca bloqueia a requisição. Um Dispatcher nil é aceito.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drena a fila e espera o worker terminar. Não chame Dispatch depois.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() { close(d.queue) })
	<-d.done
}
