package audit

import (
	"context"
	"log/slog"
	"sync"
)

type Event struct {
	CompanyID uint
	UserID    *uint
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
}

// Store persiste um evento de auditoria.
type Store interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher grava auditoria fora do caminho da requisição.
type Dispatcher struct {
	store Store
	log   *slog.Logger
	queue chan Event

	done chan struct{}
	once sync.Once
}

const defaultQueueSize = 100

func NewDispatcher(store Store, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		store: store,
		log:   log,
		queue: make(chan Event, defaultQueueSize),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.store.Log(context.Background(), ev); err != nil {
			d.log.Warn("audit write failed",
				"action", ev.Action,
				"company_id", ev.CompanyID,
				"err", err,
			)
		}
	}
}

// Dispatch nunca bloqueia: com a fila cheia o evento é descartado.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drena a fila e espera o worker terminar.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	<-d.done
}
