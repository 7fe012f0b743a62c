package orders

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/KirkDiggler/typed-emitter/internal/emitter"
	"github.com/KirkDiggler/typed-emitter/internal/events"
)

// AuditPattern matches every event under the order namespace
var AuditPattern = emitter.Named("order.*")

// Audit logs every order event, declared or not
type Audit struct {
	log  zerolog.Logger
	seen atomic.Int64
}

// NewAudit creates an audit subscriber writing to logger
func NewAudit(logger zerolog.Logger) *Audit {
	return &Audit{log: logger.With().Str("component", "audit").Logger()}
}

// Subscriptions registers a low-priority wildcard listener so audit entries
// are written after the typed handlers ran
func (a *Audit) Subscriptions() []events.Binding {
	return []events.Binding{
		OnLoose.OnAny(AuditPattern, emitter.Options{Priority: 100, SuppressErrors: true}).Func(a.record),
	}
}

func (a *Audit) record(_ context.Context, payload any) error {
	a.seen.Add(1)

	evt := a.log.Info()
	switch p := payload.(type) {
	case Created:
		evt = evt.Str("event", OrderCreated.String()).
			Str("order_id", p.OrderID).
			Str("customer_id", p.CustomerID).
			Int64("total", p.Total)
	case Cancelled:
		evt = evt.Str("event", OrderCancelled.String()).
			Str("order_id", p.OrderID).
			Str("reason", p.Reason)
	default:
		evt = evt.Str("event", "order.*").Interface("payload", payload)
	}
	evt.Msg("order event")
	return nil
}

// Seen returns how many events were audited
func (a *Audit) Seen() int64 {
	return a.seen.Load()
}
