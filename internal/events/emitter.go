package events

import (
	"context"

	"github.com/KirkDiggler/typed-emitter/internal/emitter"
)

// Facade is a typed view of a Bus restricted to the events of map M
type Facade[M any] interface {
	// Bus returns the wrapped emitter
	Bus() Bus

	facadeFor(M)
}

// LooseFacade is a Facade that also accepts identifiers outside map M
type LooseFacade[M any] interface {
	Facade[M]

	EmitAny(id emitter.Identifier, payload any) (bool, error)
	EmitAnyAsync(ctx context.Context, id emitter.Identifier, payload any) ([]any, error)
}

// Emitter is the non-strict facade: declared events are typed and any other
// identifier may be emitted with an untyped payload through EmitAny.
type Emitter[M any] struct {
	bus    Bus
	events *Map[M]
}

// NewEmitter wraps bus for the events of m
func NewEmitter[M any](bus Bus, m *Map[M]) *Emitter[M] {
	return &Emitter[M]{bus: bus, events: m}
}

// Bus returns the wrapped emitter
func (e *Emitter[M]) Bus() Bus { return e.bus }

// Map returns the event map the facade was built for
func (e *Emitter[M]) Map() *Map[M] { return e.events }

// Strict narrows the facade to declared events only
func (e *Emitter[M]) Strict() *StrictEmitter[M] {
	return &StrictEmitter[M]{bus: e.bus, events: e.events}
}

// EmitAny emits an identifier that need not be declared in M
func (e *Emitter[M]) EmitAny(id emitter.Identifier, payload any) (bool, error) {
	return e.bus.Emit(id, payload)
}

// EmitAnyAsync is the asynchronous form of EmitAny
func (e *Emitter[M]) EmitAnyAsync(ctx context.Context, id emitter.Identifier, payload any) ([]any, error) {
	return e.bus.EmitAsync(ctx, id, payload)
}

func (*Emitter[M]) facadeFor(M) {}

// StrictEmitter only emits events declared in M. It has no untyped methods,
// so an undeclared identifier cannot be emitted through it.
type StrictEmitter[M any] struct {
	bus    Bus
	events *Map[M]
}

// NewStrictEmitter wraps bus for the events of m in strict mode
func NewStrictEmitter[M any](bus Bus, m *Map[M]) *StrictEmitter[M] {
	return &StrictEmitter[M]{bus: bus, events: m}
}

// Bus returns the wrapped emitter
func (e *StrictEmitter[M]) Bus() Bus { return e.bus }

// Map returns the event map the facade was built for
func (e *StrictEmitter[M]) Map() *Map[M] { return e.events }

func (*StrictEmitter[M]) facadeFor(M) {}

// Emit emits ev with its declared payload type and returns the bus result
// unchanged
func Emit[M, P any](f Facade[M], ev Event[M, P], payload P) (bool, error) {
	return f.Bus().Emit(ev.id, payload)
}

// EmitAsync emits ev and returns the listener results from the bus unchanged
func EmitAsync[M, P any](ctx context.Context, f Facade[M], ev Event[M, P], payload P) ([]any, error) {
	return f.Bus().EmitAsync(ctx, ev.id, payload)
}
