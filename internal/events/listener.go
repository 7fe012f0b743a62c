package events

import (
	"context"
	"reflect"

	"github.com/KirkDiggler/typed-emitter/internal/emitter"
	"github.com/KirkDiggler/typed-emitter/internal/errors"
)

// Handler receives a typed payload. Its result is what EmitAsync collects.
type Handler[P any] func(ctx context.Context, payload P) (any, error)

// ListenerFactory produces subscription decorators for the events of map M
type ListenerFactory[M any] interface {
	listenerFor(M)
}

// TypedListener is the non-strict factory: declared events through OnEvent,
// any other identifier through OnAny
type TypedListener[M any] struct{}

// StrictTypedListener only subscribes to events declared in M
type StrictTypedListener[M any] struct{}

// CreateTypedListener returns the non-strict listener factory for M
func CreateTypedListener[M any]() TypedListener[M] {
	return TypedListener[M]{}
}

// CreateStrictTypedListener returns the strict listener factory for M
func CreateStrictTypedListener[M any]() StrictTypedListener[M] {
	return StrictTypedListener[M]{}
}

func (TypedListener[M]) listenerFor(M)       {}
func (StrictTypedListener[M]) listenerFor(M) {}

// OnAny subscribes to an identifier outside the map. The payload is delivered
// untyped. At most one Options value may be given.
func (TypedListener[M]) OnAny(id emitter.Identifier, opts ...emitter.Options) Decorator[any] {
	return Decorator[any]{id: id, opts: singleOptions(opts)}
}

// OnEvent returns a decorator for a declared event. Options, when given, reach
// the bus unchanged. Passing more than one Options value panics.
func OnEvent[M, P any](l ListenerFactory[M], ev Event[M, P], opts ...emitter.Options) Decorator[P] {
	return Decorator[P]{id: ev.id, opts: singleOptions(opts)}
}

// Decorator marks a handler as a listener for one identifier
type Decorator[P any] struct {
	id   emitter.Identifier
	opts emitter.Options
}

// Event returns the identifier the decorator subscribes to
func (d Decorator[P]) Event() emitter.Identifier { return d.id }

// Options returns the options passed to the bus on registration
func (d Decorator[P]) Options() emitter.Options { return d.opts }

// Apply binds a handler to the decorator
func (d Decorator[P]) Apply(h Handler[P]) Binding {
	b := Binding{id: d.id, opts: d.opts}
	if h != nil {
		b.listener = adapt(d.id, h)
	}
	return b
}

// Func binds a handler that produces no result
func (d Decorator[P]) Func(fn func(ctx context.Context, payload P) error) Binding {
	if fn == nil {
		return d.Apply(nil)
	}
	return d.Apply(func(ctx context.Context, payload P) (any, error) {
		return nil, fn(ctx, payload)
	})
}

// Binding is a decorated handler waiting to be registered on a bus
type Binding struct {
	id       emitter.Identifier
	opts     emitter.Options
	listener emitter.Listener
}

// Event returns the identifier the binding subscribes to
func (b Binding) Event() emitter.Identifier { return b.id }

// Register subscribes the handler exactly as bus.On would with the same
// identifier and options
func (b Binding) Register(bus Bus) (emitter.Subscription, error) {
	return bus.On(b.id, b.listener, b.opts)
}

func adapt[P any](id emitter.Identifier, h Handler[P]) emitter.Listener {
	return func(ctx context.Context, payload any) (any, error) {
		var typed P
		if payload != nil {
			v, ok := payload.(P)
			if !ok {
				return nil, errors.InvalidArgumentf("event %s: payload %T is not %s",
					id, payload, reflect.TypeFor[P]()).
					WithMeta("event", id.String())
			}
			typed = v
		}
		return h(ctx, typed)
	}
}

func singleOptions(opts []emitter.Options) emitter.Options {
	switch len(opts) {
	case 0:
		return emitter.Options{}
	case 1:
		return opts[0]
	}
	panic(errors.InvalidArgumentf("expected at most one Options value, got %d", len(opts)))
}
