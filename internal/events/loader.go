package events

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/KirkDiggler/typed-emitter/internal/emitter"
	"github.com/KirkDiggler/typed-emitter/internal/errors"
)

// Subscriber declares its handlers as decorated bindings
type Subscriber interface {
	Subscriptions() []Binding
}

// Loader registers subscribers on a bus at startup and removes them on shutdown
type Loader struct {
	bus  Bus
	mu   sync.Mutex
	subs []*tracked
}

// tracked is one registration held by a Loader. Once bindings drop out of the
// loader when the bus fires them.
type tracked struct {
	sub emitter.Subscription
}

// NewLoader creates a loader for bus
func NewLoader(bus Bus) *Loader {
	return &Loader{bus: bus}
}

// Load registers every binding of every subscriber. If one registration
// fails, the bindings registered by this call are removed again.
func (l *Loader) Load(subscribers ...Subscriber) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var added []*tracked
	for _, s := range subscribers {
		if s == nil {
			continue
		}
		for _, b := range s.Subscriptions() {
			t := &tracked{}
			sub, err := l.track(b, t).Register(l.bus)
			if err != nil {
				return stderrors.Join(
					errors.Wrapf(err, "failed to register listener for %s", b.Event()),
					l.rollback(added),
				)
			}
			t.sub = sub
			added = append(added, t)
		}
	}

	l.subs = append(l.subs, added...)
	return nil
}

// Unload removes every subscription the loader registered
func (l *Loader) Unload() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.rollback(l.subs)
	l.subs = nil
	return err
}

// Count returns the number of subscriptions the loader holds
func (l *Loader) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// track wraps Once listeners so the loader forgets them when they fire
func (l *Loader) track(b Binding, t *tracked) Binding {
	if !b.opts.Once || b.listener == nil {
		return b
	}

	inner := b.listener
	b.listener = func(ctx context.Context, payload any) (any, error) {
		l.forget(t)
		return inner(ctx, payload)
	}
	return b
}

func (l *Loader) forget(t *tracked) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, other := range l.subs {
		if other == t {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

// rollback removes subs in reverse order. A subscription the bus no longer
// knows is already gone and not an error.
func (l *Loader) rollback(subs []*tracked) error {
	var errs []error
	for i := len(subs) - 1; i >= 0; i-- {
		if err := l.bus.Off(subs[i].sub); err != nil && !errors.IsNotFound(err) {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
