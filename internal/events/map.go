package events

import (
	"reflect"
	"sort"
	"sync"

	"github.com/KirkDiggler/typed-emitter/internal/emitter"
	"github.com/KirkDiggler/typed-emitter/internal/errors"
)

// Map is the set of events one application declares under the marker type M.
// M is never instantiated; it only ties events, facades and listener factories
// to the same vocabulary at compile time.
//
//	type OrderEvents struct{}
//
//	var (
//		Orders       = events.NewMap[OrderEvents]()
//		OrderCreated = events.Declare[Created](Orders, "order.created")
//	)
type Map[M any] struct {
	mu    sync.RWMutex
	decls map[string]declaration
}

type declaration struct {
	id      emitter.Identifier
	payload reflect.Type
}

// NewMap creates an empty event map
func NewMap[M any]() *Map[M] {
	return &Map[M]{decls: make(map[string]declaration)}
}

// Event is an identifier bound to map M and payload type P
type Event[M, P any] struct {
	id emitter.Identifier
}

// ID returns the identifier the event is emitted and subscribed under
func (e Event[M, P]) ID() emitter.Identifier {
	return e.id
}

func (e Event[M, P]) String() string {
	return e.id.String()
}

// Declare adds a named event with payload type P to m
func Declare[P, M any](m *Map[M], name string) Event[M, P] {
	return DeclareID[P](m, emitter.Named(name))
}

// DeclareID adds an event addressed by a symbol or a path. It panics when id
// is empty or already declared in m with a different payload type, so
// conflicting declarations fail at package initialization.
//
// A map is not tied to an emitter, so declarations are compared the way
// Identifier.Key compares them: names are split on DefaultDelimiter. "a.b"
// and ID(Name("a"), Name("b")) are therefore one declaration. An emitter
// configured with another delimiter keeps them as separate channels, so such
// applications should spell each event one way only.
func DeclareID[P, M any](m *Map[M], id emitter.Identifier) Event[M, P] {
	if id.IsZero() {
		panic(errors.InvalidArgument("cannot declare an event with an empty identifier"))
	}

	payload := reflect.TypeFor[P]()
	key := id.Key()

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.decls[key]; ok && existing.payload != payload {
		panic(errors.AlreadyExistsf("event %s already declared with payload %s, cannot redeclare with %s",
			id, existing.payload, payload).
			WithMeta("event", id.String()))
	}

	m.decls[key] = declaration{id: id, payload: payload}
	return Event[M, P]{id: id}
}

// Lookup returns the payload type declared for id
func (m *Map[M]) Lookup(id emitter.Identifier) (reflect.Type, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	decl, ok := m.decls[id.Key()]
	return decl.payload, ok
}

// Has reports whether id is declared in m
func (m *Map[M]) Has(id emitter.Identifier) bool {
	_, ok := m.Lookup(id)
	return ok
}

// IDs returns the declared identifiers ordered by their string form
func (m *Map[M]) IDs() []emitter.Identifier {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]emitter.Identifier, 0, len(m.decls))
	for _, decl := range m.decls {
		ids = append(ids, decl.id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
