package orders

import (
	"context"
	"sync"

	"github.com/KirkDiggler/typed-emitter/internal/emitter"
	"github.com/KirkDiggler/typed-emitter/internal/events"
)

// Stats keeps running order counts from order events
type Stats struct {
	mu         sync.Mutex
	created    int
	cancelled  int
	revenue    int64
	byCustomer map[string]int
	reasons    map[string]int
}

// Snapshot is a copy of the counters at one point in time
type Snapshot struct {
	Created    int
	Cancelled  int
	Revenue    int64
	ByCustomer map[string]int
	Reasons    map[string]int
}

// NewStats creates an empty Stats subscriber
func NewStats() *Stats {
	return &Stats{
		byCustomer: make(map[string]int),
		reasons:    make(map[string]int),
	}
}

// Subscriptions binds the stats handlers to the order events
func (s *Stats) Subscriptions() []events.Binding {
	return []events.Binding{
		events.OnEvent(On, OrderCreated).Func(s.onCreated),
		events.OnEvent(On, OrderCancelled, emitter.Options{Priority: -1}).Func(s.onCancelled),
	}
}

func (s *Stats) onCreated(_ context.Context, e Created) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.created++
	s.revenue += e.Total
	s.byCustomer[e.CustomerID]++
	return nil
}

func (s *Stats) onCancelled(_ context.Context, e Cancelled) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelled++
	reason := e.Reason
	if reason == "" {
		reason = "unspecified"
	}
	s.reasons[reason]++
	return nil
}

// Snapshot returns the current counters
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Created:    s.created,
		Cancelled:  s.cancelled,
		Revenue:    s.revenue,
		ByCustomer: make(map[string]int, len(s.byCustomer)),
		Reasons:    make(map[string]int, len(s.reasons)),
	}
	for k, v := range s.byCustomer {
		snap.ByCustomer[k] = v
	}
	for k, v := range s.reasons {
		snap.Reasons[k] = v
	}
	return snap
}
