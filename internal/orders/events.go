package orders

import (
	"time"

	"github.com/KirkDiggler/typed-emitter/internal/events"
)

// Events is the marker type for the order event vocabulary
type Events struct{}

// Created is the payload of order.created
type Created struct {
	OrderID    string
	CustomerID string
	Total      int64
	CreatedAt  time.Time
}

// Cancelled is the payload of order.cancelled
type Cancelled struct {
	OrderID string
	Reason  string
}

var (
	EventMap = events.NewMap[Events]()

	OrderCreated   = events.Declare[Created](EventMap, "order.created")
	OrderCancelled = events.Declare[Cancelled](EventMap, "order.cancelled")
)

var (
	// On subscribes to declared order events only
	On = events.CreateStrictTypedListener[Events]()

	// OnLoose also accepts undeclared identifiers such as wildcard patterns
	OnLoose = events.CreateTypedListener[Events]()
)
