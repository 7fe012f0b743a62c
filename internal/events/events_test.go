package events_test

import (
	"github.com/KirkDiggler/typed-emitter/internal/emitter"
	"github.com/KirkDiggler/typed-emitter/internal/events"
)

type shopEvents struct{}

type orderCreated struct {
	OrderID string
}

type orderShipped struct {
	OrderID string
	Carrier string
}

var (
	shop = events.NewMap[shopEvents]()

	orderCreatedEvent = events.Declare[orderCreated](shop, "order.created")
	orderShippedEvent = events.DeclareID[orderShipped](shop, emitter.ID(emitter.Name("order"), emitter.Name("shipped")))
	heartbeatSymbol   = emitter.NewSymbol("heartbeat")
	heartbeatEvent    = events.DeclareID[int](shop, emitter.ID(heartbeatSymbol))
)

// strict vocabulary with only "a" and "b"
type abEvents struct{}

var (
	ab     = events.NewMap[abEvents]()
	aEvent = events.Declare[string](ab, "a")
	bEvent = events.Declare[int](ab, "b")
)
