package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/KirkDiggler/typed-emitter/internal/app"
	"github.com/KirkDiggler/typed-emitter/internal/emitter"
	"github.com/KirkDiggler/typed-emitter/internal/orders"
)

// runDemo places a few orders, cancels one and reports what the subscribers saw
func runDemo(ctx context.Context, p *app.Provider, log zerolog.Logger) error {
	inputs := []orders.CreateInput{
		{CustomerID: "alice", Total: 1999},
		{CustomerID: "alice", Total: 450},
		{CustomerID: "bob", Total: 12000},
	}

	var placed []*orders.Order
	for i := range inputs {
		order, err := p.Orders.Create(ctx, &inputs[i])
		if err != nil {
			return err
		}
		placed = append(placed, order)
	}

	if _, err := p.Orders.Cancel(ctx, placed[1].ID, "customer request"); err != nil {
		return err
	}

	// undeclared events go through the loose facade and reach wildcard listeners only
	if _, err := p.Events.EmitAny(emitter.Named("order.reviewed"), map[string]string{
		"order_id": placed[0].ID,
	}); err != nil {
		return err
	}

	list, err := p.Orders.ListByCustomer(ctx, "alice")
	if err != nil {
		return err
	}

	snap := p.Stats.Snapshot()
	log.Info().
		Int("created", snap.Created).
		Int("cancelled", snap.Cancelled).
		Int64("revenue", snap.Revenue).
		Int("alice_orders", len(list)).
		Int64("audited", p.Audit.Seen()).
		Msg("demo complete")

	return nil
}
