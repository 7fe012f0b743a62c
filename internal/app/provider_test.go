package app_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/typed-emitter/internal/app"
	"github.com/KirkDiggler/typed-emitter/internal/container"
	"github.com/KirkDiggler/typed-emitter/internal/emitter"
	"github.com/KirkDiggler/typed-emitter/internal/events"
	"github.com/KirkDiggler/typed-emitter/internal/logging"
	"github.com/KirkDiggler/typed-emitter/internal/orders"
	"github.com/KirkDiggler/typed-emitter/internal/uuid"
)

func newProvider(t *testing.T, cfg emitter.Config, reg prometheus.Registerer) (*app.Provider, *logging.TestLogger) {
	t.Helper()

	log := logging.NewTestLogger(t)
	p, err := app.NewProvider(&app.ProviderConfig{
		Emitter:    cfg,
		Logger:     &log.Logger,
		Registerer: reg,
		IDs:        uuid.NewSequenceGenerator("order"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p, log
}

func TestProvider_OrderFlowReachesSubscribers(t *testing.T) {
	p, log := newProvider(t, emitter.Config{Wildcard: true}, nil)
	ctx := context.Background()

	order, err := p.Orders.Create(ctx, &orders.CreateInput{CustomerID: "alice", Total: 300})
	require.NoError(t, err)
	_, err = p.Orders.Cancel(ctx, order.ID, "out of stock")
	require.NoError(t, err)

	snap := p.Stats.Snapshot()
	assert.Equal(t, 1, snap.Created)
	assert.Equal(t, 1, snap.Cancelled)
	assert.Equal(t, int64(2), p.Audit.Seen())
	assert.True(t, log.Contains(`"order_id":"order-1"`))
}

func TestProvider_SharesOneEmitter(t *testing.T) {
	p, _ := newProvider(t, emitter.Config{Wildcard: true}, nil)

	injected, err := container.InjectEventEmitter(p.Container)
	require.NoError(t, err)

	assert.Same(t, injected, p.Emitter())
	assert.Same(t, events.Bus(injected), p.Events.Bus())

	// a second facade over the injected emitter sees the provider's subscribers
	strict := events.NewStrictEmitter(injected, orders.EventMap)
	_, err = events.Emit(strict, orders.OrderCreated, orders.Created{OrderID: "x", CustomerID: "bob", Total: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stats.Snapshot().ByCustomer["bob"])
}

func TestProvider_WithoutWildcardsSkipsAudit(t *testing.T) {
	p, log := newProvider(t, emitter.Config{}, nil)

	_, err := p.Orders.Create(context.Background(), &orders.CreateInput{CustomerID: "alice", Total: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(0), p.Audit.Seen())
	assert.Equal(t, 1, p.Stats.Snapshot().Created)
	assert.True(t, log.Contains("order audit listener not registered"))
}

func TestProvider_RegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, _ := newProvider(t, emitter.Config{Wildcard: true}, reg)

	_, err := p.Orders.Create(context.Background(), &orders.CreateInput{CustomerID: "alice", Total: 1})
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "typed_emitter_emitted_total")
	assert.Contains(t, names, "typed_emitter_listeners")

	// the same registry cannot take a second emitter
	_, err = app.NewProvider(&app.ProviderConfig{Registerer: reg, Logger: &logging.Nop})
	assert.Error(t, err)
}

func TestProvider_CloseRemovesSubscriptions(t *testing.T) {
	p, _ := newProvider(t, emitter.Config{Wildcard: true}, nil)

	require.NoError(t, p.Close())

	_, err := p.Orders.Create(context.Background(), &orders.CreateInput{CustomerID: "alice", Total: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stats.Snapshot().Created)
	assert.Empty(t, p.Emitter().EventNames())
}
