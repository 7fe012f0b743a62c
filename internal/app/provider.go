// Package app wires the shared emitter, the order service and its
// subscribers together.
package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/KirkDiggler/typed-emitter/internal/container"
	"github.com/KirkDiggler/typed-emitter/internal/emitter"
	"github.com/KirkDiggler/typed-emitter/internal/errors"
	"github.com/KirkDiggler/typed-emitter/internal/events"
	"github.com/KirkDiggler/typed-emitter/internal/logging"
	"github.com/KirkDiggler/typed-emitter/internal/orders"
	"github.com/KirkDiggler/typed-emitter/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	Container *container.Container
	Events    *events.Emitter[orders.Events]
	Orders    orders.Service
	Stats     *orders.Stats
	Audit     *orders.Audit

	loader *events.Loader
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Emitter         emitter.Config
	OrderRepository orders.Repository
	Logger          *zerolog.Logger

	// Registerer enables emitter metrics when set
	Registerer prometheus.Registerer

	IDs   uuid.Generator
	Clock orders.TimeProvider
}

// NewProvider creates the emitter, registers it in the container and builds
// everything that depends on it
func NewProvider(cfg *ProviderConfig) (*Provider, error) {
	if cfg == nil {
		cfg = &ProviderConfig{}
	}

	log := logging.Default()
	if cfg.Logger != nil {
		log = cfg.Logger
	}

	emitterCfg := cfg.Emitter
	emitterCfg.Logger = log
	if cfg.Registerer != nil {
		metrics, err := emitter.NewMetrics(cfg.Registerer)
		if err != nil {
			return nil, errors.Wrap(err, "failed to register emitter metrics")
		}
		emitterCfg.Metrics = metrics
	}

	c := container.New()
	if err := container.ProvideEventEmitter(c, emitter.New(emitterCfg)); err != nil {
		return nil, err
	}

	bus, err := container.InjectEventEmitter(c)
	if err != nil {
		return nil, err
	}
	facade := events.NewEmitter(bus, orders.EventMap)

	// Use in-memory repository if none provided
	repo := cfg.OrderRepository
	if repo == nil {
		repo = orders.NewInMemoryRepository()
	}

	orderService, err := orders.NewService(&orders.ServiceConfig{
		Repository: repo,
		Events:     facade.Strict(),
		IDs:        cfg.IDs,
		Clock:      cfg.Clock,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}

	p := &Provider{
		Container: c,
		Events:    facade,
		Orders:    orderService,
		Stats:     orders.NewStats(),
		Audit:     orders.NewAudit(*log),
		loader:    events.NewLoader(bus),
	}

	subscribers := []events.Subscriber{p.Stats}
	if emitterCfg.Wildcard {
		subscribers = append(subscribers, p.Audit)
	} else {
		log.Warn().Msg("wildcards disabled, order audit listener not registered")
	}

	if err := p.loader.Load(subscribers...); err != nil {
		return nil, errors.Wrap(err, "failed to load order subscribers")
	}

	log.Info().
		Int("subscriptions", p.loader.Count()).
		Bool("wildcard", emitterCfg.Wildcard).
		Msg("event subscribers loaded")

	return p, nil
}

// Emitter resolves the shared emitter from the container
func (p *Provider) Emitter() *emitter.Emitter {
	return container.MustResolve(p.Container, container.EventEmitterToken)
}

// Close removes every subscription the provider registered
func (p *Provider) Close() error {
	return p.loader.Unload()
}
