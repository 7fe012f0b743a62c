package orders

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/KirkDiggler/typed-emitter/internal/errors"
	"github.com/KirkDiggler/typed-emitter/internal/events"
	"github.com/KirkDiggler/typed-emitter/internal/logging"
	"github.com/KirkDiggler/typed-emitter/internal/uuid"
)

// Service defines order operations
type Service interface {
	Create(ctx context.Context, input *CreateInput) (*Order, error)
	Cancel(ctx context.Context, id, reason string) (*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Order, error)
}

// CreateInput is the input for Create
type CreateInput struct {
	CustomerID string
	Total      int64
}

// ServiceConfig holds configuration for the order service
type ServiceConfig struct {
	Repository Repository
	Events     *events.StrictEmitter[Events]
	IDs        uuid.Generator
	Clock      TimeProvider
	Logger     *zerolog.Logger
}

type service struct {
	repo   Repository
	events *events.StrictEmitter[Events]
	ids    uuid.Generator
	clock  TimeProvider
	log    zerolog.Logger
}

// NewService creates an order service. Repository and Events are required.
func NewService(cfg *ServiceConfig) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("service config is required")
	}
	if cfg.Repository == nil {
		return nil, errors.InvalidArgument("repository is required")
	}
	if cfg.Events == nil {
		return nil, errors.InvalidArgument("event emitter is required")
	}

	svc := &service{
		repo:   cfg.Repository,
		events: cfg.Events,
		ids:    cfg.IDs,
		clock:  cfg.Clock,
		log:    logging.Nop,
	}
	if svc.ids == nil {
		svc.ids = uuid.NewGoogleUUIDGenerator()
	}
	if svc.clock == nil {
		svc.clock = SystemClock()
	}
	if cfg.Logger != nil {
		svc.log = cfg.Logger.With().Str("component", "orders").Logger()
	}

	return svc, nil
}

func (s *service) Create(ctx context.Context, input *CreateInput) (*Order, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CustomerID == "" {
		return nil, errors.InvalidArgument("customer ID is required")
	}
	if input.Total <= 0 {
		return nil, errors.InvalidArgumentf("total must be positive, got %d", input.Total)
	}

	now := s.clock.Now()
	order := &Order{
		ID:         s.ids.New(),
		CustomerID: input.CustomerID,
		Total:      input.Total,
		Status:     StatusOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	s.publish(events.Emit(s.events, OrderCreated, Created{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total,
		CreatedAt:  order.CreatedAt,
	}))

	return order, nil
}

func (s *service) Cancel(ctx context.Context, id, reason string) (*Order, error) {
	if id == "" {
		return nil, errors.InvalidArgument("order ID is required")
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get order")
	}
	if order.IsCancelled() {
		return nil, errors.FailedPreconditionf("order %s is already cancelled", id).
			WithMeta("order_id", id)
	}

	order.Status = StatusCancelled
	order.CancelReason = reason
	order.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to cancel order")
	}

	s.publish(events.Emit(s.events, OrderCancelled, Cancelled{
		OrderID: order.ID,
		Reason:  reason,
	}))

	return order, nil
}

func (s *service) Get(ctx context.Context, id string) (*Order, error) {
	if id == "" {
		return nil, errors.InvalidArgument("order ID is required")
	}
	return s.repo.Get(ctx, id)
}

func (s *service) ListByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	if customerID == "" {
		return nil, errors.InvalidArgument("customer ID is required")
	}
	return s.repo.ListByCustomer(ctx, customerID)
}

// the order is already stored, so a failing listener is logged and not returned
func (s *service) publish(delivered bool, err error) {
	if err != nil {
		s.log.Error().Err(err).Msg("order listener failed")
		return
	}
	if !delivered {
		s.log.Debug().Msg("order event had no listeners")
	}
}
