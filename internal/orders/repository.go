package orders

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/KirkDiggler/typed-emitter/internal/orders Repository,TimeProvider

// Repository defines the interface for order storage operations
type Repository interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, order *Order) error
	ListByCustomer(ctx context.Context, customerID string) ([]*Order, error)
}

// TimeProvider supplies the current time
type TimeProvider interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a TimeProvider backed by the wall clock
func SystemClock() TimeProvider {
	return systemClock{}
}
