package orders

import (
	"context"
	"sync"

	"github.com/KirkDiggler/typed-emitter/internal/errors"
)

type inMemoryRepo struct {
	mu         sync.RWMutex
	orders     map[string]*Order
	byCustomer map[string]map[string]struct{}
}

// NewInMemoryRepository creates an order repository that lives in process memory
func NewInMemoryRepository() Repository {
	return &inMemoryRepo{
		orders:     make(map[string]*Order),
		byCustomer: make(map[string]map[string]struct{}),
	}
}

func (r *inMemoryRepo) Create(_ context.Context, order *Order) error {
	if err := validateOrder(order); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; ok {
		return errors.AlreadyExistsf("order %s already exists", order.ID)
	}
	r.store(order)
	return nil
}

func (r *inMemoryRepo) Get(_ context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFoundf("order %s not found", id).WithMeta("order_id", id)
	}
	copied := *order
	return &copied, nil
}

func (r *inMemoryRepo) Update(_ context.Context, order *Order) error {
	if err := validateOrder(order); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.orders[order.ID]
	if !ok {
		return errors.NotFoundf("order %s not found", order.ID).WithMeta("order_id", order.ID)
	}
	if existing.CustomerID != order.CustomerID {
		ids := r.byCustomer[existing.CustomerID]
		delete(ids, order.ID)
		if len(ids) == 0 {
			delete(r.byCustomer, existing.CustomerID)
		}
	}
	r.store(order)
	return nil
}

func (r *inMemoryRepo) ListByCustomer(_ context.Context, customerID string) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*Order, 0, len(r.byCustomer[customerID]))
	for id := range r.byCustomer[customerID] {
		copied := *r.orders[id]
		orders = append(orders, &copied)
	}

	sortOrders(orders)
	return orders, nil
}

func (r *inMemoryRepo) store(order *Order) {
	copied := *order
	r.orders[order.ID] = &copied

	ids, ok := r.byCustomer[order.CustomerID]
	if !ok {
		ids = make(map[string]struct{})
		r.byCustomer[order.CustomerID] = ids
	}
	ids[order.ID] = struct{}{}
}
