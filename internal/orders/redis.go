package orders

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/typed-emitter/internal/errors"
)

type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis creates a Redis-backed order repository
func NewRedis(client redis.UniversalClient) Repository {
	return &redisRepo{client: client}
}

func orderKey(id string) string {
	return fmt.Sprintf("order:%s", id)
}

func customerKey(customerID string) string {
	return fmt.Sprintf("customer:%s:orders", customerID)
}

func (r *redisRepo) Create(ctx context.Context, order *Order) error {
	if err := validateOrder(order); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, orderKey(order.ID)).Result()
	if err != nil {
		return errors.Wrapf(err, "failed to check order %s", order.ID)
	}
	if exists > 0 {
		return errors.AlreadyExistsf("order %s already exists", order.ID)
	}

	return r.save(ctx, order, "")
}

func (r *redisRepo) Get(ctx context.Context, id string) (*Order, error) {
	data, err := r.client.Get(ctx, orderKey(id)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NotFoundf("order %s not found", id).WithMeta("order_id", id)
		}
		return nil, errors.Wrapf(err, "failed to get order %s from Redis", id)
	}

	var order Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal order %s", id)
	}

	return &order, nil
}

func (r *redisRepo) Update(ctx context.Context, order *Order) error {
	if err := validateOrder(order); err != nil {
		return err
	}

	existing, err := r.Get(ctx, order.ID)
	if err != nil {
		return err
	}

	return r.save(ctx, order, existing.CustomerID)
}

func (r *redisRepo) ListByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	ids, err := r.client.SMembers(ctx, customerKey(customerID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get orders of customer %s", customerID)
	}

	orders := make([]*Order, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			order, err := r.Get(gctx, id)
			if err != nil {
				return err
			}
			orders[i] = order
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortOrders(orders)
	return orders, nil
}

// save writes the order and its customer index entry. previousCustomer, when
// set and different, loses the index entry.
func (r *redisRepo) save(ctx context.Context, order *Order, previousCustomer string) error {
	data, err := json.Marshal(order)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal order %s", order.ID)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, orderKey(order.ID), string(data), 0)
	if previousCustomer != "" && previousCustomer != order.CustomerID {
		pipe.SRem(ctx, customerKey(previousCustomer), order.ID)
	}
	pipe.SAdd(ctx, customerKey(order.CustomerID), order.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to save order %s in Redis", order.ID)
	}

	return nil
}

func validateOrder(order *Order) error {
	if order == nil {
		return errors.InvalidArgument("order cannot be nil")
	}
	if order.ID == "" {
		return errors.InvalidArgument("order ID is required")
	}
	if order.CustomerID == "" {
		return errors.InvalidArgument("customer ID is required")
	}
	return nil
}

// oldest first, ID breaks ties
func sortOrders(orders []*Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
}
