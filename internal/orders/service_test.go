package orders_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/typed-emitter/internal/emitter"
	"github.com/KirkDiggler/typed-emitter/internal/errors"
	"github.com/KirkDiggler/typed-emitter/internal/events"
	"github.com/KirkDiggler/typed-emitter/internal/logging"
	"github.com/KirkDiggler/typed-emitter/internal/orders"
	"github.com/KirkDiggler/typed-emitter/internal/orders/mocks"
	"github.com/KirkDiggler/typed-emitter/internal/uuid"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	repo    *mocks.MockRepository
	clock   *mocks.MockTimeProvider
	bus     *emitter.Emitter
	log     *logging.TestLogger
	service orders.Service
	now     time.Time
	ctx     context.Context
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = mocks.NewMockRepository(s.ctrl)
	s.clock = mocks.NewMockTimeProvider(s.ctrl)
	s.bus = emitter.New(emitter.Config{Wildcard: true})
	s.log = logging.NewTestLogger(s.T())
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = context.Background()

	svc, err := orders.NewService(&orders.ServiceConfig{
		Repository: s.repo,
		Events:     events.NewStrictEmitter(s.bus, orders.EventMap),
		IDs:        uuid.NewSequenceGenerator("order"),
		Clock:      s.clock,
		Logger:     &s.log.Logger,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// capture records every typed payload of ev
func capture[P any](s *ServiceTestSuite, ev events.Event[orders.Events, P]) *[]P {
	var got []P
	_, err := events.OnEvent(orders.On, ev).
		Func(func(_ context.Context, payload P) error {
			got = append(got, payload)
			return nil
		}).
		Register(s.bus)
	s.Require().NoError(err)
	return &got
}

func (s *ServiceTestSuite) TestCreate_PersistsAndEmits() {
	created := capture(s, orders.OrderCreated)

	s.clock.EXPECT().Now().Return(s.now)
	s.repo.EXPECT().Create(s.ctx, &orders.Order{
		ID:         "order-1",
		CustomerID: "c-1",
		Total:      999,
		Status:     orders.StatusOpen,
		CreatedAt:  s.now,
		UpdatedAt:  s.now,
	}).Return(nil)

	order, err := s.service.Create(s.ctx, &orders.CreateInput{CustomerID: "c-1", Total: 999})

	s.Require().NoError(err)
	s.Equal("order-1", order.ID)
	s.Equal([]orders.Created{{OrderID: "order-1", CustomerID: "c-1", Total: 999, CreatedAt: s.now}}, *created)
}

func (s *ServiceTestSuite) TestCreate_InvalidInput() {
	created := capture(s, orders.OrderCreated)

	tests := []struct {
		name  string
		input *orders.CreateInput
	}{
		{name: "nil input", input: nil},
		{name: "missing customer", input: &orders.CreateInput{Total: 1}},
		{name: "zero total", input: &orders.CreateInput{CustomerID: "c-1"}},
		{name: "negative total", input: &orders.CreateInput{CustomerID: "c-1", Total: -5}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Create(s.ctx, tt.input)
			s.True(errors.IsInvalidArgument(err))
		})
	}
	s.Empty(*created)
}

func (s *ServiceTestSuite) TestCreate_RepositoryErrorDoesNotEmit() {
	created := capture(s, orders.OrderCreated)

	s.clock.EXPECT().Now().Return(s.now)
	s.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(stderrors.New("redis down"))

	_, err := s.service.Create(s.ctx, &orders.CreateInput{CustomerID: "c-1", Total: 1})

	s.Error(err)
	s.Contains(err.Error(), "failed to create order")
	s.Empty(*created)
}

func (s *ServiceTestSuite) TestCreate_ListenerErrorIsLogged() {
	_, err := events.OnEvent(orders.On, orders.OrderCreated).
		Func(func(context.Context, orders.Created) error { return stderrors.New("projection failed") }).
		Register(s.bus)
	s.Require().NoError(err)

	s.clock.EXPECT().Now().Return(s.now)
	s.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	order, err := s.service.Create(s.ctx, &orders.CreateInput{CustomerID: "c-1", Total: 1})

	s.NoError(err)
	s.NotNil(order)
	s.True(s.log.Contains("projection failed"))
	s.True(s.log.Contains("order listener failed"))
}

func (s *ServiceTestSuite) TestCancel() {
	cancelled := capture(s, orders.OrderCancelled)
	later := s.now.Add(time.Hour)

	s.repo.EXPECT().Get(s.ctx, "order-1").Return(&orders.Order{
		ID: "order-1", CustomerID: "c-1", Total: 5, Status: orders.StatusOpen, CreatedAt: s.now, UpdatedAt: s.now,
	}, nil)
	s.clock.EXPECT().Now().Return(later)
	s.repo.EXPECT().Update(s.ctx, &orders.Order{
		ID: "order-1", CustomerID: "c-1", Total: 5, Status: orders.StatusCancelled,
		CancelReason: "duplicate", CreatedAt: s.now, UpdatedAt: later,
	}).Return(nil)

	order, err := s.service.Cancel(s.ctx, "order-1", "duplicate")

	s.Require().NoError(err)
	s.True(order.IsCancelled())
	s.Equal([]orders.Cancelled{{OrderID: "order-1", Reason: "duplicate"}}, *cancelled)
}

func (s *ServiceTestSuite) TestCancel_AlreadyCancelled() {
	cancelled := capture(s, orders.OrderCancelled)
	s.repo.EXPECT().Get(s.ctx, "order-1").Return(&orders.Order{ID: "order-1", Status: orders.StatusCancelled}, nil)

	_, err := s.service.Cancel(s.ctx, "order-1", "again")

	s.True(errors.Is(err, errors.CodeFailedPrecondition))
	s.Empty(*cancelled)
}

func (s *ServiceTestSuite) TestCancel_NotFound() {
	s.repo.EXPECT().Get(s.ctx, "missing").Return(nil, errors.NotFoundf("order missing not found"))

	_, err := s.service.Cancel(s.ctx, "missing", "")

	s.True(errors.IsNotFound(err))
}

func (s *ServiceTestSuite) TestGetAndList_RequireIDs() {
	_, err := s.service.Get(s.ctx, "")
	s.True(errors.IsInvalidArgument(err))

	_, err = s.service.ListByCustomer(s.ctx, "")
	s.True(errors.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestListByCustomer() {
	want := []*orders.Order{{ID: "order-1", CustomerID: "c-1"}}
	s.repo.EXPECT().ListByCustomer(s.ctx, "c-1").Return(want, nil)

	got, err := s.service.ListByCustomer(s.ctx, "c-1")

	s.NoError(err)
	s.Equal(want, got)
}

func TestNewService_RequiresDependencies(t *testing.T) {
	bus := emitter.New(emitter.Config{})
	strict := events.NewStrictEmitter(bus, orders.EventMap)

	_, err := orders.NewService(nil)
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	_, err = orders.NewService(&orders.ServiceConfig{Events: strict})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	_, err = orders.NewService(&orders.ServiceConfig{Repository: orders.NewInMemoryRepository()})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
