package queries_test

import (
	"context"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"

	"github.com/stretchr/testify/mock"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderReader) ListByRestaurant(ctx context.Context, restaurantID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, restaurantID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderReader) ListByCustomer(ctx context.Context, restaurantID kernel.UUID, mobile string) ([]*order.Order, error) {
	args := m.Called(ctx, restaurantID, mobile)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockSessionReader struct{ mock.Mock }

func (m *MockSessionReader) ListOpenByRestaurant(ctx context.Context, restaurantID kernel.UUID, now time.Time) ([]*session.Session, error) {
	args := m.Called(ctx, restaurantID, now)
	sessions, _ := args.Get(0).([]*session.Session)
	return sessions, args.Error(1)
}
