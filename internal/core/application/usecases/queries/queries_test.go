package queries_test

import (
	"testing"
	"time"

	"halforder/internal/core/application/usecases/queries"
	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"
	"halforder/internal/core/domain/services"
	"halforder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	restaurantID = kernel.NewUUID()
	dinnerTime   = time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
)

func newOrder(t *testing.T, tableNumber string, portion order.Portion, at time.Time) *order.Order {
	t.Helper()
	price := kernel.Rupees(250)
	if portion == order.Half {
		price = kernel.Rupees(150)
	}
	line, err := order.NewLineItem(kernel.NewUUID(), "Paneer Tikka", portion, price)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), restaurantID,
		order.Table{ID: kernel.NewUUID(), Number: tableNumber},
		order.Customer{Name: "Guest " + tableNumber, Mobile: "98" + tableNumber},
		[]order.LineItem{line}, at)
	require.NoError(t, err)
	return o
}

func newSession(t *testing.T, tableNumber string, at time.Time, ttl time.Duration) *session.Session {
	t.Helper()
	s, err := services.NewHalfOrderMatcher().Open(newOrder(t, tableNumber, order.Half, at), ttl, at)
	require.NoError(t, err)
	return s
}

func TestGetOrderQueryHandler_Handle(t *testing.T) {
	o := newOrder(t, "T2", order.Full, dinnerTime)
	reader := new(MockOrderReader)
	reader.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	query, err := queries.NewGetOrderQuery(o.ID())
	require.NoError(t, err)

	got, err := queries.NewGetOrderQueryHandler(reader).Handle(t.Context(), query)

	require.NoError(t, err)
	assert.Equal(t, o.ID(), got.ID)
	assert.Equal(t, "OPEN", got.Status)
	assert.Equal(t, "T2", got.TableNumber)
	assert.False(t, got.IsHalfOrder)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "full", got.Items[0].Portion)
	assert.Equal(t, "₹250.00", got.Total.String())
}

func TestGetOrderQueryHandler_Handle_NotFound(t *testing.T) {
	id := kernel.NewUUID()
	reader := new(MockOrderReader)
	reader.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()

	query, err := queries.NewGetOrderQuery(id)
	require.NoError(t, err)

	_, err = queries.NewGetOrderQueryHandler(reader).Handle(t.Context(), query)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestListOrdersQueryHandler_Handle_NewestFirst(t *testing.T) {
	older := newOrder(t, "T1", order.Full, dinnerTime)
	newer := newOrder(t, "T3", order.Half, dinnerTime.Add(time.Minute))
	reader := new(MockOrderReader)
	reader.On("ListByRestaurant", mock.Anything, restaurantID).Return([]*order.Order{older, newer}, nil).Once()

	query, err := queries.NewListOrdersQuery(restaurantID, "")
	require.NoError(t, err)

	got, err := queries.NewListOrdersQueryHandler(reader).Handle(t.Context(), query)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID(), got[0].ID)
	assert.Equal(t, older.ID(), got[1].ID)
	reader.AssertNotCalled(t, "ListByCustomer", mock.Anything, mock.Anything, mock.Anything)
}

func TestListOrdersQueryHandler_Handle_ByCustomer(t *testing.T) {
	mine := newOrder(t, "T4", order.Full, dinnerTime)
	reader := new(MockOrderReader)
	reader.On("ListByCustomer", mock.Anything, restaurantID, "98T4").Return([]*order.Order{mine}, nil).Once()

	query, err := queries.NewListOrdersQuery(restaurantID, " 98T4 ")
	require.NoError(t, err)

	got, err := queries.NewListOrdersQueryHandler(reader).Handle(t.Context(), query)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "98T4", got[0].CustomerMobile)
}

func TestListOpenSessionsQueryHandler_Handle_HidesOverdueSessions(t *testing.T) {
	now := dinnerTime.Add(20 * time.Minute)
	overdue := newSession(t, "T1", dinnerTime, 15*time.Minute)
	older := newSession(t, "T5", dinnerTime.Add(10*time.Minute), 30*time.Minute)
	newer := newSession(t, "T7", dinnerTime.Add(12*time.Minute), 30*time.Minute)

	reader := new(MockSessionReader)
	reader.On("ListOpenByRestaurant", mock.Anything, restaurantID, now).
		Return([]*session.Session{overdue, older, newer}, nil).Once()

	query, err := queries.NewListOpenSessionsQuery(restaurantID)
	require.NoError(t, err)

	h := queries.NewListOpenSessionsQueryHandler(reader, func() time.Time { return now })
	got, err := h.Handle(t.Context(), query)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "T7", got[0].TableNumber)
	assert.Equal(t, "T5", got[1].TableNumber)
	assert.Equal(t, "Paneer Tikka", got[0].MenuItemName)
	assert.Equal(t, "OPEN", got[0].Status)
}

func TestQueryConstructors(t *testing.T) {
	_, err := queries.NewGetOrderQuery(kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewListOrdersQuery(kernel.UUID{}, "1")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewListOpenSessionsQuery(kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetOrderQueryHandler(new(MockOrderReader)).Handle(t.Context(), queries.GetOrderQuery{})
	require.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)

	_, err = queries.NewListOrdersQueryHandler(new(MockOrderReader)).Handle(t.Context(), queries.ListOrdersQuery{})
	require.ErrorIs(t, err, queries.ErrListOrdersQueryIsNotConstructed)

	_, err = queries.NewListOpenSessionsQueryHandler(new(MockSessionReader), time.Now).
		Handle(t.Context(), queries.ListOpenSessionsQuery{})
	require.ErrorIs(t, err, queries.ErrListOpenSessionsQueryIsNotConstructed)
}
