package commands_test

import (
	"errors"
	"testing"
	"time"

	"halforder/internal/core/application/usecases/commands"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"
	"halforder/internal/core/ports"
	"halforder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExpireSessionsCommandHandler_Handle(t *testing.T) {
	now := start.Add(31 * time.Minute)

	expiringOrder, expiring := openHalfOrder(t, tableT1, 30*time.Minute)
	_, raced := openHalfOrder(t, tableT5, 30*time.Minute)
	_, broken := openHalfOrder(t, tableT1, 30*time.Minute)
	_, alreadyMatched := openHalfOrder(t, tableT5, 30*time.Minute)
	matchedNow := restoredSession(t, alreadyMatched, session.Matched)

	listRepo := new(MockSessionRepository)
	listRepo.On("ListExpired", mock.Anything, now, (*ports.ExpiryCursor)(nil), 10).
		Return([]*session.Session{expiring, raced, broken, alreadyMatched}, nil).Once()
	listUoW := new(MockOrderUoW)
	listUoW.On("SessionRepository").Return(listRepo).Once()

	newUoW := func(sessions *MockSessionRepository, orders *MockOrderRepository) *MockOrderUoW {
		uow := new(MockOrderUoW)
		uow.On("Begin", mock.Anything).Return(nil).Once()
		uow.On("SessionRepository").Return(sessions)
		uow.On("OrderRepository").Return(orders)
		uow.On("Commit", mock.Anything).Return(nil).Maybe()
		uow.On("Rollback", mock.Anything).Return(nil).Once()
		return uow
	}

	expiringSessions := new(MockSessionRepository)
	expiringSessions.On("Get", mock.Anything, expiring.ID()).Return(expiring, nil).Once()
	expiringSessions.On("Update", mock.Anything, expiring).Return(nil).Once()
	expiringOrders := new(MockOrderRepository)
	expiringOrders.On("Get", mock.Anything, expiringOrder.ID()).Return(expiringOrder, nil).Once()
	expiringOrders.On("Update", mock.Anything, expiringOrder).Return(nil).Once()
	expiringUoW := newUoW(expiringSessions, expiringOrders)

	racedSessions := new(MockSessionRepository)
	racedSessions.On("Get", mock.Anything, raced.ID()).Return(raced, nil).Once()
	racedSessions.On("Update", mock.Anything, raced).Return(errs.NewVersionIsInvalidError("session")).Once()
	racedUoW := newUoW(racedSessions, new(MockOrderRepository))

	brokenSessions := new(MockSessionRepository)
	brokenSessions.On("Get", mock.Anything, broken.ID()).Return(nil, errors.New("connection reset")).Once()
	brokenUoW := newUoW(brokenSessions, new(MockOrderRepository))

	matchedSessions := new(MockSessionRepository)
	matchedSessions.On("Get", mock.Anything, alreadyMatched.ID()).Return(matchedNow, nil).Once()
	matchedUoW := newUoW(matchedSessions, new(MockOrderRepository))

	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(listUoW).Once(),
		factory.On("Create").Return(expiringUoW).Once(),
		factory.On("Create").Return(racedUoW).Once(),
		factory.On("Create").Return(brokenUoW).Once(),
		factory.On("Create").Return(matchedUoW).Once(),
	)

	cmd, err := commands.NewExpireSessionsCommand(10)
	require.NoError(t, err)

	h := commands.NewExpireSessionsCommandHandler(factory, fixedNow(now), discardLogger())
	result, err := h.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, commands.ExpireSessionsResult{Scanned: 4, Expired: 1, Skipped: 2, Failed: 1}, result)
	assert.Equal(t, session.Expired, expiring.Status())
	assert.Equal(t, order.Expired, expiringOrder.Status())
	expiringUoW.AssertCalled(t, "Commit", mock.Anything)
	racedUoW.AssertNotCalled(t, "Commit", mock.Anything)
	matchedUoW.AssertNotCalled(t, "Commit", mock.Anything)
	matchedSessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	factory.AssertExpectations(t)
}

func TestExpireSessionsCommandHandler_Handle_ListError(t *testing.T) {
	listErr := errors.New("db down")
	repo := new(MockSessionRepository)
	repo.On("ListExpired", mock.Anything, start, (*ports.ExpiryCursor)(nil), 5).Return(nil, listErr).Once()
	uow := new(MockOrderUoW)
	uow.On("SessionRepository").Return(repo).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewExpireSessionsCommand(5)
	require.NoError(t, err)

	h := commands.NewExpireSessionsCommandHandler(factory, fixedNow(start), discardLogger())
	_, err = h.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, listErr)
}

func TestNewExpireSessionsCommand(t *testing.T) {
	_, err := commands.NewExpireSessionsCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	h := commands.NewExpireSessionsCommandHandler(new(MockOrderUoWFactory), fixedNow(start), discardLogger())
	_, err = h.Handle(t.Context(), commands.ExpireSessionsCommand{})
	require.ErrorIs(t, err, commands.ErrExpireSessionsCommandIsNotConstructed)
}

func TestExpireSessionsCommandHandler_Handle_PagesPastFailingSession(t *testing.T) {
	now := start.Add(31 * time.Minute)

	_, stuck := openHalfOrder(t, tableT1, 30*time.Minute)
	validOrder, valid := openHalfOrder(t, tableT5, 30*time.Minute)

	listRepo := new(MockSessionRepository)
	listRepo.On("ListExpired", mock.Anything, now, (*ports.ExpiryCursor)(nil), 1).
		Return([]*session.Session{stuck}, nil).Once()
	listRepo.On("ListExpired", mock.Anything, now, ports.ExpiryCursorOf(stuck), 1).
		Return([]*session.Session{valid}, nil).Once()
	listUoW := new(MockOrderUoW)
	listUoW.On("SessionRepository").Return(listRepo).Once()

	stuckSessions := new(MockSessionRepository)
	stuckSessions.On("Get", mock.Anything, stuck.ID()).Return(stuck, nil).Once()
	stuckSessions.On("Update", mock.Anything, stuck).Return(nil).Once()
	stuckOrders := new(MockOrderRepository)
	stuckOrders.On("Get", mock.Anything, stuck.OrderID()).
		Return(nil, errs.NewObjectNotFoundError("order", stuck.OrderID().String())).Once()
	stuckUoW := new(MockOrderUoW)
	stuckUoW.On("Begin", mock.Anything).Return(nil).Once()
	stuckUoW.On("SessionRepository").Return(stuckSessions)
	stuckUoW.On("OrderRepository").Return(stuckOrders)
	stuckUoW.On("Rollback", mock.Anything).Return(nil).Once()

	validSessions := new(MockSessionRepository)
	validSessions.On("Get", mock.Anything, valid.ID()).Return(valid, nil).Once()
	validSessions.On("Update", mock.Anything, valid).Return(nil).Once()
	validOrders := new(MockOrderRepository)
	validOrders.On("Get", mock.Anything, validOrder.ID()).Return(validOrder, nil).Once()
	validOrders.On("Update", mock.Anything, validOrder).Return(nil).Once()
	validUoW := new(MockOrderUoW)
	validUoW.On("Begin", mock.Anything).Return(nil).Once()
	validUoW.On("SessionRepository").Return(validSessions)
	validUoW.On("OrderRepository").Return(validOrders)
	validUoW.On("Commit", mock.Anything).Return(nil).Once()
	validUoW.On("Rollback", mock.Anything).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(listUoW).Once(),
		factory.On("Create").Return(stuckUoW).Once(),
		factory.On("Create").Return(validUoW).Once(),
	)

	cmd, err := commands.NewExpireSessionsCommand(1)
	require.NoError(t, err)

	h := commands.NewExpireSessionsCommandHandler(factory, fixedNow(now), discardLogger())
	result, err := h.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, commands.ExpireSessionsResult{Scanned: 2, Expired: 1, Failed: 1}, result)
	assert.Equal(t, order.Expired, validOrder.Status())
	stuckUoW.AssertNotCalled(t, "Commit", mock.Anything)
	listRepo.AssertExpectations(t)
	factory.AssertExpectations(t)
}
