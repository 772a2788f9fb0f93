package commands_test

import (
	"errors"
	"testing"
	"time"

	"halforder/internal/core/application/usecases/commands"
	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"
	"halforder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newJoinCommand(t *testing.T, sessionID kernel.UUID, tableID kernel.UUID) commands.JoinHalfOrderCommand {
	t.Helper()
	cmd, err := commands.NewJoinHalfOrderCommand(sessionID, tableID, "Ravi", "9800000005")
	require.NoError(t, err)
	return cmd
}

func TestJoinHalfOrderCommandHandler_Handle_Success(t *testing.T) {
	owner, s := openHalfOrder(t, tableT1, 30*time.Minute)
	cmd := newJoinCommand(t, s.ID(), tableT5.ID)

	catalog := new(MockCatalog)
	catalog.On("GetTable", mock.Anything, restaurantID, tableT5.ID).Return(tableT5, nil).Once()
	catalog.On("GetMenuItem", mock.Anything, restaurantID, paneerTikka.ID).Return(paneerTikka, nil).Once()

	sessionRepo := new(MockSessionRepository)
	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("SessionRepository").Return(sessionRepo)
	uow.On("OrderRepository").Return(orderRepo)
	mock.InOrder(
		sessionRepo.On("Get", mock.Anything, s.ID()).Return(s, nil).Once(),
		orderRepo.On("Get", mock.Anything, owner.ID()).Return(owner, nil).Once(),
		sessionRepo.On("Update", mock.Anything, s).Return(nil).Once(),
		orderRepo.On("Update", mock.Anything, owner).Return(nil).Once(),
		orderRepo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", mock.Anything).Return(nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewJoinHalfOrderCommandHandler(factory, catalog, fixedNow(start.Add(5*time.Minute)), discardLogger())
	joiner, err := h.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, session.Matched, s.Status())
	assert.Equal(t, order.Matched, owner.Status())
	assert.Equal(t, order.Matched, joiner.Status())
	assert.Equal(t, "T5", owner.MatchedTableNumber())
	assert.Equal(t, "T1", joiner.MatchedTableNumber())
	assert.True(t, joiner.SessionID().IsEqual(s.ID()))
	assert.Equal(t, "₹150.00", joiner.Total().String())
	sessionRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestJoinHalfOrderCommandHandler_Handle_RejectedBeforeAnyWrite(t *testing.T) {
	_, open := openHalfOrder(t, tableT1, 30*time.Minute)
	matched := restoredSession(t, open, session.Matched)

	cases := map[string]struct {
		s       *session.Session
		table   kernel.UUID
		now     time.Time
		wantErr error
	}{
		"own table":         {s: open, table: tableT1.ID, now: start.Add(time.Minute), wantErr: session.ErrSelfJoin},
		"past the deadline": {s: open, table: tableT5.ID, now: start.Add(30 * time.Minute), wantErr: session.ErrExpired},
		"already matched":   {s: matched, table: tableT5.ID, now: start.Add(time.Minute), wantErr: session.ErrAlreadyMatched},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sessionRepo := new(MockSessionRepository)
			sessionRepo.On("Get", mock.Anything, tc.s.ID()).Return(tc.s, nil).Once()
			orderRepo := new(MockOrderRepository)
			uow := new(MockOrderUoW)
			uow.On("Begin", mock.Anything).Return(nil).Once()
			uow.On("SessionRepository").Return(sessionRepo)
			uow.On("OrderRepository").Return(orderRepo)
			uow.On("Rollback", mock.Anything).Return(nil).Once()
			factory := new(MockOrderUoWFactory)
			factory.On("Create").Return(uow).Once()
			catalog := new(MockCatalog)

			h := commands.NewJoinHalfOrderCommandHandler(factory, catalog, fixedNow(tc.now), discardLogger())
			joiner, err := h.Handle(t.Context(), newJoinCommand(t, tc.s.ID(), tc.table))

			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, joiner)
			sessionRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			orderRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
			catalog.AssertNotCalled(t, "GetTable", mock.Anything, mock.Anything, mock.Anything)
			uow.AssertNotCalled(t, "Commit", mock.Anything)
		})
	}
}

func TestJoinHalfOrderCommandHandler_Handle_SessionNotFound(t *testing.T) {
	id := kernel.NewUUID()
	sessionRepo := new(MockSessionRepository)
	sessionRepo.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("session", id)).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("SessionRepository").Return(sessionRepo)
	uow.On("OrderRepository").Return(new(MockOrderRepository))
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewJoinHalfOrderCommandHandler(factory, new(MockCatalog), fixedNow(start), discardLogger())
	_, err := h.Handle(t.Context(), newJoinCommand(t, id, tableT5.ID))

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestJoinHalfOrderCommandHandler_Handle_LostRaceReportsAlreadyMatched(t *testing.T) {
	owner, s := openHalfOrder(t, tableT1, 30*time.Minute)
	winner := restoredSession(t, s, session.Matched)

	catalog := new(MockCatalog)
	catalog.On("GetTable", mock.Anything, restaurantID, tableT5.ID).Return(tableT5, nil)
	catalog.On("GetMenuItem", mock.Anything, restaurantID, paneerTikka.ID).Return(paneerTikka, nil)

	sessionRepo := new(MockSessionRepository)
	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("SessionRepository").Return(sessionRepo)
	uow.On("OrderRepository").Return(orderRepo)
	mock.InOrder(
		sessionRepo.On("Get", mock.Anything, s.ID()).Return(s, nil).Once(),
		orderRepo.On("Get", mock.Anything, owner.ID()).Return(owner, nil).Once(),
		sessionRepo.On("Update", mock.Anything, s).Return(errs.NewVersionIsInvalidError("session")).Once(),
		sessionRepo.On("Get", mock.Anything, s.ID()).Return(winner, nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewJoinHalfOrderCommandHandler(factory, catalog, fixedNow(start.Add(time.Minute)), discardLogger())
	joiner, err := h.Handle(t.Context(), newJoinCommand(t, s.ID(), tableT5.ID))

	require.ErrorIs(t, err, session.ErrAlreadyMatched)
	assert.Nil(t, joiner)
	orderRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	sessionRepo.AssertExpectations(t)
}

func TestJoinHalfOrderCommandHandler_Handle_CommitConflictReportsExpired(t *testing.T) {
	owner, s := openHalfOrder(t, tableT1, 30*time.Minute)
	swept := restoredSession(t, s, session.Expired)

	catalog := new(MockCatalog)
	catalog.On("GetTable", mock.Anything, restaurantID, tableT5.ID).Return(tableT5, nil)
	catalog.On("GetMenuItem", mock.Anything, restaurantID, paneerTikka.ID).Return(paneerTikka, nil)

	sessionRepo := new(MockSessionRepository)
	sessionRepo.On("Get", mock.Anything, s.ID()).Return(s, nil).Once()
	sessionRepo.On("Update", mock.Anything, s).Return(nil).Once()
	sessionRepo.On("Get", mock.Anything, s.ID()).Return(swept, nil).Once()
	orderRepo := new(MockOrderRepository)
	orderRepo.On("Get", mock.Anything, owner.ID()).Return(owner, nil).Once()
	orderRepo.On("Update", mock.Anything, owner).Return(nil).Once()
	orderRepo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("SessionRepository").Return(sessionRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Commit", mock.Anything).Return(errs.NewVersionIsInvalidError("session")).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewJoinHalfOrderCommandHandler(factory, catalog, fixedNow(start.Add(29*time.Minute)), discardLogger())
	_, err := h.Handle(t.Context(), newJoinCommand(t, s.ID(), tableT5.ID))

	require.ErrorIs(t, err, session.ErrExpired)
}

func TestJoinHalfOrderCommandHandler_Handle_StorageErrorPassesThrough(t *testing.T) {
	owner, s := openHalfOrder(t, tableT1, 30*time.Minute)
	storageErr := errors.New("connection reset")

	catalog := new(MockCatalog)
	catalog.On("GetTable", mock.Anything, restaurantID, tableT5.ID).Return(tableT5, nil)
	catalog.On("GetMenuItem", mock.Anything, restaurantID, paneerTikka.ID).Return(paneerTikka, nil)

	sessionRepo := new(MockSessionRepository)
	sessionRepo.On("Get", mock.Anything, s.ID()).Return(s, nil).Once()
	sessionRepo.On("Update", mock.Anything, s).Return(storageErr).Once()
	orderRepo := new(MockOrderRepository)
	orderRepo.On("Get", mock.Anything, owner.ID()).Return(owner, nil).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("SessionRepository").Return(sessionRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewJoinHalfOrderCommandHandler(factory, catalog, fixedNow(start.Add(time.Minute)), discardLogger())
	_, err := h.Handle(t.Context(), newJoinCommand(t, s.ID(), tableT5.ID))

	require.ErrorIs(t, err, storageErr)
	sessionRepo.AssertNumberOfCalls(t, "Get", 1)
}

func TestNewJoinHalfOrderCommand(t *testing.T) {
	_, err := commands.NewJoinHalfOrderCommand(kernel.UUID{}, kernel.UUID{}, "", "")

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCustomerNameIsRequired)
	require.ErrorIs(t, err, commands.ErrCustomerMobileIsRequired)
	assert.Contains(t, err.Error(), "session id")

	h := commands.NewJoinHalfOrderCommandHandler(new(MockOrderUoWFactory), new(MockCatalog), fixedNow(start), discardLogger())
	_, err = h.Handle(t.Context(), commands.JoinHalfOrderCommand{})
	require.ErrorIs(t, err, commands.ErrJoinHalfOrderCommandIsNotConstructed)
}
