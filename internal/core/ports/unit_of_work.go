package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per business transaction.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork groups order, session and outbox writes into one transaction.
// Events raised by aggregates saved through its repositories are written to the
// outbox on Commit. Rollback after Commit is harmless.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository

	SessionRepository() SessionRepository

	OutboxRepository() OutboxRepository
}
