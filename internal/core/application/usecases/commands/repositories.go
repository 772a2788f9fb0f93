package commands

import (
	"context"

	"halforder/internal/core/ports"
)

type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	SessionRepoFactory interface {
		SessionRepository() ports.SessionRepository
	}

	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// OrderUoW covers every command that changes orders or sessions.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		SessionRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)

// FuncOrderUoWFactory adapts a plain constructor to OrderUoWFactory.
type FuncOrderUoWFactory func() OrderUoW

func (f FuncOrderUoWFactory) Create() OrderUoW { return f() }

// FuncOutboxUoWFactory adapts a plain constructor to OutboxUoWFactory.
type FuncOutboxUoWFactory func() OutboxUoW

func (f FuncOutboxUoWFactory) Create() OutboxUoW { return f() }
