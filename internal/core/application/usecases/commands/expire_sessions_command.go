package commands

import (
	"errors"

	"halforder/internal/pkg/errs"
	"halforder/internal/pkg/guard"
)

var ErrExpireSessionsCommandIsNotConstructed = errors.New(
	"ExpireSessionsCommand must be created via NewExpireSessionsCommand constructor",
)

// ExpireSessionsCommand is one sweeper pass over at most BatchSize overdue sessions.
type ExpireSessionsCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpireSessionsCommand(batchSize int) (ExpireSessionsCommand, error) {
	if batchSize <= 0 {
		return ExpireSessionsCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	return ExpireSessionsCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c ExpireSessionsCommand) Validate() error {
	return c.guard.Validate(ErrExpireSessionsCommandIsNotConstructed)
}

func (c ExpireSessionsCommand) BatchSize() int {
	return c.batchSize
}

// ExpireSessionsResult counts what one pass did. Skipped sessions were no longer
// OPEN when reloaded, usually because a join won.
type ExpireSessionsResult struct {
	Scanned int
	Expired int
	Skipped int
	Failed  int
}
