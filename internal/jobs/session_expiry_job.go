package jobs

import (
	"context"
	"log/slog"

	"halforder/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type sessionSweeper interface {
	Handle(ctx context.Context, cmd commands.ExpireSessionsCommand) (commands.ExpireSessionsResult, error)
}

// SessionExpiryJob sweeps OPEN sessions past their deadline and cancels their
// half-orders.
type SessionExpiryJob struct {
	handler   sessionSweeper
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewSessionExpiryJob(handler sessionSweeper, schedule string, batchSize int, logger *slog.Logger) *SessionExpiryJob {
	return &SessionExpiryJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "session_expiry_job"),
	}
}

// Run performs a single sweep.
func (j *SessionExpiryJob) Run(ctx context.Context) {
	cmd, err := commands.NewExpireSessionsCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Session expiry job misconfigured", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Session expiry job failed", "error", err)
		return
	}

	if result.Scanned > 0 {
		j.logger.InfoContext(ctx, "Session sweep finished",
			"scanned", result.Scanned,
			"expired", result.Expired,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
	}
}

func (j *SessionExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Session expiry job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (j *SessionExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Session expiry job stopped")
}
