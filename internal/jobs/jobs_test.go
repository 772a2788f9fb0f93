package jobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"halforder/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) Handle(ctx context.Context, cmd commands.ExpireSessionsCommand) (commands.ExpireSessionsResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ExpireSessionsResult), args.Error(1)
}

type mockRelayer struct {
	mock.Mock
}

func (m *mockRelayer) Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (commands.RelayOutboxResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.RelayOutboxResult), args.Error(1)
}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestSessionExpiryJob_Run(t *testing.T) {
	logger, buf := newTestLogger()
	sweeper := &mockSweeper{}
	sweeper.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ExpireSessionsCommand) bool {
		return cmd.BatchSize() == 25
	})).Return(commands.ExpireSessionsResult{Scanned: 3, Expired: 2, Skipped: 1}, nil).Once()

	job := NewSessionExpiryJob(sweeper, "@every 5s", 25, logger)
	job.Run(context.Background())

	sweeper.AssertExpectations(t)
	assert.Contains(t, buf.String(), "Session sweep finished")
	assert.Contains(t, buf.String(), "expired=2")
}

func TestSessionExpiryJob_RunLogsFailure(t *testing.T) {
	logger, buf := newTestLogger()
	sweeper := &mockSweeper{}
	sweeper.On("Handle", mock.Anything, mock.Anything).
		Return(commands.ExpireSessionsResult{}, errors.New("db down")).Once()

	NewSessionExpiryJob(sweeper, "@every 5s", 100, logger).Run(context.Background())

	assert.Contains(t, buf.String(), "Session expiry job failed")
	assert.Contains(t, buf.String(), "db down")
}

func TestSessionExpiryJob_InvalidBatchSizeSkipsHandler(t *testing.T) {
	logger, buf := newTestLogger()
	sweeper := &mockSweeper{}

	NewSessionExpiryJob(sweeper, "@every 5s", 0, logger).Run(context.Background())

	sweeper.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	assert.Contains(t, buf.String(), "misconfigured")
}

func TestOutboxRelayJob_Run(t *testing.T) {
	logger, buf := newTestLogger()
	relayer := &mockRelayer{}
	relayer.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RelayOutboxCommand) bool {
		return cmd.BatchSize() == 50
	})).Return(commands.RelayOutboxResult{Published: 4, Failed: 1}, nil).Once()

	NewOutboxRelayJob(relayer, "@every 2s", 50, logger).Run(context.Background())

	relayer.AssertExpectations(t)
	assert.Contains(t, buf.String(), "published=4")
}

func TestJob_StartRejectsBadSchedule(t *testing.T) {
	logger, _ := newTestLogger()

	err := NewSessionExpiryJob(&mockSweeper{}, "not a schedule", 10, logger).Start()
	assert.Error(t, err)

	err = NewOutboxRelayJob(&mockRelayer{}, "* * *", 10, logger).Start()
	assert.Error(t, err)
}

func TestJobManager_StartAllFailsAndStopsStartedJobs(t *testing.T) {
	logger, buf := newTestLogger()
	jm := NewJobManager(&mockSweeper{}, &mockRelayer{}, Schedules{
		Sweep:           "@every 1h",
		SweepBatchSize:  10,
		Outbox:          "bogus",
		OutboxBatchSize: 10,
	}, logger)

	err := jm.StartAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outbox relay job")
	assert.Contains(t, buf.String(), "Session expiry job stopped")
}

func TestJobManager_RunsOnSchedule(t *testing.T) {
	logger, _ := newTestLogger()
	var sweeps, relays atomic.Int32
	sweeper := &mockSweeper{}
	sweeper.On("Handle", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { sweeps.Add(1) }).
		Return(commands.ExpireSessionsResult{}, nil)
	relayer := &mockRelayer{}
	relayer.On("Handle", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { relays.Add(1) }).
		Return(commands.RelayOutboxResult{}, nil)

	jm := NewJobManager(sweeper, relayer, Schedules{
		Sweep:           "* * * * * *",
		SweepBatchSize:  10,
		Outbox:          "* * * * * *",
		OutboxBatchSize: 10,
	}, logger)
	require.NoError(t, jm.StartAll())

	assert.Eventually(t, func() bool {
		return sweeps.Load() > 0 && relays.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)

	jm.StopAll()
}
