package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	httpadapter "halforder/internal/adapters/in/http"
	"halforder/internal/adapters/out/kafka"
	"halforder/internal/adapters/out/logpublisher"
	"halforder/internal/adapters/out/memory"
	"halforder/internal/adapters/out/postgres"
	"halforder/internal/adapters/out/postgres/catalogrepo"
	"halforder/internal/adapters/out/rabbitmq"
	"halforder/internal/adapters/out/seed"
	"halforder/internal/core/application/usecases/commands"
	"halforder/internal/core/application/usecases/queries"
	"halforder/internal/core/ports"
	"halforder/internal/jobs"

	"github.com/labstack/echo/v4"
)

const ServiceName = "halforder"

// NewLogger builds the JSON process logger every component derives from.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel})
	logger := slog.New(handler).With("service", ServiceName)
	if hostname, err := os.Hostname(); err == nil {
		logger = logger.With("hostname", hostname)
	}
	return logger
}

type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	now        func() time.Time
	uowFactory ports.UnitOfWorkFactory
	catalog    ports.Catalog
	publisher  ports.EventPublisher
	closers    []func() error
}

// NewCompositionRoot opens the configured storage backend, migrates and seeds it,
// and connects the event publisher.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger, now func() time.Time) (_ *CompositionRoot, err error) {
	c := &CompositionRoot{cfg: cfg, logger: logger, now: now}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	data := seed.Demo()
	if cfg.DBDriver == DriverMemory {
		c.uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore())
		c.catalog = memory.NewCatalog(data.Tables, data.MenuItems)
		logger.WarnContext(ctx, "Using in-memory storage; state is lost on restart")
	} else {
		if err = c.openDatabase(ctx, data); err != nil {
			return nil, err
		}
	}

	if err = c.connectPublisher(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CompositionRoot) openDatabase(ctx context.Context, data seed.Data) error {
	db, closeDB, err := postgres.Open(ctx, c.cfg.Database())
	if err != nil {
		return err
	}
	c.closers = append(c.closers, func() error { closeDB(); return nil })

	if err = postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err = catalogrepo.Seed(ctx, db, data); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
	c.catalog = catalogrepo.NewGormCatalog(db)
	return nil
}

func (c *CompositionRoot) connectPublisher(ctx context.Context) error {
	switch c.cfg.EventsBroker {
	case BrokerKafka:
		c.publisher = kafka.NewPublisher(c.cfg.KafkaBrokers(), c.cfg.KafkaOrderChangedTopic)
	case BrokerRabbitMQ:
		p, err := rabbitmq.Dial(ctx, c.cfg.RabbitMQURL, c.cfg.RabbitMQExchange, c.logger)
		if err != nil {
			return err
		}
		c.publisher = p
	default:
		c.publisher = logpublisher.New(c.logger)
	}
	c.closers = append(c.closers, c.publisher.Close)
	return nil
}

// Close releases the publisher and the database in reverse order of acquisition.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return commands.FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) outboxUoWFactory() commands.OutboxUoWFactory {
	return commands.FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.orderUoWFactory(), c.catalog, c.cfg.SessionTTL, c.now, c.logger)
}

func (c *CompositionRoot) CreateJoinHalfOrderCommandHandler() commands.JoinHalfOrderCommandHandler {
	return commands.NewJoinHalfOrderCommandHandler(c.orderUoWFactory(), c.catalog, c.now, c.logger)
}

func (c *CompositionRoot) CreateAdvanceOrderStatusCommandHandler() commands.AdvanceOrderStatusCommandHandler {
	return commands.NewAdvanceOrderStatusCommandHandler(c.orderUoWFactory(), c.now, c.logger)
}

func (c *CompositionRoot) CreateExpireSessionsCommandHandler() commands.ExpireSessionsCommandHandler {
	return commands.NewExpireSessionsCommandHandler(c.orderUoWFactory(), c.now, c.logger)
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	return commands.NewRelayOutboxCommandHandler(c.outboxUoWFactory(), c.publisher, c.now, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory.Create().OrderRepository())
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.uowFactory.Create().OrderRepository())
}

func (c *CompositionRoot) CreateListOpenSessionsQueryHandler() queries.ListOpenSessionsQueryHandler {
	return queries.NewListOpenSessionsQueryHandler(c.uowFactory.Create().SessionRepository(), c.now)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	expire := c.CreateExpireSessionsCommandHandler()
	relay := c.CreateRelayOutboxCommandHandler()
	return jobs.NewJobManager(&expire, &relay, jobs.Schedules{
		Sweep:           c.cfg.SweepSchedule,
		SweepBatchSize:  c.cfg.SweepBatchSize,
		Outbox:          c.cfg.OutboxSchedule,
		OutboxBatchSize: c.cfg.OutboxBatchSize,
	}, c.logger)
}

func (c *CompositionRoot) CreateEcho() *echo.Echo {
	server := httpadapter.NewServer(
		c.CreatePlaceOrderCommandHandler(),
		c.CreateJoinHalfOrderCommandHandler(),
		c.CreateAdvanceOrderStatusCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateListOpenSessionsQueryHandler(),
		c.logger,
	)
	return httpadapter.NewEcho(server, []byte(c.cfg.JWTSecret), c.logger)
}
