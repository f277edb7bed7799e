package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	api "matching/internal/adapters/in/http"
	"matching/internal/adapters/out/grpc/ordersclient"
	"matching/internal/adapters/out/kafka/eventpublisher"
	"matching/internal/adapters/out/notify"
	"matching/internal/adapters/out/postgres"
	"matching/internal/adapters/out/postgres/queuerepo"
	"matching/internal/adapters/out/redis/forecastcache"
	"matching/internal/core/application/usecases/commands"
	"matching/internal/core/application/usecases/queries"
	"matching/internal/core/domain/services"
	"matching/internal/core/ports"
	"matching/internal/jobs"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      clockwork.Clock
	logger     *slog.Logger

	notifier ports.Notifier
	cache    ports.ForecastCache

	closers []func() error
}

// NewCompositionRoot builds the outbound adapters. The orders client, the
// Kafka publisher and the Redis cache are optional and only built when their
// address is configured.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      clockwork.NewRealClock(),
		logger:     logger,
	}

	var targets []ports.Notifier
	if config.GrpcOrdersAddress != "" {
		client, err := ordersclient.NewClient(config.GrpcOrdersAddress, config.NotifyTimeout)
		if err != nil {
			return nil, c.closeWith(fmt.Errorf("orders client: %w", err))
		}
		c.closers = append(c.closers, client.Close)
		targets = append(targets, client)
	}
	if len(config.KafkaBrokers) > 0 {
		publisher, err := eventpublisher.NewPublisher(
			config.KafkaBrokers,
			config.KafkaQueueEventsTopic,
			config.NotifyTimeout,
			c.clock,
		)
		if err != nil {
			return nil, c.closeWith(fmt.Errorf("event publisher: %w", err))
		}
		c.closers = append(c.closers, publisher.Close)
		targets = append(targets, publisher)
	}
	fanout := notify.NewFanout(targets...)
	if fanout.Len() == 0 {
		logger.Warn("No notification target configured, queue outcomes are not reported")
	}
	c.notifier = fanout

	if config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
		})
		c.closers = append(c.closers, client.Close)
		cache, err := forecastcache.New(client, config.ForecastCacheTTL)
		if err != nil {
			return nil, c.closeWith(fmt.Errorf("forecast cache: %w", err))
		}
		c.cache = cache
	}

	return c, nil
}

// Close releases the outbound connections.
func (c *CompositionRoot) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, c.closers[i]())
	}
	c.closers = nil
	return err
}

func (c *CompositionRoot) closeWith(err error) error {
	return errors.Join(err, c.Close())
}

func (c *CompositionRoot) newUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) newCourierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateFindCourierCommandHandler() (commands.FindCourierCommandHandler, error) {
	retryPolicy, err := services.NewRetryPolicy(c.config.RetryInterval)
	if err != nil {
		return commands.FindCourierCommandHandler{}, err
	}
	return commands.NewFindCourierCommandHandler(
		c.newUoWFactory(),
		retryPolicy,
		c.config.MaxWaitingTime,
		c.notifier,
		c.clock,
		c.logger,
	), nil
}

func (c *CompositionRoot) CreateMatchQueueHeadCommandHandler() commands.MatchQueueHeadCommandHandler {
	return commands.NewMatchQueueHeadCommandHandler(
		c.newUoWFactory(),
		c.notifier,
		c.clock,
		c.config.MaxWaitingTime,
		c.config.MatcherPollBackoff,
		c.logger,
	)
}

func (c *CompositionRoot) CreateRegisterCourierCommandHandler() commands.RegisterCourierCommandHandler {
	return commands.NewRegisterCourierCommandHandler(c.newCourierUoWFactory())
}

func (c *CompositionRoot) CreateUpdateCourierRatingCommandHandler() commands.UpdateCourierRatingCommandHandler {
	return commands.NewUpdateCourierRatingCommandHandler(c.newCourierUoWFactory())
}

func (c *CompositionRoot) CreateReleaseCourierCommandHandler() commands.ReleaseCourierCommandHandler {
	return commands.NewReleaseCourierCommandHandler(c.newCourierUoWFactory())
}

func (c *CompositionRoot) CreateGetWaitStatusQueryHandler() queries.GetWaitStatusQueryHandler {
	return queries.NewGetWaitStatusQueryHandler(
		queuerepo.NewGormQueueRepository(c.gormDB),
		services.NewWaitForecaster(),
		c.cache,
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetAllCouriersQueryHandler() queries.GetAllCouriersQueryHandler {
	return queries.NewGetAllCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetSearchingQueueQueryHandler() queries.GetSearchingQueueQueryHandler {
	return queries.NewGetSearchingQueueQueryHandler(c.gormDB)
}

// CreateHTTPServer wires every use case into the API server.
func (c *CompositionRoot) CreateHTTPServer() (*api.Server, error) {
	findCourier, err := c.CreateFindCourierCommandHandler()
	if err != nil {
		return nil, err
	}
	return api.NewServer(api.Handlers{
		FindCourier:         findCourier,
		RegisterCourier:     c.CreateRegisterCourierCommandHandler(),
		UpdateCourierRating: c.CreateUpdateCourierRatingCommandHandler(),
		ReleaseCourier:      c.CreateReleaseCourierCommandHandler(),
		GetWaitStatus:       c.CreateGetWaitStatusQueryHandler(),
		GetAllCouriers:      c.CreateGetAllCouriersQueryHandler(),
		GetSearchingQueue:   c.CreateGetSearchingQueueQueryHandler(),
	}, c.logger), nil
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewCourierMatchingJob(
			c.CreateMatchQueueHeadCommandHandler(),
			c.clock,
			c.config.MatcherIdleInterval,
			c.logger,
		),
		jobs.NewQueueDepthJob(
			c.CreateGetSearchingQueueQueryHandler(),
			c.config.QueueDepthSchedule,
			c.logger,
		),
	)
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
