package cmd

import (
	"log/slog"

	"freight/internal/adapters/in/auth"
	httpadapter "freight/internal/adapters/in/http"
	"freight/internal/adapters/in/ws"
	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/routing"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/ports"
	"freight/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires every adapter and use case together. Handlers
// are created on demand so each endpoint pulls exactly the dependencies
// it needs.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	registry      *ws.ConnectionRegistry
	authenticator *auth.Authenticator
	pricer        ports.RoutePricer
	logger        *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	authenticator, err := auth.NewAuthenticator(config.JWTSecret)
	if err != nil {
		return CompositionRoot{}, err
	}

	var pricer ports.RoutePricer
	if config.OSRMBaseURL != "" {
		osrm, err := routing.NewOSRMClient(config.OSRMBaseURL)
		if err != nil {
			return CompositionRoot{}, err
		}
		pricer = osrm
	}

	return CompositionRoot{
		config:        config,
		gormDB:        gormDB,
		uowFactory:    postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:      ws.NewConnectionRegistry(logger),
		authenticator: authenticator,
		pricer:        pricer,
		logger:        logger,
	}, nil
}

// Broadcaster returns the live feed fan-out used by every command
// handler.
func (c *CompositionRoot) Broadcaster() ports.OrderBroadcaster {
	return c.registry
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return postgres.NewOrderUoWFactory(c.uowFactory)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(), c.pricer, c.registry,
		c.config.RatePerKm, c.config.PriceBandPercent, c.logger,
	)
}

func (c *CompositionRoot) CreateEditOrderCommandHandler() commands.EditOrderCommandHandler {
	return commands.NewEditOrderCommandHandler(
		c.orderUoWFactory(), c.pricer, c.registry, c.config.RatePerKm, c.logger,
	)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory(), c.registry)
}

func (c *CompositionRoot) CreateReserveOrderCommandHandler() commands.ReserveOrderCommandHandler {
	return commands.NewReserveOrderCommandHandler(
		postgres.NewReservationUoWFactory(c.uowFactory), c.registry, c.config.ReserveTTL,
	)
}

func (c *CompositionRoot) CreateCancelReservationCommandHandler() commands.CancelReservationCommandHandler {
	return commands.NewCancelReservationCommandHandler(c.orderUoWFactory(), c.registry)
}

func (c *CompositionRoot) CreateRequestAssignmentCommandHandler() commands.RequestAssignmentCommandHandler {
	return commands.NewRequestAssignmentCommandHandler(
		c.orderUoWFactory(), c.registry, c.config.CandidateTTL,
	)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(
		postgres.NewAssignmentUoWFactory(c.uowFactory), c.registry, c.config.ServiceFeePercent,
	)
}

func (c *CompositionRoot) CreateConfirmDriverCommandHandler() commands.ConfirmDriverCommandHandler {
	return commands.NewConfirmDriverCommandHandler(
		postgres.NewAssignmentUoWFactory(c.uowFactory), c.registry, c.config.ServiceFeePercent,
	)
}

func (c *CompositionRoot) CreateRejectDriverCommandHandler() commands.RejectDriverCommandHandler {
	return commands.NewRejectDriverCommandHandler(c.orderUoWFactory(), c.registry)
}

func (c *CompositionRoot) CreateStartOrderCommandHandler() commands.StartOrderCommandHandler {
	return commands.NewStartOrderCommandHandler(c.orderUoWFactory(), c.registry)
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	return commands.NewMarkDeliveredCommandHandler(c.orderUoWFactory(), c.registry)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(
		postgres.NewSettlementUoWFactory(c.uowFactory), c.registry,
	)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.registry)
}

func (c *CompositionRoot) CreateUpdatePriceCommandHandler() commands.UpdatePriceCommandHandler {
	return commands.NewUpdatePriceCommandHandler(c.orderUoWFactory(), c.registry)
}

func (c *CompositionRoot) CreateExpireHoldsCommandHandler() commands.ExpireHoldsCommandHandler {
	return commands.NewExpireHoldsCommandHandler(c.orderUoWFactory(), c.registry, c.logger)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetMyOrdersQueryHandler() queries.GetMyOrdersQueryHandler {
	return queries.NewGetMyOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the REST facade over every use case.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateEditOrderCommandHandler(),
		c.CreateDeleteOrderCommandHandler(),
		c.CreateReserveOrderCommandHandler(),
		c.CreateCancelReservationCommandHandler(),
		c.CreateRequestAssignmentCommandHandler(),
		c.CreateAcceptOrderCommandHandler(),
		c.CreateConfirmDriverCommandHandler(),
		c.CreateRejectDriverCommandHandler(),
		c.CreateStartOrderCommandHandler(),
		c.CreateMarkDeliveredCommandHandler(),
		c.CreateCompleteOrderCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateUpdatePriceCommandHandler(),
		c.CreateGetAvailableOrdersQueryHandler(),
		c.CreateGetMyOrdersQueryHandler(),
		c.CreateGetOrderQueryHandler(),
	)
}

// CreateAuthMiddleware builds the bearer-token middleware. Account
// lookups run outside any unit of work because authentication never
// mutates orders.
func (c *CompositionRoot) CreateAuthMiddleware() *httpadapter.AuthMiddleware {
	uow := c.uowFactory.Create()
	return httpadapter.NewAuthMiddleware(c.authenticator, uow.AccountRepository(), c.logger)
}

// CreateFeedHandler builds the WebSocket subscription endpoint.
func (c *CompositionRoot) CreateFeedHandler() *ws.Handler {
	return ws.NewHandler(
		c.registry, c.authenticator,
		c.uowFactory.Create().AccountRepository(),
		c.CreateGetAvailableOrdersQueryHandler(),
		c.config.FeedPollInterval, c.logger,
	)
}

// CreateJobManager builds the background job scheduler.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateExpireHoldsCommandHandler(), c.config.HoldSweepSpec, c.logger,
	)
}
