package queries_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres/orderrepo"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/feed"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type nopTracker struct{}

func (nopTracker) TrackAggregate(kernel.UUID, any) {}

// QueryHandlersIntegrationTestSuite exercises the read side against a real
// PostgreSQL instance, seeding data through the write-side repository so
// the two views of the orders table stay honest with each other.
type QueryHandlersIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	repo      *orderrepo.GormOrderRepository
}

func (suite *QueryHandlersIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
	suite.repo = orderrepo.NewGormOrderRepository(db, nopTracker{})
}

func (suite *QueryHandlersIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)
}

func (suite *QueryHandlersIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOrder_ReturnsSnapshot() {
	ctx := context.Background()

	stored := suite.seedOrder("Kyiv", "Lviv", 120)
	handler := queries.NewGetOrderQueryHandler(suite.db)

	query, err := queries.NewGetOrderQuery(stored.ID())
	suite.Require().NoError(err)

	snap, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(stored.ID().String(), snap.ID)
	suite.Equal(order.StatusCreated, snap.Status)
	suite.Equal("Kyiv", snap.FromCity)
	suite.InDelta(120, snap.WeightKg, 1e-9)
	suite.Len(snap.History, 1)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOrder_NotFound() {
	ctx := context.Background()

	handler := queries.NewGetOrderQueryHandler(suite.db)
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = handler.Handle(ctx, query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetAvailableOrders_FullListing() {
	ctx := context.Background()

	kyivOrder := suite.seedOrder("Kyiv", "Lviv", 120)
	suite.seedOrder("Odesa", "Kharkiv", 400)

	claimed := suite.seedOrder("Kyiv", "Dnipro", 200)
	suite.Require().NoError(claimed.Reserve(kernel.NewUUID(), time.Now().UTC(), 10*time.Minute))
	suite.Require().NoError(suite.repo.Update(ctx, claimed))

	handler := queries.NewGetAvailableOrdersQueryHandler(suite.db)
	query, err := queries.NewGetAvailableOrdersQuery(feed.Filter{
		PickupCity:   "Kyiv",
		SubscriberID: kernel.NewUUID(),
	}, nil)
	suite.Require().NoError(err)

	response, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(response.Orders, 1)
	suite.Equal(kyivOrder.ID().String(), response.Orders[0].ID)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetAvailableOrders_IncrementalSeesClaims() {
	ctx := context.Background()

	stored := suite.seedOrder("Kyiv", "Lviv", 120)
	mark := time.Now().UTC().Add(-time.Second)

	suite.Require().NoError(stored.Accept(kernel.NewUUID(), time.Now().UTC()))
	suite.Require().NoError(suite.repo.Update(ctx, stored))

	handler := queries.NewGetAvailableOrdersQueryHandler(suite.db)
	query, err := queries.NewGetAvailableOrdersQuery(feed.Filter{
		PickupCity:   "Kyiv",
		SubscriberID: kernel.NewUUID(),
	}, &mark)
	suite.Require().NoError(err)

	response, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(response.Orders, 1)
	suite.Equal(order.StatusAccepted, response.Orders[0].Status)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetMyOrders_ScopesByRole() {
	ctx := context.Background()

	customerID := kernel.NewUUID()
	driverID := kernel.NewUUID()

	mine := suite.seedOrderFor(customerID, "Kyiv", "Lviv")
	suite.seedOrder("Odesa", "Kharkiv", 400)

	assigned := suite.seedOrder("Kyiv", "Dnipro", 200)
	suite.Require().NoError(assigned.Accept(driverID, time.Now().UTC()))
	suite.Require().NoError(suite.repo.Update(ctx, assigned))

	handler := queries.NewGetMyOrdersQueryHandler(suite.db)

	customerQuery, err := queries.NewGetMyOrdersQuery(customerID, account.RoleCustomer)
	suite.Require().NoError(err)
	customerOrders, err := handler.Handle(ctx, customerQuery)
	suite.Require().NoError(err)
	suite.Require().Len(customerOrders.Orders, 1)
	suite.Equal(mine.ID().String(), customerOrders.Orders[0].ID)

	driverQuery, err := queries.NewGetMyOrdersQuery(driverID, account.RoleDriver)
	suite.Require().NoError(err)
	driverOrders, err := handler.Handle(ctx, driverQuery)
	suite.Require().NoError(err)
	suite.Require().Len(driverOrders.Orders, 1)
	suite.Equal(assigned.ID().String(), driverOrders.Orders[0].ID)
}

func (suite *QueryHandlersIntegrationTestSuite) seedOrder(fromCity, toCity string, weight float64) *order.Order {
	return suite.seedOrderWith(kernel.NewUUID(), fromCity, toCity, weight)
}

func (suite *QueryHandlersIntegrationTestSuite) seedOrderFor(customerID kernel.UUID, fromCity, toCity string) *order.Order {
	return suite.seedOrderWith(customerID, fromCity, toCity, 150)
}

func (suite *QueryHandlersIntegrationTestSuite) seedOrderWith(
	customerID kernel.UUID, fromCity, toCity string, weight float64,
) *order.Order {
	pickup, err := order.NewPlace(fromCity, "UA", fromCity, "", "", nil)
	suite.Require().NoError(err)
	dropoff, err := order.NewPlace(toCity, "UA", toCity, "", "", nil)
	suite.Require().NoError(err)
	cargo, err := order.NewCargo("boxes", weight, 0, 0, 0, nil)
	suite.Require().NoError(err)

	stored, err := order.NewOrder(
		kernel.NewUUID(), customerID,
		pickup, dropoff, cargo,
		order.Schedule{}, order.PaymentCash,
		1000, 0, false, false, false, false,
		time.Now().UTC(),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(context.Background(), stored))
	return stored
}

func TestQueryHandlersIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersIntegrationTestSuite))
}
