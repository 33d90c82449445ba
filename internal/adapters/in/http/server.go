// Package http exposes the marketplace over a JSON API. Handlers
// translate transport shapes into commands and queries and map domain
// errors onto HTTP statuses; no business rules live here.
package http

import (
	"net/http"

	"freight/internal/adapters/in/ws"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Server wires the HTTP routes to the application's use cases.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	editOrderHandler         commands.EditOrderCommandHandler
	deleteOrderHandler       commands.DeleteOrderCommandHandler
	reserveOrderHandler      commands.ReserveOrderCommandHandler
	cancelReservationHandler commands.CancelReservationCommandHandler
	requestAssignmentHandler commands.RequestAssignmentCommandHandler
	acceptOrderHandler       commands.AcceptOrderCommandHandler
	confirmDriverHandler     commands.ConfirmDriverCommandHandler
	rejectDriverHandler      commands.RejectDriverCommandHandler
	startOrderHandler        commands.StartOrderCommandHandler
	markDeliveredHandler     commands.MarkDeliveredCommandHandler
	completeOrderHandler     commands.CompleteOrderCommandHandler
	cancelOrderHandler       commands.CancelOrderCommandHandler
	updatePriceHandler       commands.UpdatePriceCommandHandler

	// Query handlers
	getAvailableOrdersHandler queries.GetAvailableOrdersQueryHandler
	getMyOrdersHandler        queries.GetMyOrdersQueryHandler
	getOrderHandler           queries.GetOrderQueryHandler
}

// NewServer creates the HTTP server facade over the given handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	editOrderHandler commands.EditOrderCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	reserveOrderHandler commands.ReserveOrderCommandHandler,
	cancelReservationHandler commands.CancelReservationCommandHandler,
	requestAssignmentHandler commands.RequestAssignmentCommandHandler,
	acceptOrderHandler commands.AcceptOrderCommandHandler,
	confirmDriverHandler commands.ConfirmDriverCommandHandler,
	rejectDriverHandler commands.RejectDriverCommandHandler,
	startOrderHandler commands.StartOrderCommandHandler,
	markDeliveredHandler commands.MarkDeliveredCommandHandler,
	completeOrderHandler commands.CompleteOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	updatePriceHandler commands.UpdatePriceCommandHandler,
	getAvailableOrdersHandler queries.GetAvailableOrdersQueryHandler,
	getMyOrdersHandler queries.GetMyOrdersQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		editOrderHandler:          editOrderHandler,
		deleteOrderHandler:        deleteOrderHandler,
		reserveOrderHandler:       reserveOrderHandler,
		cancelReservationHandler:  cancelReservationHandler,
		requestAssignmentHandler:  requestAssignmentHandler,
		acceptOrderHandler:        acceptOrderHandler,
		confirmDriverHandler:      confirmDriverHandler,
		rejectDriverHandler:       rejectDriverHandler,
		startOrderHandler:         startOrderHandler,
		markDeliveredHandler:      markDeliveredHandler,
		completeOrderHandler:      completeOrderHandler,
		cancelOrderHandler:        cancelOrderHandler,
		updatePriceHandler:        updatePriceHandler,
		getAvailableOrdersHandler: getAvailableOrdersHandler,
		getMyOrdersHandler:        getMyOrdersHandler,
		getOrderHandler:           getOrderHandler,
	}
}

// RegisterRoutes mounts the API under /api/v1 behind the authentication
// middleware.
func (s *Server) RegisterRoutes(e *echo.Echo, authMiddleware *AuthMiddleware) {
	api := e.Group("/api/v1", authMiddleware.Authenticate)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetAvailableOrders)
	api.GET("/orders/my", s.GetMyOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id", s.EditOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)

	api.POST("/orders/:id/reserve", s.ReserveOrder)
	api.DELETE("/orders/:id/reserve", s.CancelReservation)
	api.POST("/orders/:id/request", s.RequestAssignment)
	api.POST("/orders/:id/accept", s.AcceptOrder)
	api.POST("/orders/:id/confirm", s.ConfirmDriver)
	api.POST("/orders/:id/reject", s.RejectDriver)
	api.POST("/orders/:id/start", s.StartOrder)
	api.POST("/orders/:id/delivered", s.MarkDelivered)
	api.POST("/orders/:id/complete", s.CompleteOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/price", s.UpdatePrice)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	identity := currentIdentity(c)
	if !identity.Role.CanActAs(account.RoleCustomer) {
		return respondForbidden(c, "only customers post orders")
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}

	pickup, err := req.From.toDomain()
	if err != nil {
		return respondError(c, err)
	}
	dropoff, err := req.To.toDomain()
	if err != nil {
		return respondError(c, err)
	}
	cargo, err := req.Cargo.toDomain()
	if err != nil {
		return respondError(c, err)
	}
	schedule, err := req.scheduleRequest.toDomain()
	if err != nil {
		return respondError(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), identity.UserID,
		pickup, dropoff, cargo, schedule,
		order.PaymentMethod(req.PaymentMethod),
		req.Price,
		req.AgreedPrice, req.Insurance, req.LoadHelp, req.UnloadHelp,
	)
	if err != nil {
		return respondError(c, err)
	}

	snapshot, err := s.createOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, snapshot)
}

// GetAvailableOrders handles GET /api/v1/orders: the feed listing for
// the authenticated driver, same filter parameters as the WebSocket
// subscription.
func (s *Server) GetAvailableOrders(c echo.Context) error {
	identity := currentIdentity(c)

	filter := ws.ParseFilter(c.QueryParams(), identity.UserID)
	query, err := queries.NewGetAvailableOrdersQuery(filter, nil)
	if err != nil {
		return respondError(c, err)
	}

	response, err := s.getAvailableOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, response)
}

// GetMyOrders handles GET /api/v1/orders/my.
func (s *Server) GetMyOrders(c echo.Context) error {
	identity := currentIdentity(c)

	query, err := queries.NewGetMyOrdersQuery(identity.UserID, identity.Role)
	if err != nil {
		return respondError(c, err)
	}

	response, err := s.getMyOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondError(c, err)
	}

	snapshot, err := s.getOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, snapshot)
}

// EditOrder handles PATCH /api/v1/orders/:id.
func (s *Server) EditOrder(c echo.Context) error {
	identity := currentIdentity(c)
	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	var req editOrderRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}

	changes, err := req.toChanges()
	if err != nil {
		return respondError(c, err)
	}

	cmd, err := commands.NewEditOrderCommand(orderID, identity.UserID, changes)
	if err != nil {
		return respondError(c, err)
	}

	snapshot, err := s.editOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, snapshot)
}

// DeleteOrder handles DELETE /api/v1/orders/:id.
func (s *Server) DeleteOrder(c echo.Context) error {
	identity := currentIdentity(c)
	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID, identity.UserID)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.deleteOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ReserveOrder handles POST /api/v1/orders/:id/reserve. A successful
// reservation discloses the customer's contact details to the driver.
func (s *Server) ReserveOrder(c echo.Context) error {
	identity := currentIdentity(c)
	if !identity.Role.CanActAs(account.RoleDriver) {
		return respondForbidden(c, "only drivers reserve orders")
	}

	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	var req reserveOrderRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}

	cmd, err := commands.NewReserveOrderCommand(orderID, identity.UserID, req.FinalPrice)
	if err != nil {
		return respondError(c, err)
	}

	result, err := s.reserveOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// CancelReservation handles DELETE /api/v1/orders/:id/reserve. Either
// the holding driver or the order's customer may release the hold.
func (s *Server) CancelReservation(c echo.Context) error {
	identity := currentIdentity(c)
	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	cmd, err := commands.NewCancelReservationCommand(orderID, identity.UserID)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.cancelReservationHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RequestAssignment handles POST /api/v1/orders/:id/request: a driver
// applies and waits for the customer's confirmation.
func (s *Server) RequestAssignment(c echo.Context) error {
	identity := currentIdentity(c)
	if !identity.Role.CanActAs(account.RoleDriver) {
		return respondForbidden(c, "only drivers apply for orders")
	}

	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	cmd, err := commands.NewRequestAssignmentCommand(orderID, identity.UserID)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.requestAssignmentHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AcceptOrder handles POST /api/v1/orders/:id/accept: a driver takes
// the order directly, optionally proposing a final price on negotiable
// postings.
func (s *Server) AcceptOrder(c echo.Context) error {
	identity := currentIdentity(c)
	if !identity.Role.CanActAs(account.RoleDriver) {
		return respondForbidden(c, "only drivers accept orders")
	}

	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	var req acceptOrderRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}

	cmd, err := commands.NewAcceptOrderCommand(orderID, identity.UserID, req.FinalPrice)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.acceptOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ConfirmDriver handles POST /api/v1/orders/:id/confirm: the customer
// approves the pending candidate.
func (s *Server) ConfirmDriver(c echo.Context) error {
	identity := currentIdentity(c)
	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	cmd, err := commands.NewConfirmDriverCommand(orderID, identity.UserID)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.confirmDriverHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RejectDriver handles POST /api/v1/orders/:id/reject: the customer
// declines the pending candidate and the order returns to the feed.
func (s *Server) RejectDriver(c echo.Context) error {
	identity := currentIdentity(c)
	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	cmd, err := commands.NewRejectDriverCommand(orderID, identity.UserID)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.rejectDriverHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// StartOrder handles POST /api/v1/orders/:id/start.
func (s *Server) StartOrder(c echo.Context) error {
	identity := currentIdentity(c)
	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	var req photoRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}

	cmd, err := commands.NewStartOrderCommand(orderID, identity.UserID, req.Photo)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.startOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// MarkDelivered handles POST /api/v1/orders/:id/delivered.
func (s *Server) MarkDelivered(c echo.Context) error {
	identity := currentIdentity(c)
	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	var req photoRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}

	cmd, err := commands.NewMarkDeliveredCommand(orderID, identity.UserID, req.Photo)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.markDeliveredHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// CompleteOrder handles POST /api/v1/orders/:id/complete: the customer
// confirms delivery and escrow is released to the driver.
func (s *Server) CompleteOrder(c echo.Context) error {
	identity := currentIdentity(c)
	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	cmd, err := commands.NewCompleteOrderCommand(orderID, identity.UserID)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.completeOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	identity := currentIdentity(c)
	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, identity.UserID)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.cancelOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UpdatePrice handles POST /api/v1/orders/:id/price: either side of a
// negotiable order adjusts the final price before assignment settles.
func (s *Server) UpdatePrice(c echo.Context) error {
	identity := currentIdentity(c)
	orderID, err := pathOrderID(c)
	if err != nil {
		return respondBadRequest(c, "invalid order id")
	}

	var req updatePriceRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}

	cmd, err := commands.NewUpdatePriceCommand(orderID, identity.UserID, identity.Role, req.Value)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.updatePriceHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func pathOrderID(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}

func respondForbidden(c echo.Context, message string) error {
	return c.JSON(http.StatusForbidden, ErrorResponse{
		Code:    http.StatusForbidden,
		Message: message,
	})
}
