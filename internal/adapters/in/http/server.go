package http

import (
	"log/slog"
	"net/http"

	"halforder/internal/core/application/usecases/commands"
	"halforder/internal/core/application/usecases/queries"
	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Server turns HTTP requests into commands and queries. It holds no state of its
// own beyond the handlers.
type Server struct {
	// Command handlers
	placeOrderHandler    commands.PlaceOrderCommandHandler
	joinHalfOrderHandler commands.JoinHalfOrderCommandHandler
	advanceStatusHandler commands.AdvanceOrderStatusCommandHandler

	// Query handlers
	getOrderHandler         queries.GetOrderQueryHandler
	listOrdersHandler       queries.ListOrdersQueryHandler
	listOpenSessionsHandler queries.ListOpenSessionsQueryHandler

	logger *slog.Logger
}

func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	joinHalfOrderHandler commands.JoinHalfOrderCommandHandler,
	advanceStatusHandler commands.AdvanceOrderStatusCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	listOpenSessionsHandler queries.ListOpenSessionsQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		placeOrderHandler:       placeOrderHandler,
		joinHalfOrderHandler:    joinHalfOrderHandler,
		advanceStatusHandler:    advanceStatusHandler,
		getOrderHandler:         getOrderHandler,
		listOrdersHandler:       listOrdersHandler,
		listOpenSessionsHandler: listOpenSessionsHandler,
		logger:                  logger.With("component", "http"),
	}
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(c echo.Context) error {
	var body NewOrder
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	restaurantID, err := kernel.UUIDFromString(body.RestaurantID)
	if err != nil {
		return badRequest(c, "Invalid restaurant_id: "+err.Error())
	}
	tableID, err := kernel.UUIDFromString(body.TableID)
	if err != nil {
		return badRequest(c, "Invalid table_id: "+err.Error())
	}

	items := make([]commands.PlaceOrderItem, 0, len(body.Items))
	for _, item := range body.Items {
		menuItemID, idErr := kernel.UUIDFromString(item.MenuItemID)
		if idErr != nil {
			return badRequest(c, "Invalid menu_item_id: "+idErr.Error())
		}
		portion, portionErr := order.ParsePortion(item.Portion)
		if portionErr != nil {
			return s.fail(c, portionErr)
		}
		items = append(items, commands.PlaceOrderItem{MenuItemID: menuItemID, Portion: portion})
	}

	cmd, err := commands.NewPlaceOrderCommand(restaurantID, tableID, body.CustomerName, body.CustomerMobile, items)
	if err != nil {
		return s.fail(c, err)
	}

	placed, err := s.placeOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toOrder(queries.NewOrderResponse(placed)))
}

// JoinHalfOrder handles POST /api/v1/orders/join-half.
func (s *Server) JoinHalfOrder(c echo.Context) error {
	var body JoinHalfOrder
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sessionID, err := kernel.UUIDFromString(body.SessionID)
	if err != nil {
		return badRequest(c, "Invalid session_id: "+err.Error())
	}
	tableID, err := kernel.UUIDFromString(body.TableID)
	if err != nil {
		return badRequest(c, "Invalid table_id: "+err.Error())
	}

	cmd, err := commands.NewJoinHalfOrderCommand(sessionID, tableID, body.CustomerName, body.CustomerMobile)
	if err != nil {
		return s.fail(c, err)
	}

	joined, err := s.joinHalfOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toOrder(queries.NewOrderResponse(joined)))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.getOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrder(result))
}

// AdvanceOrderStatus handles PATCH /api/v1/orders/:id/status. Only counter staff
// and super admins may call it.
func (s *Server) AdvanceOrderStatus(c echo.Context) error {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid order id: "+err.Error())
	}

	var body StatusChange
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	target, err := order.ParseStatus(body.Status)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAdvanceOrderStatusCommand(id, target, roleFrom(c))
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.advanceStatusHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrder(queries.NewOrderResponse(updated)))
}

// ListOrders handles GET /api/v1/restaurants/:restaurantId/orders. The optional
// customer_mobile parameter narrows the list to one customer.
func (s *Server) ListOrders(c echo.Context) error {
	restaurantID, err := kernel.UUIDFromString(c.Param("restaurantId"))
	if err != nil {
		return badRequest(c, "Invalid restaurant id: "+err.Error())
	}

	query, err := queries.NewListOrdersQuery(restaurantID, c.QueryParam("customer_mobile"))
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.listOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]Order, 0, len(result))
	for _, o := range result {
		response = append(response, toOrder(o))
	}
	return c.JSON(http.StatusOK, response)
}

// ListOpenSessions handles GET /api/v1/restaurants/:restaurantId/half-order-sessions.
func (s *Server) ListOpenSessions(c echo.Context) error {
	restaurantID, err := kernel.UUIDFromString(c.Param("restaurantId"))
	if err != nil {
		return badRequest(c, "Invalid restaurant id: "+err.Error())
	}

	query, err := queries.NewListOpenSessionsQuery(restaurantID)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.listOpenSessionsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]Session, 0, len(result))
	for _, session := range result {
		response = append(response, toSession(session))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}
