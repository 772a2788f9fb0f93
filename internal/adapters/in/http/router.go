package http

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewEcho builds the echo instance with recovery, request logging into slog and
// the role middleware on the API group.
func NewEcho(s *Server, jwtSecret []byte, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= 500 {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	}))

	RegisterHandlers(e, s, jwtSecret)
	return e
}

// RegisterHandlers mounts the API routes on e.
func RegisterHandlers(e *echo.Echo, s *Server, jwtSecret []byte) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1", RoleMiddleware(jwtSecret))
	api.POST("/orders", s.PlaceOrder)
	api.POST("/orders/join-half", s.JoinHalfOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/status", s.AdvanceOrderStatus)
	api.GET("/restaurants/:restaurantId/orders", s.ListOrders)
	api.GET("/restaurants/:restaurantId/half-order-sessions", s.ListOpenSessions)
}
