package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanosuguru/go-ticketing-settlement/internal/api/handler"
	"github.com/sanosuguru/go-ticketing-settlement/internal/api/middleware"
	"github.com/sanosuguru/go-ticketing-settlement/internal/pkg/metrics"
)

// Handlers はルーター組み立てに必要なハンドラー群
type Handlers struct {
	Health  *handler.HealthHandler
	Booking *handler.BookingHandler
	Payment *handler.PaymentHandler
	Ticket  *handler.TicketHandler
	Seat    *handler.SeatHandler
}

// NewRouter はEchoインスタンスを構成して返す
func NewRouter(h Handlers, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	middleware.SetupMiddleware(e)
	if m != nil {
		e.Use(middleware.PrometheusMiddleware(m))
	}

	// 監視系はテナントヘッダー不要
	e.GET("/api/v1/health", h.Health.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1", middleware.TenantContext())

	v1.POST("/bookings", h.Booking.Create)
	v1.GET("/bookings", h.Booking.ListByEvent)
	v1.GET("/bookings/:id", h.Booking.GetByID)
	v1.PATCH("/bookings/:id", h.Booking.Update)
	v1.POST("/bookings/:id/cancel", h.Booking.Cancel)

	v1.POST("/bookings/:id/payments", h.Payment.Create)
	v1.GET("/bookings/:id/payments", h.Payment.ListByBooking)
	v1.GET("/payments/:id", h.Payment.GetByID)
	v1.POST("/payments/:id/cancel", h.Payment.Cancel)

	v1.GET("/bookings/:id/tickets", h.Ticket.ListByBooking)
	v1.GET("/tickets/:id", h.Ticket.GetByID)
	v1.GET("/tickets/:id/qrcode", h.Ticket.QRCode)
	v1.POST("/tickets/:id/scan", h.Ticket.Scan)
	v1.POST("/tickets/:id/transfer", h.Ticket.Transfer)
	v1.POST("/tickets/:id/cancel", h.Ticket.Cancel)

	v1.POST("/seats", h.Seat.Create)
	v1.POST("/seats/bulk", h.Seat.CreateBulk)
	v1.GET("/seats/:id", h.Seat.GetByID)
	v1.POST("/seats/:id/hold", h.Seat.Hold)
	v1.POST("/seats/:id/block", h.Seat.Block)
	v1.POST("/seats/:id/release", h.Seat.Release)
	v1.GET("/events/:event_id/seats", h.Seat.ListByEvent)
	v1.GET("/events/:event_id/seats/availability", h.Seat.Availability)

	return e
}
