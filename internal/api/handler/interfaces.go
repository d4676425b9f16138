package handler

import (
	"context"

	"github.com/sanosuguru/go-ticketing-settlement/internal/application"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/booking"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/eventseat"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/payment"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/ticket"
)

// BookingServiceInterface は注文サービスのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, tenantID string, input application.CreateBookingInput) (*booking.Booking, error)
	GetBooking(ctx context.Context, tenantID, id string) (*booking.Booking, error)
	ListBookingsByEvent(ctx context.Context, tenantID, eventID string, limit, offset int) ([]*booking.Booking, error)
	UpdateBooking(ctx context.Context, tenantID, id string, input booking.UpdateInput) (*booking.Booking, error)
	CancelBooking(ctx context.Context, tenantID, id, reason string) (*booking.Booking, error)
}

// SettlementServiceInterface は決済精算サービスのインターフェース
type SettlementServiceInterface interface {
	CreatePayment(ctx context.Context, tenantID string, input application.CreatePaymentInput) (*payment.Payment, error)
	CancelPayment(ctx context.Context, tenantID, paymentID string) (*payment.Payment, error)
	GetPayment(ctx context.Context, tenantID, id string) (*payment.Payment, error)
	GetBookingPayments(ctx context.Context, tenantID, bookingID string) ([]*payment.Payment, error)
}

// TicketServiceInterface はチケットサービスのインターフェース
type TicketServiceInterface interface {
	GetTicket(ctx context.Context, tenantID, id string) (*ticket.Ticket, error)
	GetBookingTickets(ctx context.Context, tenantID, bookingID string) ([]*ticket.Ticket, error)
	ScanTicket(ctx context.Context, tenantID, id string) (*ticket.Ticket, error)
	TransferTicket(ctx context.Context, tenantID, id string) (*ticket.Ticket, error)
	CancelTicket(ctx context.Context, tenantID, id string) (*ticket.Ticket, error)
	RenderQRCode(ctx context.Context, tenantID, id string) ([]byte, error)
}

// SeatServiceInterface は座席在庫サービスのインターフェース
type SeatServiceInterface interface {
	CreateSeat(ctx context.Context, tenantID string, input application.CreateSeatInput) (*eventseat.Seat, error)
	CreateBulkSeats(ctx context.Context, tenantID string, input application.CreateBulkSeatsInput) ([]*eventseat.Seat, error)
	GetSeat(ctx context.Context, tenantID, id string) (*eventseat.Seat, error)
	GetSeatsByEvent(ctx context.Context, tenantID, eventID string) ([]*eventseat.Seat, error)
	CountAvailableSeats(ctx context.Context, tenantID, eventID string) (int, error)
	HoldSeat(ctx context.Context, tenantID, id string) (*eventseat.Seat, error)
	BlockSeat(ctx context.Context, tenantID, id string) (*eventseat.Seat, error)
	ReleaseSeat(ctx context.Context, tenantID, id string) (*eventseat.Seat, error)
}
