package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/booking"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/eventseat"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/payment"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/ticket"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/transaction"
)

// MockBookingRepository は booking.Repository のモック
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, tenantID, id string) (*booking.Booking, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) ListByEvent(ctx context.Context, tenantID, eventID string, limit, offset int) ([]*booking.Booking, error) {
	args := m.Called(ctx, tenantID, eventID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetExpiredReserved(ctx context.Context) ([]*booking.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

// MockPaymentRepository は payment.Repository のモック
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, tenantID, id string) (*payment.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, tenantID, bookingID string) ([]*payment.Payment, error) {
	args := m.Called(ctx, tenantID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockTicketRepository は ticket.Repository のモック
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) CreateBulk(ctx context.Context, tx transaction.Tx, tickets []*ticket.Ticket) error {
	args := m.Called(ctx, tx, tickets)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, tenantID, id string) (*ticket.Ticket, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByBookingID(ctx context.Context, tenantID, bookingID string) ([]*ticket.Ticket, error) {
	args := m.Called(ctx, tenantID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ticket.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// MockEventSeatRepository は eventseat.Repository のモック
type MockEventSeatRepository struct {
	mock.Mock
}

func (m *MockEventSeatRepository) Create(ctx context.Context, s *eventseat.Seat) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockEventSeatRepository) CreateBulk(ctx context.Context, seats []*eventseat.Seat) error {
	args := m.Called(ctx, seats)
	return args.Error(0)
}

func (m *MockEventSeatRepository) GetByID(ctx context.Context, tenantID, id string) (*eventseat.Seat, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventseat.Seat), args.Error(1)
}

func (m *MockEventSeatRepository) GetByEventID(ctx context.Context, tenantID, eventID string) ([]*eventseat.Seat, error) {
	args := m.Called(ctx, tenantID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*eventseat.Seat), args.Error(1)
}

func (m *MockEventSeatRepository) CountAvailableByEventID(ctx context.Context, tenantID, eventID string) (int, error) {
	args := m.Called(ctx, tenantID, eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockEventSeatRepository) ReserveSeats(ctx context.Context, tx transaction.Tx, tenantID string, seatIDs []string, bookingID string) error {
	args := m.Called(ctx, tx, tenantID, seatIDs, bookingID)
	return args.Error(0)
}

func (m *MockEventSeatRepository) ReleaseSeats(ctx context.Context, tx transaction.Tx, tenantID string, seatIDs []string) error {
	args := m.Called(ctx, tx, tenantID, seatIDs)
	return args.Error(0)
}

func (m *MockEventSeatRepository) Update(ctx context.Context, s *eventseat.Seat) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockSequenceRepository は sequence.Repository のモック
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) NextValue(ctx context.Context, tenantID, sequenceType, prefix string, digits int) (string, error) {
	args := m.Called(ctx, tenantID, sequenceType, prefix, digits)
	return args.String(0), args.Error(1)
}

// MockTx は transaction.Tx のモック
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockTxManager は transaction.Manager のモック
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}
