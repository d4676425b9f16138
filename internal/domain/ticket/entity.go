package ticket

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/audit"
)

// Status はチケットの状態を表す
type Status string

const (
	StatusAvailable   Status = "available"
	StatusReserved    Status = "reserved"
	StatusConfirmed   Status = "confirmed"
	StatusUsed        Status = "used"
	StatusCancelled   Status = "cancelled"
	StatusTransferred Status = "transferred"
)

// Ticket はイベント座席に対して発行される入場券を表す
type Ticket struct {
	ID            string
	TenantID      string
	EventID       string
	EventSeatID   string
	TicketNumber  string
	BookingID     *string
	Price         int64
	Currency      string
	Status        Status
	Barcode       string
	QRCode        string
	TransferToken *string
	ReservedAt    *time.Time
	ReservedUntil *time.Time
	ScannedAt     *time.Time
	IssuedAt      time.Time

	audit.Entity
}

// NewTicket は新しいチケットを発行する
// IDはクライアント側で採番し、バーコード・QRコードはIDから決定的に導出する
func NewTicket(tenantID, eventID, eventSeatID, ticketNumber, currency string, price int64) *Ticket {
	id := uuid.New().String()
	return &Ticket{
		ID:           id,
		TenantID:     tenantID,
		EventID:      eventID,
		EventSeatID:  eventSeatID,
		TicketNumber: ticketNumber,
		Price:        price,
		Currency:     currency,
		Status:       StatusAvailable,
		Barcode:      deriveBarcode(id),
		QRCode:       deriveQRCode(id),
		IssuedAt:     time.Now(),
		Entity:       audit.New(),
	}
}

func deriveBarcode(id string) string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(id, "-", ""))
}

func deriveQRCode(id string) string {
	return "TICKET:" + id
}

// Validate はチケットの検証を行う
func (t *Ticket) Validate() error {
	if t.TenantID == "" {
		return ErrTenantIDRequired
	}
	if t.EventID == "" {
		return ErrEventIDRequired
	}
	if t.EventSeatID == "" {
		return ErrEventSeatIDRequired
	}
	if t.TicketNumber == "" {
		return ErrTicketNumberRequired
	}
	if t.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Reserve はチケットを注文に紐づけて仮押さえ状態にする
func (t *Ticket) Reserve(bookingID string, until *time.Time) error {
	if t.Status != StatusAvailable {
		return ErrTicketNotAvailable
	}
	now := time.Now()
	t.Status = StatusReserved
	t.BookingID = &bookingID
	t.ReservedAt = &now
	t.ReservedUntil = until
	t.Touch()
	return nil
}

// Confirm はチケットを確定状態にする
// 仮押さえ状態からのみ遷移できる
func (t *Ticket) Confirm() error {
	if t.Status != StatusReserved {
		return ErrTicketNotReserved
	}
	t.Status = StatusConfirmed
	t.Touch()
	return nil
}

// MarkAsUsed は入場済み状態にする（終端）
func (t *Ticket) MarkAsUsed() error {
	if t.Status != StatusConfirmed {
		return ErrTicketNotConfirmed
	}
	now := time.Now()
	t.Status = StatusUsed
	t.ScannedAt = &now
	t.Touch()
	return nil
}

// Transfer はチケットを譲渡状態にする
func (t *Ticket) Transfer(newToken string) error {
	if t.Status != StatusConfirmed {
		return ErrTicketNotConfirmed
	}
	if newToken == "" {
		return ErrTransferTokenRequired
	}
	t.Status = StatusTransferred
	t.TransferToken = &newToken
	t.Touch()
	return nil
}

// Cancel はチケットをキャンセルする（終端）
// 入場済み・キャンセル済みからは遷移できない
func (t *Ticket) Cancel() error {
	switch t.Status {
	case StatusUsed:
		return ErrTicketAlreadyUsed
	case StatusCancelled:
		return ErrTicketAlreadyCancelled
	}
	t.Status = StatusCancelled
	t.Touch()
	return nil
}
