package payment

import (
	"time"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/audit"
)

// Status は決済の状態を表す
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusPaid       Status = "paid"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
	StatusCancelled  Status = "cancelled"
)

// Payment は注文に対する決済トランザクションを表す
// 1つの注文に複数の決済が紐づく（分割払い、取消）
type Payment struct {
	ID                   string
	TenantID             string
	BookingID            string
	PaymentCode          string
	Amount               int64
	Currency             string
	PaymentMethod        string
	TransactionReference *string
	Notes                *string
	Status               Status
	ProcessedAt          *time.Time

	audit.Entity
}

// NewPayment は新しい決済を作成する
// 同期キャプチャモデルのため作成時点でPAIDになる
func NewPayment(tenantID, bookingID, paymentCode, currency, method string, amount int64) *Payment {
	now := time.Now()
	return &Payment{
		TenantID:      tenantID,
		BookingID:     bookingID,
		PaymentCode:   paymentCode,
		Amount:        amount,
		Currency:      currency,
		PaymentMethod: method,
		Status:        StatusPaid,
		ProcessedAt:   &now,
		Entity:        audit.New(),
	}
}

// Validate は決済の検証を行う
func (p *Payment) Validate() error {
	if p.TenantID == "" {
		return ErrTenantIDRequired
	}
	if p.BookingID == "" {
		return ErrBookingIDRequired
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if p.PaymentMethod == "" {
		return ErrPaymentMethodRequired
	}
	return nil
}

// IsPaid は入金済みかを返す
func (p *Payment) IsPaid() bool {
	return p.Status == StatusPaid
}

// Cancel は決済を取り消す
// PAIDの決済も取消（ボイド）できるが、取消済み・返金済みからは遷移できない
func (p *Payment) Cancel() error {
	switch p.Status {
	case StatusCancelled:
		return ErrPaymentAlreadyCancelled
	case StatusRefunded:
		return ErrPaymentAlreadyRefunded
	}
	p.Status = StatusCancelled
	p.Touch()
	return nil
}

// MarkFailed は決済を失敗状態にする
// 入金済みの決済は失敗に遷移できない
func (p *Payment) MarkFailed() error {
	if p.Status == StatusPaid || p.Status == StatusRefunded {
		return ErrPaymentAlreadyPaid
	}
	if p.Status == StatusCancelled {
		return ErrPaymentAlreadyCancelled
	}
	p.Status = StatusFailed
	p.Touch()
	return nil
}

// Refund は決済を返金状態にする
func (p *Payment) Refund() error {
	if p.Status != StatusPaid {
		return ErrPaymentNotPaid
	}
	p.Status = StatusRefunded
	p.Touch()
	return nil
}
