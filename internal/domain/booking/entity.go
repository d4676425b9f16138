package booking

import (
	"math"
	"time"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/audit"
)

// Status は注文の状態を表す
type Status string

const (
	StatusPending   Status = "pending"
	StatusReserved  Status = "reserved"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus は注文の入金状態を表す
// 決済台帳（PAID決済の合計）から常に再計算される派生値
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusPaid       PaymentStatus = "paid"
)

// DiscountType は割引の種別を表す
type DiscountType string

const (
	DiscountTypeAmount     DiscountType = "amount"
	DiscountTypePercentage DiscountType = "percentage"
)

// Item は注文明細を表す
// 座席位置と価格は注文時点のスナップショット
type Item struct {
	EventSeatID  string
	TicketID     *string
	SectionName  string
	RowName      string
	SeatNumber   string
	UnitPrice    int64
	TotalPrice   int64
	TicketNumber *string
}

// Booking は注文集約を表す
type Booking struct {
	ID            string
	TenantID      string
	EventID       string
	CustomerID    *string
	SalespersonID *string

	// 明細は表示順を保持する。更新時は全置換のみ
	Items []Item

	SubtotalAmount int64
	DiscountAmount int64
	DiscountType   *DiscountType
	DiscountValue  *float64
	TaxAmount      int64
	TaxRate        float64
	TotalAmount    int64
	Currency       string
	DueBalance     int64

	Status        Status
	PaymentStatus PaymentStatus

	ReservedUntil      *time.Time
	CancelledAt        *time.Time
	CancellationReason *string

	audit.Entity
}

// Options は注文作成時の任意項目
type Options struct {
	CustomerID    *string
	SalespersonID *string
	DiscountType  *DiscountType
	DiscountValue *float64
	TaxRate       float64
	ReservedUntil *time.Time
}

// NewBooking は新しい注文を作成する
// 小計は明細合計から、税額は割引後金額から計算する
func NewBooking(tenantID, eventID, currency string, items []Item, opts Options) *Booking {
	b := &Booking{
		TenantID:      tenantID,
		EventID:       eventID,
		CustomerID:    opts.CustomerID,
		SalespersonID: opts.SalespersonID,
		Items:         items,
		DiscountType:  opts.DiscountType,
		DiscountValue: opts.DiscountValue,
		TaxRate:       opts.TaxRate,
		Currency:      currency,
		Status:        StatusPending,
		PaymentStatus: PaymentStatusPending,
		ReservedUntil: opts.ReservedUntil,
		Entity:        audit.New(),
	}
	b.recalculate()
	return b
}

// recalculate は明細から金額を再計算する
func (b *Booking) recalculate() {
	var subtotal int64
	for _, item := range b.Items {
		subtotal += item.TotalPrice
	}
	b.SubtotalAmount = subtotal
	b.DiscountAmount = b.discountAmount(subtotal)
	taxable := subtotal - b.DiscountAmount
	b.TaxAmount = roundAmount(float64(taxable) * b.TaxRate)
	b.TotalAmount = taxable + b.TaxAmount
	b.DueBalance = b.TotalAmount
}

func (b *Booking) discountAmount(subtotal int64) int64 {
	if b.DiscountType == nil || b.DiscountValue == nil {
		return 0
	}
	switch *b.DiscountType {
	case DiscountTypeAmount:
		return roundAmount(*b.DiscountValue)
	case DiscountTypePercentage:
		return roundAmount(float64(subtotal) * *b.DiscountValue / 100)
	}
	return 0
}

func roundAmount(v float64) int64 {
	return int64(math.Round(v))
}

// Validate は注文の検証を行う
func (b *Booking) Validate() error {
	if b.TenantID == "" {
		return ErrTenantIDRequired
	}
	if b.EventID == "" {
		return ErrEventIDRequired
	}
	if b.Currency == "" {
		return ErrCurrencyRequired
	}
	if len(b.Items) == 0 {
		return ErrItemsRequired
	}
	for _, item := range b.Items {
		if item.EventSeatID == "" {
			return ErrItemSeatRequired
		}
		if item.UnitPrice < 0 || item.TotalPrice < 0 {
			return ErrInvalidItemPrice
		}
	}
	if b.DiscountAmount > b.SubtotalAmount {
		return ErrInvalidDiscount
	}
	return nil
}

// CanAcceptPayment は決済を受け付けられる状態かを返す
func (b *Booking) CanAcceptPayment() bool {
	switch b.Status {
	case StatusPending, StatusReserved, StatusConfirmed:
		return true
	}
	return false
}

// MarkReserved は注文を仮押さえ状態にする
func (b *Booking) MarkReserved(until time.Time) error {
	if b.Status != StatusPending {
		return ErrBookingNotPending
	}
	b.Status = StatusReserved
	b.ReservedUntil = &until
	b.Touch()
	return nil
}

// Confirm は注文を確定状態にする
// 既に確定済みの場合は何もしない
func (b *Booking) Confirm() error {
	if b.Status == StatusCancelled {
		return ErrBookingAlreadyCancelled
	}
	if b.Status == StatusConfirmed {
		return nil
	}
	b.Status = StatusConfirmed
	b.Touch()
	return nil
}

// Settle はPAID決済の合計額から残高と入金状態を再計算する
// 台帳からの全再計算なので何度呼んでも同じ結果になる
func (b *Booking) Settle(totalPaid int64) {
	b.DueBalance = b.TotalAmount - totalPaid
	switch {
	case totalPaid >= b.TotalAmount:
		b.PaymentStatus = PaymentStatusPaid
	case totalPaid > 0:
		b.PaymentStatus = PaymentStatusProcessing
	default:
		b.PaymentStatus = PaymentStatusPending
	}
	b.Touch()
}

// Cancel は注文をキャンセルする
// 理由は必須。キャンセルは終端状態で、物理削除は行わない
func (b *Booking) Cancel(reason string) error {
	if reason == "" {
		return ErrCancellationReasonRequired
	}
	if b.Status == StatusCancelled {
		return ErrBookingAlreadyCancelled
	}
	now := time.Now()
	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.CancellationReason = &reason
	b.Touch()
	return nil
}

// UpdateInput は部分更新の入力
// nil のフィールドは変更しない
type UpdateInput struct {
	CustomerID    *string
	SalespersonID *string
	ReservedUntil *time.Time
	Items         []Item // 指定時は全置換し金額を再計算する
}

// UpdateDetails は指定されたフィールドのみを更新する
func (b *Booking) UpdateDetails(input UpdateInput) error {
	if b.Status == StatusCancelled {
		return ErrBookingAlreadyCancelled
	}
	if input.CustomerID != nil {
		b.CustomerID = input.CustomerID
	}
	if input.SalespersonID != nil {
		b.SalespersonID = input.SalespersonID
	}
	if input.ReservedUntil != nil {
		b.ReservedUntil = input.ReservedUntil
	}
	if input.Items != nil {
		b.Items = input.Items
		b.recalculate()
	}
	if err := b.Validate(); err != nil {
		return err
	}
	b.Touch()
	return nil
}

// IsExpired は仮押さえ期限が切れているかを返す
func (b *Booking) IsExpired() bool {
	return b.ReservedUntil != nil && time.Now().After(*b.ReservedUntil)
}
