package eventseat

import (
	"time"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/audit"
)

// Status は座席在庫の状態を表す
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusSold      Status = "sold"
	StatusHeld      Status = "held"
	StatusBlocked   Status = "blocked"
)

// Seat は1つのイベント回に対する販売可能座席を表す在庫単位
// 座席の識別は会場レイアウト参照（SeatID）または位置スナップショット
// （セクション・列・番号）のどちらか一方のみを使用する
type Seat struct {
	ID          string
	TenantID    string
	EventID     string
	SeatID      *string
	SectionName string
	RowName     string
	SeatNumber  string
	Status      Status
	Price       int64
	TicketCode  *string
	BrokerID    *string
	Attributes  map[string]string
	ReservedBy  *string // booking_id
	ReservedAt  *time.Time

	audit.Entity
}

// NewSeatFromLayout は会場レイアウト参照から座席を作成する
func NewSeatFromLayout(tenantID, eventID, seatID string, price int64) *Seat {
	return &Seat{
		TenantID: tenantID,
		EventID:  eventID,
		SeatID:   &seatID,
		Status:   StatusAvailable,
		Price:    price,
		Entity:   audit.New(),
	}
}

// NewSeatFromPosition は位置スナップショットから座席を作成する
func NewSeatFromPosition(tenantID, eventID, section, row, number string, price int64) *Seat {
	return &Seat{
		TenantID:    tenantID,
		EventID:     eventID,
		SectionName: section,
		RowName:     row,
		SeatNumber:  number,
		Status:      StatusAvailable,
		Price:       price,
		Entity:      audit.New(),
	}
}

// Validate は座席の検証を行う
// 識別方式はどちらか一方のみ設定されていること
func (s *Seat) Validate() error {
	if s.TenantID == "" {
		return ErrTenantIDRequired
	}
	if s.EventID == "" {
		return ErrEventIDRequired
	}
	if s.Price < 0 {
		return ErrInvalidPrice
	}
	hasLayout := s.SeatID != nil && *s.SeatID != ""
	hasPosition := s.SectionName != "" || s.RowName != "" || s.SeatNumber != ""
	if hasLayout == hasPosition {
		return ErrAmbiguousIdentification
	}
	return nil
}

// IsAvailable は座席が予約可能かを返す
func (s *Seat) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// Reserve は座席を仮押さえ状態にする
func (s *Seat) Reserve(bookingID string) error {
	if s.Status != StatusAvailable {
		return ErrSeatNotAvailable
	}
	now := time.Now()
	s.Status = StatusReserved
	s.ReservedBy = &bookingID
	s.ReservedAt = &now
	s.Touch()
	return nil
}

// Release は仮押さえを解放する
// 仮押さえ状態以外では何もしない
func (s *Seat) Release() {
	if s.Status != StatusReserved {
		return
	}
	s.Status = StatusAvailable
	s.ReservedBy = nil
	s.ReservedAt = nil
	s.Touch()
}

// Sell は座席を販売済み状態にする
// 予約可能または仮押さえ状態からのみ遷移できる
func (s *Seat) Sell(ticketCode string) error {
	if s.Status != StatusAvailable && s.Status != StatusReserved {
		return ErrSeatNotSellable
	}
	s.Status = StatusSold
	if ticketCode != "" {
		s.TicketCode = &ticketCode
	}
	s.Touch()
	return nil
}

// Hold は座席を運営保留状態にする
// 管理用の上書き操作のため任意の状態から設定できる
func (s *Seat) Hold() {
	s.Status = StatusHeld
	s.Touch()
}

// Block は座席を販売停止状態にする
// 管理用の上書き操作のため任意の状態から設定できる
func (s *Seat) Block() {
	s.Status = StatusBlocked
	s.Touch()
}

// Position は座席位置の表示用文字列を返す
func (s *Seat) Position() (section, row, number string) {
	return s.SectionName, s.RowName, s.SeatNumber
}
