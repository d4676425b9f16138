package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/booking"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/transaction"
)

type bookingRow struct {
	ID                 string     `db:"id"`
	TenantID           string     `db:"tenant_id"`
	EventID            string     `db:"event_id"`
	CustomerID         *string    `db:"customer_id"`
	SalespersonID      *string    `db:"salesperson_id"`
	SubtotalAmount     int64      `db:"subtotal_amount"`
	DiscountAmount     int64      `db:"discount_amount"`
	DiscountType       *string    `db:"discount_type"`
	DiscountValue      *float64   `db:"discount_value"`
	TaxAmount          int64      `db:"tax_amount"`
	TaxRate            float64    `db:"tax_rate"`
	TotalAmount        int64      `db:"total_amount"`
	Currency           string     `db:"currency"`
	DueBalance         int64      `db:"due_balance"`
	Status             string     `db:"status"`
	PaymentStatus      string     `db:"payment_status"`
	ReservedUntil      *time.Time `db:"reserved_until"`
	CancelledAt        *time.Time `db:"cancelled_at"`
	CancellationReason *string    `db:"cancellation_reason"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	Version            int        `db:"version"`
}

type bookingItemRow struct {
	BookingID    string  `db:"booking_id"`
	Position     int     `db:"position"`
	EventSeatID  string  `db:"event_seat_id"`
	TicketID     *string `db:"ticket_id"`
	SectionName  string  `db:"section_name"`
	RowName      string  `db:"row_name"`
	SeatNumber   string  `db:"seat_number"`
	UnitPrice    int64   `db:"unit_price"`
	TotalPrice   int64   `db:"total_price"`
	TicketNumber *string `db:"ticket_number"`
}

func (r *bookingRow) toEntity(items []booking.Item) *booking.Booking {
	b := &booking.Booking{
		ID:                 r.ID,
		TenantID:           r.TenantID,
		EventID:            r.EventID,
		CustomerID:         r.CustomerID,
		SalespersonID:      r.SalespersonID,
		Items:              items,
		SubtotalAmount:     r.SubtotalAmount,
		DiscountAmount:     r.DiscountAmount,
		DiscountValue:      r.DiscountValue,
		TaxAmount:          r.TaxAmount,
		TaxRate:            r.TaxRate,
		TotalAmount:        r.TotalAmount,
		Currency:           r.Currency,
		DueBalance:         r.DueBalance,
		Status:             booking.Status(r.Status),
		PaymentStatus:      booking.PaymentStatus(r.PaymentStatus),
		ReservedUntil:      r.ReservedUntil,
		CancelledAt:        r.CancelledAt,
		CancellationReason: r.CancellationReason,
	}
	if r.DiscountType != nil {
		dt := booking.DiscountType(*r.DiscountType)
		b.DiscountType = &dt
	}
	b.CreatedAt = r.CreatedAt
	b.UpdatedAt = r.UpdatedAt
	b.Version = r.Version
	return b
}

const bookingColumns = `id, tenant_id, event_id, customer_id, salesperson_id, subtotal_amount, discount_amount, discount_type, discount_value, tax_amount, tax_rate, total_amount, currency, due_balance, status, payment_status, reserved_until, cancelled_at, cancellation_reason, created_at, updated_at, version`

// BookingRepository は注文リポジトリのPostgreSQL実装
type BookingRepository struct{ db *sqlx.DB }

// NewBookingRepository は BookingRepository を作成する
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create は注文を明細とともに作成する
func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが必要です")
	}
	query := `
		INSERT INTO bookings (tenant_id, event_id, customer_id, salesperson_id, subtotal_amount, discount_amount, discount_type, discount_value, tax_amount, tax_rate, total_amount, currency, due_balance, status, payment_status, reserved_until, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id
	`
	var discountType *string
	if b.DiscountType != nil {
		s := string(*b.DiscountType)
		discountType = &s
	}
	err := sqlxTx.QueryRowContext(ctx, query,
		b.TenantID, b.EventID, b.CustomerID, b.SalespersonID,
		b.SubtotalAmount, b.DiscountAmount, discountType, b.DiscountValue,
		b.TaxAmount, b.TaxRate, b.TotalAmount, b.Currency, b.DueBalance,
		string(b.Status), string(b.PaymentStatus), b.ReservedUntil,
		b.CreatedAt, b.UpdatedAt, b.Version,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("注文作成に失敗: %w", err)
	}

	for i, item := range b.Items {
		if _, err := sqlxTx.ExecContext(ctx,
			`INSERT INTO booking_items (booking_id, position, event_seat_id, ticket_id, section_name, row_name, seat_number, unit_price, total_price, ticket_number) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			b.ID, i, item.EventSeatID, item.TicketID, item.SectionName, item.RowName, item.SeatNumber, item.UnitPrice, item.TotalPrice, item.TicketNumber,
		); err != nil {
			return fmt.Errorf("注文明細作成に失敗: %w", err)
		}
	}
	return nil
}

// GetByID はIDから注文を取得する
func (r *BookingRepository) GetByID(ctx context.Context, tenantID, id string) (*booking.Booking, error) {
	var row bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tenant_id = $1 AND id = $2`
	if err := r.db.GetContext(ctx, &row, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("注文取得に失敗: %w", err)
	}
	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return row.toEntity(items), nil
}

// Update は注文を更新する（楽観的ロック）
// 明細は全置換する
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	query := `
		UPDATE bookings
		SET customer_id = $1, salesperson_id = $2, subtotal_amount = $3, discount_amount = $4,
		    discount_type = $5, discount_value = $6, tax_amount = $7, tax_rate = $8,
		    total_amount = $9, due_balance = $10, status = $11, payment_status = $12,
		    reserved_until = $13, cancelled_at = $14, cancellation_reason = $15,
		    updated_at = $16, version = version + 1
		WHERE tenant_id = $17 AND id = $18 AND version = $19
	`
	var discountType *string
	if b.DiscountType != nil {
		s := string(*b.DiscountType)
		discountType = &s
	}
	result, err := r.db.ExecContext(ctx, query,
		b.CustomerID, b.SalespersonID, b.SubtotalAmount, b.DiscountAmount,
		discountType, b.DiscountValue, b.TaxAmount, b.TaxRate,
		b.TotalAmount, b.DueBalance, string(b.Status), string(b.PaymentStatus),
		b.ReservedUntil, b.CancelledAt, b.CancellationReason,
		b.UpdatedAt, b.TenantID, b.ID, b.Version,
	)
	if err != nil {
		return fmt.Errorf("注文更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrVersionConflict
	}
	b.Version++

	if _, err := r.db.ExecContext(ctx, `DELETE FROM booking_items WHERE booking_id = $1`, b.ID); err != nil {
		return fmt.Errorf("注文明細削除に失敗: %w", err)
	}
	for i, item := range b.Items {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO booking_items (booking_id, position, event_seat_id, ticket_id, section_name, row_name, seat_number, unit_price, total_price, ticket_number) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			b.ID, i, item.EventSeatID, item.TicketID, item.SectionName, item.RowName, item.SeatNumber, item.UnitPrice, item.TotalPrice, item.TicketNumber,
		); err != nil {
			return fmt.Errorf("注文明細作成に失敗: %w", err)
		}
	}
	return nil
}

// ListByEvent はイベントの注文一覧を取得する
func (r *BookingRepository) ListByEvent(ctx context.Context, tenantID, eventID string, limit, offset int) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tenant_id = $1 AND event_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, eventID, limit, offset); err != nil {
		return nil, fmt.Errorf("注文一覧取得に失敗: %w", err)
	}
	return r.toEntities(ctx, rows)
}

// GetExpiredReserved は仮押さえ期限切れの未確定注文を取得する
func (r *BookingRepository) GetExpiredReserved(ctx context.Context) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status IN ('pending', 'reserved') AND reserved_until IS NOT NULL AND reserved_until < NOW()`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("期限切れ注文取得に失敗: %w", err)
	}
	return r.toEntities(ctx, rows)
}

func (r *BookingRepository) toEntities(ctx context.Context, rows []bookingRow) ([]*booking.Booking, error) {
	result := make([]*booking.Booking, len(rows))
	for i, row := range rows {
		items, err := r.getItems(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		result[i] = row.toEntity(items)
	}
	return result, nil
}

func (r *BookingRepository) getItems(ctx context.Context, bookingID string) ([]booking.Item, error) {
	var rows []bookingItemRow
	query := `SELECT booking_id, position, event_seat_id, ticket_id, section_name, row_name, seat_number, unit_price, total_price, ticket_number FROM booking_items WHERE booking_id = $1 ORDER BY position`
	if err := r.db.SelectContext(ctx, &rows, query, bookingID); err != nil {
		return nil, fmt.Errorf("注文明細取得に失敗: %w", err)
	}
	items := make([]booking.Item, len(rows))
	for i, row := range rows {
		items[i] = booking.Item{
			EventSeatID:  row.EventSeatID,
			TicketID:     row.TicketID,
			SectionName:  row.SectionName,
			RowName:      row.RowName,
			SeatNumber:   row.SeatNumber,
			UnitPrice:    row.UnitPrice,
			TotalPrice:   row.TotalPrice,
			TicketNumber: row.TicketNumber,
		}
	}
	return items, nil
}

var _ booking.Repository = (*BookingRepository)(nil)
