package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/ticket"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/transaction"
)

type ticketRow struct {
	ID            string     `db:"id"`
	TenantID      string     `db:"tenant_id"`
	EventID       string     `db:"event_id"`
	EventSeatID   string     `db:"event_seat_id"`
	TicketNumber  string     `db:"ticket_number"`
	BookingID     *string    `db:"booking_id"`
	Price         int64      `db:"price"`
	Currency      string     `db:"currency"`
	Status        string     `db:"status"`
	Barcode       string     `db:"barcode"`
	QRCode        string     `db:"qr_code"`
	TransferToken *string    `db:"transfer_token"`
	ReservedAt    *time.Time `db:"reserved_at"`
	ReservedUntil *time.Time `db:"reserved_until"`
	ScannedAt     *time.Time `db:"scanned_at"`
	IssuedAt      time.Time  `db:"issued_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	Version       int        `db:"version"`
}

func (r *ticketRow) toEntity() *ticket.Ticket {
	t := &ticket.Ticket{
		ID:            r.ID,
		TenantID:      r.TenantID,
		EventID:       r.EventID,
		EventSeatID:   r.EventSeatID,
		TicketNumber:  r.TicketNumber,
		BookingID:     r.BookingID,
		Price:         r.Price,
		Currency:      r.Currency,
		Status:        ticket.Status(r.Status),
		Barcode:       r.Barcode,
		QRCode:        r.QRCode,
		TransferToken: r.TransferToken,
		ReservedAt:    r.ReservedAt,
		ReservedUntil: r.ReservedUntil,
		ScannedAt:     r.ScannedAt,
		IssuedAt:      r.IssuedAt,
	}
	t.CreatedAt = r.CreatedAt
	t.UpdatedAt = r.UpdatedAt
	t.Version = r.Version
	return t
}

const ticketColumns = `id, tenant_id, event_id, event_seat_id, ticket_number, booking_id, price, currency, status, barcode, qr_code, transfer_token, reserved_at, reserved_until, scanned_at, issued_at, created_at, updated_at, version`

// TicketRepository はチケットリポジトリのPostgreSQL実装
type TicketRepository struct{ db *sqlx.DB }

// NewTicketRepository は TicketRepository を作成する
func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketInsert = `INSERT INTO tickets (id, tenant_id, event_id, event_seat_id, ticket_number, booking_id, price, currency, status, barcode, qr_code, transfer_token, reserved_at, reserved_until, scanned_at, issued_at, created_at, updated_at, version) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

// Create は新しいチケットを作成する
// IDはエンティティ側で採番済み
func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if _, err := r.db.ExecContext(ctx, ticketInsert, ticketArgs(t)...); err != nil {
		return fmt.Errorf("チケット作成に失敗: %w", err)
	}
	return nil
}

// CreateBulk は複数のチケットを一括作成する
func (r *TicketRepository) CreateBulk(ctx context.Context, tx transaction.Tx, tickets []*ticket.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが必要です")
	}
	for _, t := range tickets {
		if _, err := sqlxTx.ExecContext(ctx, ticketInsert, ticketArgs(t)...); err != nil {
			return fmt.Errorf("チケット一括作成に失敗: %w", err)
		}
	}
	return nil
}

func ticketArgs(t *ticket.Ticket) []interface{} {
	return []interface{}{
		t.ID, t.TenantID, t.EventID, t.EventSeatID, t.TicketNumber, t.BookingID,
		t.Price, t.Currency, string(t.Status), t.Barcode, t.QRCode, t.TransferToken,
		t.ReservedAt, t.ReservedUntil, t.ScannedAt, t.IssuedAt,
		t.CreatedAt, t.UpdatedAt, t.Version,
	}
}

// GetByID はIDからチケットを取得する
func (r *TicketRepository) GetByID(ctx context.Context, tenantID, id string) (*ticket.Ticket, error) {
	var row ticketRow
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE tenant_id = $1 AND id = $2`
	if err := r.db.GetContext(ctx, &row, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("チケット取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByBookingID は注文に紐づくチケット一覧を取得する
func (r *TicketRepository) GetByBookingID(ctx context.Context, tenantID, bookingID string) ([]*ticket.Ticket, error) {
	var rows []ticketRow
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE tenant_id = $1 AND booking_id = $2 ORDER BY ticket_number`
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, bookingID); err != nil {
		return nil, fmt.Errorf("チケット一覧取得に失敗: %w", err)
	}
	tickets := make([]*ticket.Ticket, len(rows))
	for i, row := range rows {
		tickets[i] = row.toEntity()
	}
	return tickets, nil
}

// Update はチケットを更新する
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	query := `
		UPDATE tickets
		SET booking_id = $1, status = $2, transfer_token = $3, reserved_at = $4,
		    reserved_until = $5, scanned_at = $6, updated_at = $7, version = version + 1
		WHERE tenant_id = $8 AND id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		t.BookingID, string(t.Status), t.TransferToken, t.ReservedAt,
		t.ReservedUntil, t.ScannedAt, t.UpdatedAt, t.TenantID, t.ID,
	)
	if err != nil {
		return fmt.Errorf("チケット更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ticket.ErrTicketNotFound
	}
	t.Version++
	return nil
}

var _ ticket.Repository = (*TicketRepository)(nil)
