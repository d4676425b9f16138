package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/payment"
)

type paymentRow struct {
	ID                   string     `db:"id"`
	TenantID             string     `db:"tenant_id"`
	BookingID            string     `db:"booking_id"`
	PaymentCode          string     `db:"payment_code"`
	Amount               int64      `db:"amount"`
	Currency             string     `db:"currency"`
	PaymentMethod        string     `db:"payment_method"`
	TransactionReference *string    `db:"transaction_reference"`
	Notes                *string    `db:"notes"`
	Status               string     `db:"status"`
	ProcessedAt          *time.Time `db:"processed_at"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
	Version              int        `db:"version"`
}

func (r *paymentRow) toEntity() *payment.Payment {
	p := &payment.Payment{
		ID:                   r.ID,
		TenantID:             r.TenantID,
		BookingID:            r.BookingID,
		PaymentCode:          r.PaymentCode,
		Amount:               r.Amount,
		Currency:             r.Currency,
		PaymentMethod:        r.PaymentMethod,
		TransactionReference: r.TransactionReference,
		Notes:                r.Notes,
		Status:               payment.Status(r.Status),
		ProcessedAt:          r.ProcessedAt,
	}
	p.CreatedAt = r.CreatedAt
	p.UpdatedAt = r.UpdatedAt
	p.Version = r.Version
	return p
}

const paymentColumns = `id, tenant_id, booking_id, payment_code, amount, currency, payment_method, transaction_reference, notes, status, processed_at, created_at, updated_at, version`

// PaymentRepository は決済リポジトリのPostgreSQL実装
type PaymentRepository struct{ db *sqlx.DB }

// NewPaymentRepository は PaymentRepository を作成する
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create は新しい決済を作成する
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (tenant_id, booking_id, payment_code, amount, currency, payment_method, transaction_reference, notes, status, processed_at, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		p.TenantID, p.BookingID, p.PaymentCode, p.Amount, p.Currency,
		p.PaymentMethod, p.TransactionReference, p.Notes, string(p.Status),
		p.ProcessedAt, p.CreatedAt, p.UpdatedAt, p.Version,
	).Scan(&p.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return payment.ErrDuplicatePaymentCode
		}
		return fmt.Errorf("決済作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDから決済を取得する
func (r *PaymentRepository) GetByID(ctx context.Context, tenantID, id string) (*payment.Payment, error) {
	var row paymentRow
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND id = $2`
	if err := r.db.GetContext(ctx, &row, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("決済取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByBookingID は注文に紐づく決済一覧を取得する
func (r *PaymentRepository) GetByBookingID(ctx context.Context, tenantID, bookingID string) ([]*payment.Payment, error) {
	var rows []paymentRow
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND booking_id = $2 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, bookingID); err != nil {
		return nil, fmt.Errorf("決済一覧取得に失敗: %w", err)
	}
	payments := make([]*payment.Payment, len(rows))
	for i, row := range rows {
		payments[i] = row.toEntity()
	}
	return payments, nil
}

// Update は決済を更新する
func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	query := `
		UPDATE payments
		SET status = $1, transaction_reference = $2, notes = $3, processed_at = $4,
		    updated_at = $5, version = version + 1
		WHERE tenant_id = $6 AND id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		string(p.Status), p.TransactionReference, p.Notes, p.ProcessedAt,
		p.UpdatedAt, p.TenantID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("決済更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return payment.ErrPaymentNotFound
	}
	p.Version++
	return nil
}

var _ payment.Repository = (*PaymentRepository)(nil)
