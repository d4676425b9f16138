package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/eventseat"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/transaction"
)

type eventSeatRow struct {
	ID          string     `db:"id"`
	TenantID    string     `db:"tenant_id"`
	EventID     string     `db:"event_id"`
	SeatID      *string    `db:"seat_id"`
	SectionName string     `db:"section_name"`
	RowName     string     `db:"row_name"`
	SeatNumber  string     `db:"seat_number"`
	Status      string     `db:"status"`
	Price       int64      `db:"price"`
	TicketCode  *string    `db:"ticket_code"`
	BrokerID    *string    `db:"broker_id"`
	Attributes  []byte     `db:"attributes"`
	ReservedBy  *string    `db:"reserved_by"`
	ReservedAt  *time.Time `db:"reserved_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	Version     int        `db:"version"`
}

func (r *eventSeatRow) toEntity() (*eventseat.Seat, error) {
	s := &eventseat.Seat{
		ID:          r.ID,
		TenantID:    r.TenantID,
		EventID:     r.EventID,
		SeatID:      r.SeatID,
		SectionName: r.SectionName,
		RowName:     r.RowName,
		SeatNumber:  r.SeatNumber,
		Status:      eventseat.Status(r.Status),
		Price:       r.Price,
		TicketCode:  r.TicketCode,
		BrokerID:    r.BrokerID,
		ReservedBy:  r.ReservedBy,
		ReservedAt:  r.ReservedAt,
	}
	if len(r.Attributes) > 0 {
		if err := json.Unmarshal(r.Attributes, &s.Attributes); err != nil {
			return nil, fmt.Errorf("座席属性の復元に失敗: %w", err)
		}
	}
	s.CreatedAt = r.CreatedAt
	s.UpdatedAt = r.UpdatedAt
	s.Version = r.Version
	return s, nil
}

func marshalAttributes(s *eventseat.Seat) ([]byte, error) {
	if s.Attributes == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(s.Attributes)
	if err != nil {
		return nil, fmt.Errorf("座席属性の保存に失敗: %w", err)
	}
	return data, nil
}

const eventSeatColumns = `id, tenant_id, event_id, seat_id, section_name, row_name, seat_number, status, price, ticket_code, broker_id, attributes, reserved_by, reserved_at, created_at, updated_at, version`

// EventSeatRepository は座席在庫リポジトリのPostgreSQL実装
type EventSeatRepository struct{ db *sqlx.DB }

// NewEventSeatRepository は EventSeatRepository を作成する
func NewEventSeatRepository(db *sqlx.DB) *EventSeatRepository {
	return &EventSeatRepository{db: db}
}

// Create は新しい座席を作成する
func (r *EventSeatRepository) Create(ctx context.Context, s *eventseat.Seat) error {
	attrs, err := marshalAttributes(s)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO event_seats (tenant_id, event_id, seat_id, section_name, row_name, seat_number, status, price, ticket_code, broker_id, attributes, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query,
		s.TenantID, s.EventID, s.SeatID, s.SectionName, s.RowName, s.SeatNumber,
		string(s.Status), s.Price, s.TicketCode, s.BrokerID, attrs,
		s.CreatedAt, s.UpdatedAt, s.Version,
	).Scan(&s.ID); err != nil {
		return fmt.Errorf("座席作成に失敗: %w", err)
	}
	return nil
}

// CreateBulk は複数の座席を一括作成する
func (r *EventSeatRepository) CreateBulk(ctx context.Context, seats []*eventseat.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	// バッチサイズごとに分割してマルチバリューINSERTを実行
	const batchSize = 1000
	for i := 0; i < len(seats); i += batchSize {
		end := i + batchSize
		if end > len(seats) {
			end = len(seats)
		}
		if err := r.createBulkBatch(ctx, seats[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *EventSeatRepository) createBulkBatch(ctx context.Context, seats []*eventseat.Seat) error {
	query := `INSERT INTO event_seats (tenant_id, event_id, seat_id, section_name, row_name, seat_number, status, price, ticket_code, broker_id, attributes, created_at, updated_at, version) VALUES `
	args := make([]interface{}, 0, len(seats)*14)
	placeholders := make([]string, 0, len(seats))

	for i, s := range seats {
		attrs, err := marshalAttributes(s)
		if err != nil {
			return err
		}
		base := i * 14
		ph := make([]string, 14)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")
		args = append(args,
			s.TenantID, s.EventID, s.SeatID, s.SectionName, s.RowName, s.SeatNumber,
			string(s.Status), s.Price, s.TicketCode, s.BrokerID, attrs,
			s.CreatedAt, s.UpdatedAt, s.Version,
		)
	}

	query += strings.Join(placeholders, ", ")
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("座席一括作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDから座席を取得する
func (r *EventSeatRepository) GetByID(ctx context.Context, tenantID, id string) (*eventseat.Seat, error) {
	var row eventSeatRow
	query := `SELECT ` + eventSeatColumns + ` FROM event_seats WHERE tenant_id = $1 AND id = $2`
	if err := r.db.GetContext(ctx, &row, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eventseat.ErrSeatNotFound
		}
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	return row.toEntity()
}

// GetByEventID はイベントの座席一覧を取得する
func (r *EventSeatRepository) GetByEventID(ctx context.Context, tenantID, eventID string) ([]*eventseat.Seat, error) {
	var rows []eventSeatRow
	query := `SELECT ` + eventSeatColumns + ` FROM event_seats WHERE tenant_id = $1 AND event_id = $2 ORDER BY section_name, row_name, seat_number`
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, eventID); err != nil {
		return nil, fmt.Errorf("座席一覧取得に失敗: %w", err)
	}
	seats := make([]*eventseat.Seat, len(rows))
	for i, row := range rows {
		s, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		seats[i] = s
	}
	return seats, nil
}

// CountAvailableByEventID はイベントの販売可能座席数を取得する
func (r *EventSeatRepository) CountAvailableByEventID(ctx context.Context, tenantID, eventID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM event_seats WHERE tenant_id = $1 AND event_id = $2 AND status = 'available'`,
		tenantID, eventID)
	return count, err
}

// ReserveSeats は座席を仮押さえ状態に更新する
// 全席が予約可能でなければ1席も更新しない
func (r *EventSeatRepository) ReserveSeats(ctx context.Context, tx transaction.Tx, tenantID string, seatIDs []string, bookingID string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが必要です")
	}
	query := `UPDATE event_seats SET status = 'reserved', reserved_by = $1, reserved_at = NOW(), updated_at = NOW(), version = version + 1 WHERE tenant_id = $2 AND id = ANY($3) AND status = 'available'`
	result, err := sqlxTx.ExecContext(ctx, query, bookingID, tenantID, pq.Array(seatIDs))
	if err != nil {
		return fmt.Errorf("座席予約に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if int(rows) != len(seatIDs) {
		return eventseat.ErrSeatAlreadyReserved
	}
	return nil
}

// ReleaseSeats は仮押さえ中の座席を解放する
// 仮押さえ状態以外の座席（販売済み・保留等）には触れない
func (r *EventSeatRepository) ReleaseSeats(ctx context.Context, tx transaction.Tx, tenantID string, seatIDs []string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが必要です")
	}
	query := `UPDATE event_seats SET status = 'available', reserved_by = NULL, reserved_at = NULL, updated_at = NOW(), version = version + 1 WHERE tenant_id = $1 AND id = ANY($2) AND status = 'reserved'`
	if _, err := sqlxTx.ExecContext(ctx, query, tenantID, pq.Array(seatIDs)); err != nil {
		return fmt.Errorf("座席解放に失敗: %w", err)
	}
	return nil
}

// Update は座席を更新する
func (r *EventSeatRepository) Update(ctx context.Context, s *eventseat.Seat) error {
	attrs, err := marshalAttributes(s)
	if err != nil {
		return err
	}
	query := `
		UPDATE event_seats
		SET status = $1, price = $2, ticket_code = $3, broker_id = $4, attributes = $5,
		    reserved_by = $6, reserved_at = $7, updated_at = $8, version = version + 1
		WHERE tenant_id = $9 AND id = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		string(s.Status), s.Price, s.TicketCode, s.BrokerID, attrs,
		s.ReservedBy, s.ReservedAt, s.UpdatedAt, s.TenantID, s.ID,
	)
	if err != nil {
		return fmt.Errorf("座席更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return eventseat.ErrSeatNotFound
	}
	s.Version++
	return nil
}

var _ eventseat.Repository = (*EventSeatRepository)(nil)
