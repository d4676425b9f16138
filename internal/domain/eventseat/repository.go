package eventseat

import (
	"context"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/transaction"
)

// Repository は座席在庫リポジトリのインターフェース
// すべての読み書きはテナントIDで絞り込むこと
type Repository interface {
	// Create は新しい座席を作成する
	Create(ctx context.Context, s *Seat) error

	// CreateBulk は複数の座席を一括作成する
	CreateBulk(ctx context.Context, seats []*Seat) error

	// GetByID はIDから座席を取得する
	GetByID(ctx context.Context, tenantID, id string) (*Seat, error)

	// GetByEventID はイベントの座席一覧を取得する
	GetByEventID(ctx context.Context, tenantID, eventID string) ([]*Seat, error)

	// CountAvailableByEventID はイベントの販売可能座席数を取得する
	CountAvailableByEventID(ctx context.Context, tenantID, eventID string) (int, error)

	// ReserveSeats は座席を仮押さえ状態に更新する（トランザクション必須）
	ReserveSeats(ctx context.Context, tx transaction.Tx, tenantID string, seatIDs []string, bookingID string) error

	// ReleaseSeats は仮押さえを解放する（トランザクション必須）
	ReleaseSeats(ctx context.Context, tx transaction.Tx, tenantID string, seatIDs []string) error

	// Update は座席を更新する
	Update(ctx context.Context, s *Seat) error
}
