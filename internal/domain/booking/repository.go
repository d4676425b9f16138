package booking

import (
	"context"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/transaction"
)

// Repository は注文リポジトリのインターフェース
// すべての読み書きはテナントIDで絞り込むこと
type Repository interface {
	// Create は新しい注文を明細とともに作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByID はIDから注文を取得する
	GetByID(ctx context.Context, tenantID, id string) (*Booking, error)

	// Update は注文を更新する（楽観的ロック）
	Update(ctx context.Context, b *Booking) error

	// ListByEvent はイベントの注文一覧を取得する
	ListByEvent(ctx context.Context, tenantID, eventID string, limit, offset int) ([]*Booking, error)

	// GetExpiredReserved は仮押さえ期限切れの注文を取得する
	GetExpiredReserved(ctx context.Context) ([]*Booking, error)
}
