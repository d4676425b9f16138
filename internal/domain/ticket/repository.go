package ticket

import (
	"context"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/transaction"
)

// Repository はチケットリポジトリのインターフェース
// すべての読み書きはテナントIDで絞り込むこと
type Repository interface {
	// Create は新しいチケットを作成する
	Create(ctx context.Context, t *Ticket) error

	// CreateBulk は複数のチケットを一括作成する（トランザクション必須）
	CreateBulk(ctx context.Context, tx transaction.Tx, tickets []*Ticket) error

	// GetByID はIDからチケットを取得する
	GetByID(ctx context.Context, tenantID, id string) (*Ticket, error)

	// GetByBookingID は注文に紐づくチケット一覧を取得する
	GetByBookingID(ctx context.Context, tenantID, bookingID string) ([]*Ticket, error)

	// Update はチケットを更新する
	Update(ctx context.Context, t *Ticket) error
}
