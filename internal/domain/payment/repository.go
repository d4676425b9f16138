package payment

import "context"

// Repository は決済リポジトリのインターフェース
// すべての読み書きはテナントIDで絞り込むこと
type Repository interface {
	// Create は新しい決済を作成する
	Create(ctx context.Context, p *Payment) error

	// GetByID はIDから決済を取得する
	GetByID(ctx context.Context, tenantID, id string) (*Payment, error)

	// GetByBookingID は注文に紐づく決済一覧を取得する
	GetByBookingID(ctx context.Context, tenantID, bookingID string) ([]*Payment, error)

	// Update は決済を更新する
	Update(ctx context.Context, p *Payment) error
}
