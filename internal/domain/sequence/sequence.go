package sequence

import (
	"context"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/apperror"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/audit"
)

// Sequence 採番のエラー定義
var (
	ErrSequenceTypeRequired = apperror.Validation("採番種別は必須です")
	ErrInvalidDigits        = apperror.Validation("桁数は1以上である必要があります")
)

// Sequence はテナント・種別ごとの単調増加カウンターを表す
// 人間可読な業務コード（決済コード等）の採番に使用する
type Sequence struct {
	ID           string
	TenantID     string
	SequenceType string // 大文字に正規化して保存する
	Prefix       string
	Digits       int
	CurrentValue int64

	audit.Entity
}

// Repository は採番リポジトリのインターフェース
type Repository interface {
	// NextValue は (tenantID, sequenceType) のカウンターを排他ロック下で
	// 加算し、整形済みコードを返す。同一キーへの並行呼び出しが同じ値を
	// 受け取ることはない。行が存在しない場合は同一ロック内で作成する
	NextValue(ctx context.Context, tenantID, sequenceType, prefix string, digits int) (string, error)
}
