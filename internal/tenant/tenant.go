package tenant

import (
	"context"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/apperror"
)

// ErrTenantRequired はテナントIDが未指定の場合のエラー
var ErrTenantRequired = apperror.Validation("テナントIDは必須です")

type contextKey struct{}

// WithTenant はコンテキストにテナントIDを設定する
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, contextKey{}, tenantID)
}

// FromContext はコンテキストからテナントIDを取得する
// 未設定の場合は ErrTenantRequired を返す
func FromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(contextKey{}).(string)
	if !ok || id == "" {
		return "", ErrTenantRequired
	}
	return id, nil
}
