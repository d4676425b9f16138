package payment

import "github.com/sanosuguru/go-ticketing-settlement/internal/domain/apperror"

// Payment ドメインのエラー定義
var (
	ErrPaymentNotFound         = apperror.NotFound("決済が見つかりません")
	ErrPaymentAlreadyCancelled = apperror.Conflict("決済は既に取消済みです")
	ErrPaymentAlreadyRefunded  = apperror.Conflict("決済は既に返金済みです")
	ErrPaymentAlreadyPaid      = apperror.Conflict("入金済みの決済は失敗に遷移できません")
	ErrPaymentNotPaid          = apperror.Conflict("入金済みでない決済は返金できません")
	ErrInvalidAmount           = apperror.Validation("決済金額は0より大きい必要があります")
	ErrAmountExceedsBalance    = apperror.Conflict("決済金額が残高を超えています")
	ErrDuplicatePaymentCode    = apperror.Conflict("決済コードが重複しています")
	ErrTenantIDRequired        = apperror.Validation("テナントIDは必須です")
	ErrBookingIDRequired       = apperror.Validation("注文IDは必須です")
	ErrPaymentMethodRequired   = apperror.Validation("決済方法は必須です")
)
