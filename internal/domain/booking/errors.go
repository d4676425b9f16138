package booking

import "github.com/sanosuguru/go-ticketing-settlement/internal/domain/apperror"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound            = apperror.NotFound("注文が見つかりません")
	ErrBookingNotPending          = apperror.Conflict("注文は保留中ではありません")
	ErrBookingAlreadyCancelled    = apperror.Conflict("注文は既にキャンセルされています")
	ErrBookingNotPayable          = apperror.Conflict("この状態の注文は決済を受け付けられません")
	ErrCancellationReasonRequired = apperror.Validation("キャンセル理由は必須です")
	ErrTenantIDRequired           = apperror.Validation("テナントIDは必須です")
	ErrEventIDRequired            = apperror.Validation("イベントIDは必須です")
	ErrCurrencyRequired           = apperror.Validation("通貨は必須です")
	ErrItemsRequired              = apperror.Validation("注文明細は1件以上必要です")
	ErrItemSeatRequired           = apperror.Validation("注文明細には座席IDが必要です")
	ErrInvalidItemPrice           = apperror.Validation("明細金額は0以上である必要があります")
	ErrInvalidDiscount            = apperror.Validation("割引額が小計を超えています")
	ErrVersionConflict            = apperror.Conflict("楽観的ロックの競合が発生しました")
)
