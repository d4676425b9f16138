package eventseat

import "github.com/sanosuguru/go-ticketing-settlement/internal/domain/apperror"

// EventSeat ドメインのエラー定義
var (
	ErrSeatNotFound            = apperror.NotFound("座席が見つかりません")
	ErrSeatNotAvailable        = apperror.Conflict("座席は予約できません")
	ErrSeatNotSellable         = apperror.Conflict("座席は販売できる状態ではありません")
	ErrSeatAlreadyReserved     = apperror.Conflict("座席は既に予約されています")
	ErrAmbiguousIdentification = apperror.Validation("座席の識別方式はレイアウト参照か位置指定のどちらか一方のみ設定できます")
	ErrTenantIDRequired        = apperror.Validation("テナントIDは必須です")
	ErrEventIDRequired         = apperror.Validation("イベントIDは必須です")
	ErrInvalidPrice            = apperror.Validation("価格は0以上である必要があります")
)
