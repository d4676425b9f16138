package ticket

import "github.com/sanosuguru/go-ticketing-settlement/internal/domain/apperror"

// Ticket ドメインのエラー定義
var (
	ErrTicketNotFound         = apperror.NotFound("チケットが見つかりません")
	ErrTicketNotAvailable     = apperror.Conflict("チケットは発行可能な状態ではありません")
	ErrTicketNotReserved      = apperror.Conflict("チケットは仮押さえ状態ではありません")
	ErrTicketNotConfirmed     = apperror.Conflict("チケットは確定状態ではありません")
	ErrTicketAlreadyUsed      = apperror.Conflict("チケットは既に入場済みです")
	ErrTicketAlreadyCancelled = apperror.Conflict("チケットは既にキャンセルされています")
	ErrTransferTokenRequired  = apperror.Validation("譲渡トークンは必須です")
	ErrTenantIDRequired       = apperror.Validation("テナントIDは必須です")
	ErrEventIDRequired        = apperror.Validation("イベントIDは必須です")
	ErrEventSeatIDRequired    = apperror.Validation("イベント座席IDは必須です")
	ErrTicketNumberRequired   = apperror.Validation("チケット番号は必須です")
	ErrInvalidPrice           = apperror.Validation("価格は0以上である必要があります")
)
