package apperror

import "errors"

// Kind はエラーの分類を表す
// HTTPレイヤーでのステータスコード変換に使用される
type Kind int

const (
	// KindValidation は入力値の不備（クライアントエラー）
	KindValidation Kind = iota + 1
	// KindNotFound は参照先エンティティの不在
	KindNotFound
	// KindConflict はドメイン不変条件への違反（競合）
	KindConflict
)

// Error は分類付きのドメインエラー
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Kind はエラーの分類を返す
func (e *Error) Kind() Kind {
	return e.kind
}

// Validation はバリデーションエラーを作成する
func Validation(msg string) *Error {
	return &Error{kind: KindValidation, msg: msg}
}

// NotFound は未検出エラーを作成する
func NotFound(msg string) *Error {
	return &Error{kind: KindNotFound, msg: msg}
}

// Conflict はビジネスルール違反エラーを作成する
func Conflict(msg string) *Error {
	return &Error{kind: KindConflict, msg: msg}
}

// KindOf はエラーチェーンから分類を取り出す
// 分類付きエラーが含まれない場合は 0 を返す
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return 0
}
