package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "バリデーション", err: Validation("入力不正"), want: KindValidation},
		{name: "未検出", err: NotFound("見つかりません"), want: KindNotFound},
		{name: "競合", err: Conflict("競合しました"), want: KindConflict},
		{name: "ラップされていても分類を取り出せる", err: fmt.Errorf("処理失敗: %w", NotFound("x")), want: KindNotFound},
		{name: "分類なしはゼロ", err: errors.New("plain"), want: 0},
		{name: "nil", err: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestError_SentinelComparison(t *testing.T) {
	// パッケージ変数として定義したセンチネルは errors.Is で同一比較できる
	sentinel := Conflict("既に存在します")
	wrapped := fmt.Errorf("保存失敗: %w", sentinel)
	assert.ErrorIs(t, wrapped, sentinel)
	assert.Equal(t, "既に存在します", sentinel.Error())
}
