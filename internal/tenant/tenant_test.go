package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("設定済みのテナントIDを取得できる", func(t *testing.T) {
		ctx := WithTenant(context.Background(), "tenant-1")
		id, err := FromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tenant-1", id)
	})

	t.Run("未設定はエラー", func(t *testing.T) {
		_, err := FromContext(context.Background())
		assert.ErrorIs(t, err, ErrTenantRequired)
	})

	t.Run("空文字はエラー", func(t *testing.T) {
		ctx := WithTenant(context.Background(), "")
		_, err := FromContext(ctx)
		assert.ErrorIs(t, err, ErrTenantRequired)
	})
}
