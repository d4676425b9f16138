package eventseat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSeat() *Seat {
	return NewSeatFromPosition("tenant-1", "event-1", "A", "1", "12", 5000)
}

func TestSeat_Validate(t *testing.T) {
	t.Run("位置指定は有効", func(t *testing.T) {
		s := createTestSeat()
		require.NoError(t, s.Validate())
	})

	t.Run("レイアウト参照は有効", func(t *testing.T) {
		s := NewSeatFromLayout("tenant-1", "event-1", "layout-seat-1", 5000)
		require.NoError(t, s.Validate())
	})

	t.Run("両方指定は曖昧", func(t *testing.T) {
		s := createTestSeat()
		layout := "layout-seat-1"
		s.SeatID = &layout
		assert.ErrorIs(t, s.Validate(), ErrAmbiguousIdentification)
	})

	t.Run("どちらも未指定は曖昧", func(t *testing.T) {
		s := &Seat{TenantID: "tenant-1", EventID: "event-1", Price: 5000}
		assert.ErrorIs(t, s.Validate(), ErrAmbiguousIdentification)
	})

	t.Run("テナントID未指定", func(t *testing.T) {
		s := createTestSeat()
		s.TenantID = ""
		assert.ErrorIs(t, s.Validate(), ErrTenantIDRequired)
	})

	t.Run("価格が負", func(t *testing.T) {
		s := createTestSeat()
		s.Price = -1
		assert.ErrorIs(t, s.Validate(), ErrInvalidPrice)
	})
}

func TestSeat_Reserve(t *testing.T) {
	t.Run("予約可能から仮押さえ", func(t *testing.T) {
		s := createTestSeat()
		require.NoError(t, s.Reserve("booking-1"))
		assert.Equal(t, StatusReserved, s.Status)
		require.NotNil(t, s.ReservedBy)
		assert.Equal(t, "booking-1", *s.ReservedBy)
		assert.NotNil(t, s.ReservedAt)
	})

	t.Run("仮押さえ済みは再予約不可", func(t *testing.T) {
		s := createTestSeat()
		require.NoError(t, s.Reserve("booking-1"))
		assert.ErrorIs(t, s.Reserve("booking-2"), ErrSeatNotAvailable)
	})
}

func TestSeat_Release(t *testing.T) {
	t.Run("仮押さえを解放", func(t *testing.T) {
		s := createTestSeat()
		require.NoError(t, s.Reserve("booking-1"))
		s.Release()
		assert.Equal(t, StatusAvailable, s.Status)
		assert.Nil(t, s.ReservedBy)
		assert.Nil(t, s.ReservedAt)
	})

	t.Run("販売済みには触れない", func(t *testing.T) {
		s := createTestSeat()
		require.NoError(t, s.Sell("T00000001"))
		s.Release()
		assert.Equal(t, StatusSold, s.Status)
	})
}

func TestSeat_Sell(t *testing.T) {
	t.Run("予約可能から販売", func(t *testing.T) {
		s := createTestSeat()
		require.NoError(t, s.Sell("T00000001"))
		assert.Equal(t, StatusSold, s.Status)
		require.NotNil(t, s.TicketCode)
		assert.Equal(t, "T00000001", *s.TicketCode)
	})

	t.Run("仮押さえから販売", func(t *testing.T) {
		s := createTestSeat()
		require.NoError(t, s.Reserve("booking-1"))
		require.NoError(t, s.Sell("T00000001"))
		assert.Equal(t, StatusSold, s.Status)
	})

	t.Run("チケットコードなしでも販売できる", func(t *testing.T) {
		s := createTestSeat()
		require.NoError(t, s.Sell(""))
		assert.Equal(t, StatusSold, s.Status)
		assert.Nil(t, s.TicketCode)
	})

	t.Run("販売済みは再販売不可", func(t *testing.T) {
		s := createTestSeat()
		require.NoError(t, s.Sell("T00000001"))
		assert.ErrorIs(t, s.Sell("T00000002"), ErrSeatNotSellable)
	})

	t.Run("販売停止中は販売不可", func(t *testing.T) {
		s := createTestSeat()
		s.Block()
		assert.ErrorIs(t, s.Sell("T00000001"), ErrSeatNotSellable)
	})
}

func TestSeat_HoldAndBlock(t *testing.T) {
	// 管理用の上書き操作は状態を問わず適用できる
	t.Run("販売済みでも保留にできる", func(t *testing.T) {
		s := createTestSeat()
		require.NoError(t, s.Sell("T00000001"))
		s.Hold()
		assert.Equal(t, StatusHeld, s.Status)
	})

	t.Run("仮押さえ中でも販売停止にできる", func(t *testing.T) {
		s := createTestSeat()
		require.NoError(t, s.Reserve("booking-1"))
		s.Block()
		assert.Equal(t, StatusBlocked, s.Status)
	})
}
