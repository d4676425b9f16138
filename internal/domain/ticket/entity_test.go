package ticket

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTicket() *Ticket {
	return NewTicket("tenant-1", "event-1", "seat-1", "T00000001", "JPY", 5000)
}

func TestNewTicket(t *testing.T) {
	tk := createTestTicket()

	assert.NotEmpty(t, tk.ID)
	assert.Equal(t, StatusAvailable, tk.Status)
	assert.True(t, strings.HasPrefix(tk.Barcode, "TKT-"))
	assert.NotContains(t, tk.Barcode, "-", "バーコード本体にハイフンを含まない")
	assert.Equal(t, "TICKET:"+tk.ID, tk.QRCode)
	require.NoError(t, tk.Validate())
}

func TestNewTicket_BarcodeFormat(t *testing.T) {
	tk := createTestTicket()
	body := strings.TrimPrefix(tk.Barcode, "TKT-")
	assert.Equal(t, strings.ToUpper(body), body)
	assert.Len(t, body, 32) // UUIDからハイフンを除いた長さ
}

func TestTicket_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Ticket)
		errExpected error
	}{
		{name: "テナントID未指定", mutate: func(tk *Ticket) { tk.TenantID = "" }, errExpected: ErrTenantIDRequired},
		{name: "イベントID未指定", mutate: func(tk *Ticket) { tk.EventID = "" }, errExpected: ErrEventIDRequired},
		{name: "座席ID未指定", mutate: func(tk *Ticket) { tk.EventSeatID = "" }, errExpected: ErrEventSeatIDRequired},
		{name: "チケット番号未指定", mutate: func(tk *Ticket) { tk.TicketNumber = "" }, errExpected: ErrTicketNumberRequired},
		{name: "価格が負", mutate: func(tk *Ticket) { tk.Price = -1 }, errExpected: ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := createTestTicket()
			tt.mutate(tk)
			assert.ErrorIs(t, tk.Validate(), tt.errExpected)
		})
	}
}

func TestTicket_Reserve(t *testing.T) {
	t.Run("発行可能から仮押さえ", func(t *testing.T) {
		tk := createTestTicket()
		until := time.Now().Add(15 * time.Minute)
		require.NoError(t, tk.Reserve("booking-1", &until))
		assert.Equal(t, StatusReserved, tk.Status)
		require.NotNil(t, tk.BookingID)
		assert.Equal(t, "booking-1", *tk.BookingID)
		assert.NotNil(t, tk.ReservedAt)
	})

	t.Run("仮押さえ済みは再予約不可", func(t *testing.T) {
		tk := createTestTicket()
		require.NoError(t, tk.Reserve("booking-1", nil))
		assert.ErrorIs(t, tk.Reserve("booking-2", nil), ErrTicketNotAvailable)
	})
}

func TestTicket_Confirm(t *testing.T) {
	t.Run("仮押さえから確定", func(t *testing.T) {
		tk := createTestTicket()
		require.NoError(t, tk.Reserve("booking-1", nil))
		require.NoError(t, tk.Confirm())
		assert.Equal(t, StatusConfirmed, tk.Status)
	})

	t.Run("仮押さえでないチケットは確定不可", func(t *testing.T) {
		tk := createTestTicket()
		assert.ErrorIs(t, tk.Confirm(), ErrTicketNotReserved)
	})
}

func TestTicket_MarkAsUsed(t *testing.T) {
	t.Run("確定済みから入場", func(t *testing.T) {
		tk := createTestTicket()
		require.NoError(t, tk.Reserve("booking-1", nil))
		require.NoError(t, tk.Confirm())
		require.NoError(t, tk.MarkAsUsed())
		assert.Equal(t, StatusUsed, tk.Status)
		assert.NotNil(t, tk.ScannedAt)
	})

	t.Run("未確定は入場不可", func(t *testing.T) {
		tk := createTestTicket()
		assert.ErrorIs(t, tk.MarkAsUsed(), ErrTicketNotConfirmed)
	})

	t.Run("二重入場は拒否", func(t *testing.T) {
		tk := createTestTicket()
		require.NoError(t, tk.Reserve("booking-1", nil))
		require.NoError(t, tk.Confirm())
		require.NoError(t, tk.MarkAsUsed())
		assert.ErrorIs(t, tk.MarkAsUsed(), ErrTicketNotConfirmed)
	})
}

func TestTicket_Transfer(t *testing.T) {
	t.Run("確定済みから譲渡", func(t *testing.T) {
		tk := createTestTicket()
		require.NoError(t, tk.Reserve("booking-1", nil))
		require.NoError(t, tk.Confirm())
		require.NoError(t, tk.Transfer("new-token"))
		assert.Equal(t, StatusTransferred, tk.Status)
		require.NotNil(t, tk.TransferToken)
		assert.Equal(t, "new-token", *tk.TransferToken)
	})

	t.Run("トークンなしは拒否", func(t *testing.T) {
		tk := createTestTicket()
		require.NoError(t, tk.Reserve("booking-1", nil))
		require.NoError(t, tk.Confirm())
		assert.ErrorIs(t, tk.Transfer(""), ErrTransferTokenRequired)
	})

	t.Run("未確定は譲渡不可", func(t *testing.T) {
		tk := createTestTicket()
		assert.ErrorIs(t, tk.Transfer("token"), ErrTicketNotConfirmed)
	})
}

func TestTicket_Cancel(t *testing.T) {
	t.Run("仮押さえ中をキャンセル", func(t *testing.T) {
		tk := createTestTicket()
		require.NoError(t, tk.Reserve("booking-1", nil))
		require.NoError(t, tk.Cancel())
		assert.Equal(t, StatusCancelled, tk.Status)
	})

	t.Run("入場済みはキャンセル不可", func(t *testing.T) {
		tk := createTestTicket()
		require.NoError(t, tk.Reserve("booking-1", nil))
		require.NoError(t, tk.Confirm())
		require.NoError(t, tk.MarkAsUsed())
		assert.ErrorIs(t, tk.Cancel(), ErrTicketAlreadyUsed)
	})

	t.Run("二重キャンセルは拒否", func(t *testing.T) {
		tk := createTestTicket()
		require.NoError(t, tk.Cancel())
		assert.ErrorIs(t, tk.Cancel(), ErrTicketAlreadyCancelled)
	})
}
