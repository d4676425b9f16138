package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/ticket"
)

const qrImageSize = 256

// TicketService はチケットの照会・入場・譲渡を担うサービス
type TicketService struct {
	ticketRepo ticket.Repository
}

// NewTicketService は新しい TicketService を作成する
func NewTicketService(tr ticket.Repository) *TicketService {
	return &TicketService{ticketRepo: tr}
}

// GetTicket はIDからチケットを取得する
func (s *TicketService) GetTicket(ctx context.Context, tenantID, id string) (*ticket.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, tenantID, id)
}

// GetBookingTickets は注文に紐づくチケット一覧を取得する
func (s *TicketService) GetBookingTickets(ctx context.Context, tenantID, bookingID string) ([]*ticket.Ticket, error) {
	return s.ticketRepo.GetByBookingID(ctx, tenantID, bookingID)
}

// ScanTicket はチケットを入場済みにする
func (s *TicketService) ScanTicket(ctx context.Context, tenantID, id string) (*ticket.Ticket, error) {
	t, err := s.ticketRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := t.MarkAsUsed(); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// TransferTicket はチケットを譲渡し、新しい譲渡トークンを発行する
func (s *TicketService) TransferTicket(ctx context.Context, tenantID, id string) (*ticket.Ticket, error) {
	t, err := s.ticketRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := t.Transfer(uuid.New().String()); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// CancelTicket はチケットを無効化する
func (s *TicketService) CancelTicket(ctx context.Context, tenantID, id string) (*ticket.Ticket, error) {
	t, err := s.ticketRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := t.Cancel(); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// RenderQRCode はチケットのQRコードをPNG画像として描画する
func (s *TicketService) RenderQRCode(ctx context.Context, tenantID, id string) ([]byte, error) {
	t, err := s.ticketRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(t.QRCode, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("QRコード生成に失敗: %w", err)
	}
	return png, nil
}
