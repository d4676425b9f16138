package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/booking"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/eventseat"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/payment"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/sequence"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/ticket"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-ticketing-settlement/internal/infrastructure/redis"
	"github.com/sanosuguru/go-ticketing-settlement/internal/pkg/logger"
)

const (
	ticketNumberDigits = 8
	seatLockTTL        = 10 * time.Second
)

// BookingService は注文の作成・更新・キャンセルを担うサービス
type BookingService struct {
	txManager    transaction.Manager
	bookingRepo  booking.Repository
	paymentRepo  payment.Repository
	seatRepo     eventseat.Repository
	ticketRepo   ticket.Repository
	sequenceRepo sequence.Repository
	lockManager  *redisinfra.LockManager
	cache        *redisinfra.SeatCache
}

// NewBookingService は新しい BookingService を作成する
func NewBookingService(
	tm transaction.Manager,
	br booking.Repository,
	pr payment.Repository,
	sr eventseat.Repository,
	tr ticket.Repository,
	qr sequence.Repository,
	lm *redisinfra.LockManager,
	cache *redisinfra.SeatCache,
) *BookingService {
	return &BookingService{
		txManager:    tm,
		bookingRepo:  br,
		paymentRepo:  pr,
		seatRepo:     sr,
		ticketRepo:   tr,
		sequenceRepo: qr,
		lockManager:  lm,
		cache:        cache,
	}
}

// CreateBookingInput は注文作成の入力
type CreateBookingInput struct {
	EventID       string
	SeatIDs       []string
	CustomerID    *string
	SalespersonID *string
	DiscountType  *booking.DiscountType
	DiscountValue *float64
	TaxRate       float64
	Currency      string
	ReservedUntil *time.Time
}

// CreateBooking は座席を仮押さえして注文を作成する
// 競合する座席取得を直列化するため、ソート済み座席キーで分散ロックを取る
func (s *BookingService) CreateBooking(ctx context.Context, tenantID string, input CreateBookingInput) (*booking.Booking, error) {
	if len(input.SeatIDs) == 0 {
		return nil, booking.ErrItemsRequired
	}

	if s.lockManager != nil {
		lockKey := s.buildSeatLockKey(tenantID, input.SeatIDs)
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, lockKey, seatLockTTL, 3, 100*time.Millisecond)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				return nil, eventseat.ErrSeatAlreadyReserved
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	// 座席の存在と空き状況を確認し、位置と価格をスナップショットする
	seats, err := s.seatRepo.GetByEventID(ctx, tenantID, input.EventID)
	if err != nil {
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	seatMap := make(map[string]*eventseat.Seat)
	for _, se := range seats {
		seatMap[se.ID] = se
	}

	items := make([]booking.Item, 0, len(input.SeatIDs))
	tickets := make([]*ticket.Ticket, 0, len(input.SeatIDs))
	for _, id := range input.SeatIDs {
		se, ok := seatMap[id]
		if !ok {
			return nil, eventseat.ErrSeatNotFound
		}
		if !se.IsAvailable() {
			return nil, eventseat.ErrSeatAlreadyReserved
		}

		number, err := s.sequenceRepo.NextValue(ctx, tenantID, "TICKET", "T", ticketNumberDigits)
		if err != nil {
			return nil, fmt.Errorf("チケット番号の採番に失敗: %w", err)
		}
		t := ticket.NewTicket(tenantID, input.EventID, se.ID, number, input.Currency, se.Price)

		section, row, seatNumber := se.Position()
		items = append(items, booking.Item{
			EventSeatID:  se.ID,
			TicketID:     &t.ID,
			SectionName:  section,
			RowName:      row,
			SeatNumber:   seatNumber,
			UnitPrice:    se.Price,
			TotalPrice:   se.Price,
			TicketNumber: &t.TicketNumber,
		})
		tickets = append(tickets, t)
	}

	b := booking.NewBooking(tenantID, input.EventID, input.Currency, items, booking.Options{
		CustomerID:    input.CustomerID,
		SalespersonID: input.SalespersonID,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		TaxRate:       input.TaxRate,
		ReservedUntil: input.ReservedUntil,
	})
	if err := b.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.bookingRepo.Create(ctx, tx, b); err != nil {
		return nil, err
	}
	for _, t := range tickets {
		if err := t.Reserve(b.ID, input.ReservedUntil); err != nil {
			return nil, err
		}
	}
	if err := s.ticketRepo.CreateBulk(ctx, tx, tickets); err != nil {
		return nil, err
	}
	if err := s.seatRepo.ReserveSeats(ctx, tx, tenantID, input.SeatIDs, b.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCache(ctx, tenantID, input.EventID)
	return b, nil
}

// buildSeatLockKey は座席IDからロックキーを生成（ソートしてデッドロック防止）
func (s *BookingService) buildSeatLockKey(tenantID string, seatIDs []string) string {
	sorted := make([]string, len(seatIDs))
	copy(sorted, seatIDs)
	sort.Strings(sorted)
	return "seats:" + tenantID + ":" + strings.Join(sorted, ",")
}

// GetBooking はIDから注文を取得する
func (s *BookingService) GetBooking(ctx context.Context, tenantID, id string) (*booking.Booking, error) {
	return s.bookingRepo.GetByID(ctx, tenantID, id)
}

// ListBookingsByEvent はイベントの注文一覧を取得する
func (s *BookingService) ListBookingsByEvent(ctx context.Context, tenantID, eventID string, limit, offset int) ([]*booking.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookingRepo.ListByEvent(ctx, tenantID, eventID, limit, offset)
}

// UpdateBooking は注文の指定されたフィールドのみを更新する
func (s *BookingService) UpdateBooking(ctx context.Context, tenantID, id string, input booking.UpdateInput) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := b.UpdateDetails(input); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// CancelBooking は注文をキャンセルし、座席を解放してチケットを無効化する
// 入金済みの決済が残っている場合は先に決済を取り消す必要がある
func (s *BookingService) CancelBooking(ctx context.Context, tenantID, id, reason string) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.GetByBookingID(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("決済一覧取得に失敗: %w", err)
	}
	for _, p := range payments {
		if p.IsPaid() {
			return nil, payment.ErrPaymentAlreadyPaid
		}
	}

	if err := b.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.releaseBooking(ctx, tenantID, b); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, tenantID, b.EventID)
	return b, nil
}

// ReleaseExpiredBookings は仮押さえ期限切れの注文を解放する
// ワーカーから定期的に呼び出される。解放した件数を返す
func (s *BookingService) ReleaseExpiredBookings(ctx context.Context) (int, error) {
	expired, err := s.bookingRepo.GetExpiredReserved(ctx)
	if err != nil {
		return 0, fmt.Errorf("期限切れ注文の取得に失敗: %w", err)
	}

	released := 0
	for _, b := range expired {
		payments, err := s.paymentRepo.GetByBookingID(ctx, b.TenantID, b.ID)
		if err != nil {
			logger.Warn("期限切れ注文の決済確認に失敗",
				zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		if sumPaid(payments) > 0 {
			// 入金がある注文は期限切れでも自動解放しない
			continue
		}
		if err := b.Cancel("仮押さえ期限切れ"); err != nil {
			logger.Warn("期限切れ注文のキャンセルに失敗",
				zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		if err := s.releaseBooking(ctx, b.TenantID, b); err != nil {
			logger.Warn("期限切れ注文の解放に失敗",
				zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		s.invalidateCache(ctx, b.TenantID, b.EventID)
		released++
	}
	return released, nil
}

// releaseBooking はキャンセル済み注文を永続化し、座席を解放して
// チケットを無効化する。注文→座席の順で永続化する。注文だけが
// キャンセルされた状態は座席解放の再実行で回復できるが、逆は
// 解放済み座席を有効な注文が掴んだままになるため順序を入れ替えないこと
func (s *BookingService) releaseBooking(ctx context.Context, tenantID string, b *booking.Booking) error {
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return err
	}

	seatIDs := make([]string, 0, len(b.Items))
	for _, item := range b.Items {
		seatIDs = append(seatIDs, item.EventSeatID)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.seatRepo.ReleaseSeats(ctx, tx, tenantID, seatIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	// チケット無効化は座席解放の後段で行い、個々の失敗はログに残して続行する
	tickets, err := s.ticketRepo.GetByBookingID(ctx, tenantID, b.ID)
	if err != nil {
		logger.Warn("チケット取得に失敗", zap.String("booking_id", b.ID), zap.Error(err))
		return nil
	}
	for _, t := range tickets {
		if err := t.Cancel(); err != nil {
			logger.Warn("チケット無効化をスキップ",
				zap.String("ticket_id", t.ID), zap.Error(err))
			continue
		}
		if err := s.ticketRepo.Update(ctx, t); err != nil {
			logger.Warn("チケット更新に失敗",
				zap.String("ticket_id", t.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *BookingService) invalidateCache(ctx context.Context, tenantID, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tenantID, eventID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}
