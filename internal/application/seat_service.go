package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/eventseat"
	redisinfra "github.com/sanosuguru/go-ticketing-settlement/internal/infrastructure/redis"
	"github.com/sanosuguru/go-ticketing-settlement/internal/pkg/logger"
)

const seatCacheTTL = 30 * time.Second

// SeatService は座席在庫の作成・照会・管理操作を担うサービス
type SeatService struct {
	seatRepo eventseat.Repository
	cache    *redisinfra.SeatCache
}

// NewSeatService は新しい SeatService を作成する
func NewSeatService(sr eventseat.Repository, cache *redisinfra.SeatCache) *SeatService {
	return &SeatService{seatRepo: sr, cache: cache}
}

// CreateSeatInput は座席作成の入力
// レイアウト参照（SeatID）か位置指定のどちらか一方を設定する
type CreateSeatInput struct {
	EventID     string
	SeatID      *string
	SectionName string
	RowName     string
	SeatNumber  string
	Price       int64
	BrokerID    *string
	Attributes  map[string]string
}

// CreateSeat は新しい座席を作成する
func (s *SeatService) CreateSeat(ctx context.Context, tenantID string, input CreateSeatInput) (*eventseat.Seat, error) {
	var se *eventseat.Seat
	if input.SeatID != nil && *input.SeatID != "" {
		se = eventseat.NewSeatFromLayout(tenantID, input.EventID, *input.SeatID, input.Price)
	} else {
		se = eventseat.NewSeatFromPosition(tenantID, input.EventID, input.SectionName, input.RowName, input.SeatNumber, input.Price)
	}
	se.BrokerID = input.BrokerID
	se.Attributes = input.Attributes
	if err := se.Validate(); err != nil {
		return nil, err
	}
	if err := s.seatRepo.Create(ctx, se); err != nil {
		return nil, err
	}
	s.InvalidateCache(ctx, tenantID, input.EventID)
	return se, nil
}

// CreateBulkSeatsInput は座席一括作成の入力
type CreateBulkSeatsInput struct {
	EventID     string
	SectionName string
	RowName     string
	Count       int
	Price       int64
}

// CreateBulkSeats は同一列の座席を連番で一括作成する
func (s *SeatService) CreateBulkSeats(ctx context.Context, tenantID string, input CreateBulkSeatsInput) ([]*eventseat.Seat, error) {
	seats := make([]*eventseat.Seat, 0, input.Count)
	for i := 1; i <= input.Count; i++ {
		number := fmt.Sprintf("%d", i)
		se := eventseat.NewSeatFromPosition(tenantID, input.EventID, input.SectionName, input.RowName, number, input.Price)
		if err := se.Validate(); err != nil {
			return nil, err
		}
		seats = append(seats, se)
	}
	if err := s.seatRepo.CreateBulk(ctx, seats); err != nil {
		return nil, err
	}
	s.InvalidateCache(ctx, tenantID, input.EventID)
	return seats, nil
}

// GetSeat はIDから座席を取得する
func (s *SeatService) GetSeat(ctx context.Context, tenantID, id string) (*eventseat.Seat, error) {
	return s.seatRepo.GetByID(ctx, tenantID, id)
}

// GetSeatsByEvent はイベントの座席一覧を取得する
func (s *SeatService) GetSeatsByEvent(ctx context.Context, tenantID, eventID string) ([]*eventseat.Seat, error) {
	return s.seatRepo.GetByEventID(ctx, tenantID, eventID)
}

// CountAvailableSeats はイベントの販売可能座席数を取得する
func (s *SeatService) CountAvailableSeats(ctx context.Context, tenantID, eventID string) (int, error) {
	// キャッシュから取得を試みる
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, tenantID, eventID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("event_id", eventID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	count, err := s.seatRepo.CountAvailableByEventID(ctx, tenantID, eventID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetAvailableCount(ctx, tenantID, eventID, count, seatCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}
	return count, nil
}

// HoldSeat は座席を運営保留状態にする
func (s *SeatService) HoldSeat(ctx context.Context, tenantID, id string) (*eventseat.Seat, error) {
	return s.updateSeat(ctx, tenantID, id, func(se *eventseat.Seat) error {
		se.Hold()
		return nil
	})
}

// BlockSeat は座席を販売停止状態にする
func (s *SeatService) BlockSeat(ctx context.Context, tenantID, id string) (*eventseat.Seat, error) {
	return s.updateSeat(ctx, tenantID, id, func(se *eventseat.Seat) error {
		se.Block()
		return nil
	})
}

// ReleaseSeat は座席の仮押さえを解放する
func (s *SeatService) ReleaseSeat(ctx context.Context, tenantID, id string) (*eventseat.Seat, error) {
	return s.updateSeat(ctx, tenantID, id, func(se *eventseat.Seat) error {
		se.Release()
		return nil
	})
}

func (s *SeatService) updateSeat(ctx context.Context, tenantID, id string, mutate func(*eventseat.Seat) error) (*eventseat.Seat, error) {
	se, err := s.seatRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(se); err != nil {
		return nil, err
	}
	if err := s.seatRepo.Update(ctx, se); err != nil {
		return nil, err
	}
	s.InvalidateCache(ctx, tenantID, se.EventID)
	return se, nil
}

// InvalidateCache はイベントの空席数キャッシュを無効化する
func (s *SeatService) InvalidateCache(ctx context.Context, tenantID, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tenantID, eventID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}
