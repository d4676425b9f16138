package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-ticketing-settlement/internal/pkg/logger"
)

// BookingReleaser は期限切れ注文を解放するインターフェース
type BookingReleaser interface {
	ReleaseExpiredBookings(ctx context.Context) (int, error)
}

// ExpiredBookingReleaser は仮押さえ期限切れの注文を解放するワーカー
// 入金がある注文には触れない（サービス側で除外される）
type ExpiredBookingReleaser struct {
	bookingService BookingReleaser
	interval       time.Duration
	stopCh         chan struct{}
	doneCh         chan struct{}
}

// NewExpiredBookingReleaser は新しいワーカーを作成
func NewExpiredBookingReleaser(bs BookingReleaser, interval time.Duration) *ExpiredBookingReleaser {
	return &ExpiredBookingReleaser{
		bookingService: bs,
		interval:       interval,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start はワーカーを開始
func (w *ExpiredBookingReleaser) Start(ctx context.Context) {
	logger.Info("期限切れ注文解放ワーカー開始",
		zap.Duration("interval", w.interval),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れ注文解放ワーカー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("期限切れ注文解放ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.release(ctx)
		}
	}
}

// Stop はワーカーを停止
func (w *ExpiredBookingReleaser) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// release は期限切れ注文を解放
func (w *ExpiredBookingReleaser) release(ctx context.Context) {
	log := logger.Get()
	log.Debug("期限切れ注文の解放開始")

	count, err := w.bookingService.ReleaseExpiredBookings(ctx)
	if err != nil {
		log.Error("期限切れ注文の解放失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("期限切れ注文を解放", zap.Int("count", count))
	} else {
		log.Debug("期限切れ注文なし")
	}
}
