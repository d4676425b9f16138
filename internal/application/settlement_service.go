package application

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/booking"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/eventseat"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/payment"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/sequence"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/ticket"
	"github.com/sanosuguru/go-ticketing-settlement/internal/pkg/logger"
	"github.com/sanosuguru/go-ticketing-settlement/internal/pkg/metrics"
)

const (
	// settlementTimeout は精算フロー全体のデッドライン
	// 超過した場合、決済は保存済み・注文の再計算は未完了となり得るが、
	// 残高と入金状態は決済台帳から常に全再計算されるため再実行で回復できる
	settlementTimeout = 15 * time.Second

	paymentCodeDigits = 6
)

// SettlementService は決済の作成・取消と、それに伴う
// 注文残高・チケット・座席の整合を取るコーディネーター
// 4つの集約すべてに触れるのはこのサービスだけ
type SettlementService struct {
	bookingRepo  booking.Repository
	paymentRepo  payment.Repository
	ticketRepo   ticket.Repository
	seatRepo     eventseat.Repository
	sequenceRepo sequence.Repository
	metrics      *metrics.Metrics
}

// NewSettlementService は新しい SettlementService を作成する
func NewSettlementService(
	br booking.Repository,
	pr payment.Repository,
	tr ticket.Repository,
	sr eventseat.Repository,
	qr sequence.Repository,
	m *metrics.Metrics,
) *SettlementService {
	return &SettlementService{
		bookingRepo:  br,
		paymentRepo:  pr,
		ticketRepo:   tr,
		seatRepo:     sr,
		sequenceRepo: qr,
		metrics:      m,
	}
}

// CreatePaymentInput は決済作成の入力
type CreatePaymentInput struct {
	BookingID            string
	Amount               int64
	Currency             string
	PaymentMethod        string
	TransactionReference *string
	Notes                *string
}

// CreatePayment は注文に対する決済を作成する
// 決済→注文の順に永続化する。決済だけが記録された状態は台帳からの
// 再計算で回復できるが、逆は回復できないため順序を入れ替えないこと
func (s *SettlementService) CreatePayment(ctx context.Context, tenantID string, input CreatePaymentInput) (*payment.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, settlementTimeout)
	defer cancel()

	start := time.Now()
	p, err := s.createPayment(ctx, tenantID, input)
	s.observeSettlement("create", start, err)
	return p, err
}

func (s *SettlementService) createPayment(ctx context.Context, tenantID string, input CreatePaymentInput) (*payment.Payment, error) {
	b, err := s.bookingRepo.GetByID(ctx, tenantID, input.BookingID)
	if err != nil {
		return nil, err
	}
	// PENDING を許可するのは即時入金される直販・代理店経由の注文のため
	if !b.CanAcceptPayment() {
		return nil, booking.ErrBookingNotPayable
	}
	if input.Amount <= 0 {
		return nil, payment.ErrInvalidAmount
	}

	payments, err := s.paymentRepo.GetByBookingID(ctx, tenantID, b.ID)
	if err != nil {
		return nil, fmt.Errorf("決済一覧取得に失敗: %w", err)
	}
	totalPaid := sumPaid(payments)
	remaining := b.TotalAmount - totalPaid
	if input.Amount > remaining {
		return nil, payment.ErrAmountExceedsBalance
	}

	code := s.generatePaymentCode(ctx, tenantID)

	p := payment.NewPayment(tenantID, b.ID, code, input.Currency, input.PaymentMethod, input.Amount)
	p.TransactionReference = input.TransactionReference
	p.Notes = input.Notes
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("決済作成に失敗: %w", err)
	}

	totalPaidAfter := totalPaid + input.Amount
	isFullyPaid := totalPaidAfter >= b.TotalAmount

	// 一部入金でも注文は保留・仮押さえから確定に進める
	if err := b.Confirm(); err != nil {
		return nil, err
	}
	b.Settle(totalPaidAfter)
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("注文更新に失敗: %w", err)
	}

	if isFullyPaid {
		s.cascadeFulfillment(ctx, tenantID, b.ID)
	}

	return p, nil
}

// CancelPayment は決済を取り消し、注文の残高と入金状態を台帳から再計算する
// 確定済みチケット・販売済み座席は取消後も戻さない。座席の解放は
// 払い戻しとは別の運用手順として扱う
func (s *SettlementService) CancelPayment(ctx context.Context, tenantID, paymentID string) (*payment.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, settlementTimeout)
	defer cancel()

	start := time.Now()
	p, err := s.cancelPayment(ctx, tenantID, paymentID)
	s.observeSettlement("cancel", start, err)
	return p, err
}

func (s *SettlementService) cancelPayment(ctx context.Context, tenantID, paymentID string) (*payment.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	b, err := s.bookingRepo.GetByID(ctx, tenantID, p.BookingID)
	if err != nil {
		return nil, err
	}
	// 注文のキャンセルより先に決済を取り消しておく必要がある
	if b.Status == booking.StatusCancelled {
		return nil, booking.ErrBookingAlreadyCancelled
	}

	if err := p.Cancel(); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("決済更新に失敗: %w", err)
	}

	payments, err := s.paymentRepo.GetByBookingID(ctx, tenantID, b.ID)
	if err != nil {
		return nil, fmt.Errorf("決済一覧取得に失敗: %w", err)
	}
	totalPaid := sumPaid(payments)
	b.Settle(totalPaid)
	if totalPaid > 0 {
		if err := b.Confirm(); err != nil {
			return nil, err
		}
	}
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("注文更新に失敗: %w", err)
	}

	return p, nil
}

// GetPayment はIDから決済を取得する
func (s *SettlementService) GetPayment(ctx context.Context, tenantID, id string) (*payment.Payment, error) {
	return s.paymentRepo.GetByID(ctx, tenantID, id)
}

// GetBookingPayments は注文に紐づく決済一覧を取得する
func (s *SettlementService) GetBookingPayments(ctx context.Context, tenantID, bookingID string) ([]*payment.Payment, error) {
	return s.paymentRepo.GetByBookingID(ctx, tenantID, bookingID)
}

// sumPaid はPAID決済の合計額を返す
func sumPaid(payments []*payment.Payment) int64 {
	var total int64
	for _, p := range payments {
		if p.IsPaid() {
			total += p.Amount
		}
	}
	return total
}

// generatePaymentCode は決済コードを採番する
// 形式は {YYMMDD}-{6桁連番} で、連番はテナント・暦年ごとにリセットされる
// 採番サービスが利用できない場合はランダム6桁に縮退する（衝突の可能性が
// あるため警告ログを残す）
func (s *SettlementService) generatePaymentCode(ctx context.Context, tenantID string) string {
	now := time.Now()
	prefix := now.Format("060102") + "-"
	seqType := fmt.Sprintf("PAYMENT-%d", now.Year())

	start := time.Now()
	code, err := s.sequenceRepo.NextValue(ctx, tenantID, seqType, prefix, paymentCodeDigits)
	if err != nil {
		s.observeSequence(start, "fallback")
		fallback := prefix + fmt.Sprintf("%06d", rand.Intn(1000000))
		logger.Warn("採番に失敗したためランダムコードに縮退",
			zap.String("tenant_id", tenantID),
			zap.String("sequence_type", seqType),
			zap.String("code", fallback),
			zap.Error(err),
		)
		return fallback
	}
	s.observeSequence(start, "success")
	return code
}

// cascadeFulfillment は全額入金後にチケット確定と座席販売を伝播させる
// 決済と注文残高は既に確定しているため、個々の失敗はログに残して
// 処理を継続し、バッチ全体を中断しない
func (s *SettlementService) cascadeFulfillment(ctx context.Context, tenantID, bookingID string) {
	tickets, err := s.ticketRepo.GetByBookingID(ctx, tenantID, bookingID)
	if err != nil {
		logger.Error("チケット取得に失敗したため確定処理をスキップ",
			zap.String("booking_id", bookingID), zap.Error(err))
		return
	}

	var failures []cascadeFailure
	for _, t := range tickets {
		if t.Status == ticket.StatusCancelled {
			continue
		}
		if err := t.Confirm(); err != nil {
			failures = append(failures, cascadeFailure{itemID: t.ID, err: err})
			continue
		}
		if err := s.ticketRepo.Update(ctx, t); err != nil {
			failures = append(failures, cascadeFailure{itemID: t.ID, err: err})
			continue
		}
		s.sellSeat(ctx, tenantID, t, &failures)
	}

	for _, f := range failures {
		logger.Warn("全額入金後の確定処理で一部失敗",
			zap.String("booking_id", bookingID),
			zap.String("item_id", f.itemID),
			zap.Error(f.err),
		)
		if s.metrics != nil {
			s.metrics.CascadeFailures.Inc()
		}
	}
}

func (s *SettlementService) sellSeat(ctx context.Context, tenantID string, t *ticket.Ticket, failures *[]cascadeFailure) {
	if t.EventSeatID == "" {
		return
	}
	seat, err := s.seatRepo.GetByID(ctx, tenantID, t.EventSeatID)
	if err != nil {
		*failures = append(*failures, cascadeFailure{itemID: t.EventSeatID, err: err})
		return
	}
	if err := seat.Sell(t.TicketNumber); err != nil {
		*failures = append(*failures, cascadeFailure{itemID: seat.ID, err: err})
		return
	}
	if err := s.seatRepo.Update(ctx, seat); err != nil {
		*failures = append(*failures, cascadeFailure{itemID: seat.ID, err: err})
	}
}

// cascadeFailure は確定処理で失敗した項目とその原因
type cascadeFailure struct {
	itemID string
	err    error
}

func (s *SettlementService) observeSettlement(operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	s.metrics.PaymentsTotal.WithLabelValues(operation, status).Inc()
	s.metrics.SettlementDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (s *SettlementService) observeSequence(start time.Time, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.SequenceDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}
