package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-ticketing-settlement/internal/application"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/payment"
	"github.com/sanosuguru/go-ticketing-settlement/internal/tenant"
)

type PaymentHandler struct {
	service SettlementServiceInterface
}

func NewPaymentHandler(s SettlementServiceInterface) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type CreatePaymentRequest struct {
	Amount               int64   `json:"amount" validate:"required,gt=0" example:"10000"`
	Currency             string  `json:"currency" validate:"required,len=3" example:"JPY"`
	PaymentMethod        string  `json:"payment_method" validate:"required" example:"credit_card"`
	TransactionReference *string `json:"transaction_reference,omitempty"`
	Notes                *string `json:"notes,omitempty"`
}

type PaymentResponse struct {
	ID                   string     `json:"id"`
	BookingID            string     `json:"booking_id"`
	PaymentCode          string     `json:"payment_code" example:"250829-000001"`
	Amount               int64      `json:"amount"`
	Currency             string     `json:"currency"`
	PaymentMethod        string     `json:"payment_method"`
	TransactionReference *string    `json:"transaction_reference,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
	Status               string     `json:"status"`
	ProcessedAt          *time.Time `json:"processed_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func toPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID: p.ID, BookingID: p.BookingID, PaymentCode: p.PaymentCode,
		Amount: p.Amount, Currency: p.Currency, PaymentMethod: p.PaymentMethod,
		TransactionReference: p.TransactionReference, Notes: p.Notes,
		Status: string(p.Status), ProcessedAt: p.ProcessedAt,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

// Create godoc
// @Summary 決済を作成
// @Description 注文に対する決済を記録し、残高と入金状態を精算します
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "注文ID"
// @Param request body CreatePaymentRequest true "決済情報"
// @Success 201 {object} PaymentResponse
// @Failure 400 {object} map[string]string "金額が残高を超過"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "注文が決済を受け付けない状態"
// @Router /bookings/{id}/payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := h.service.CreatePayment(c.Request().Context(), tenantID, application.CreatePaymentInput{
		BookingID:            c.Param("id"),
		Amount:               req.Amount,
		Currency:             req.Currency,
		PaymentMethod:        req.PaymentMethod,
		TransactionReference: req.TransactionReference,
		Notes:                req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPaymentResponse(p))
}

// ListByBooking godoc
// @Summary 注文の決済一覧を取得
// @Tags payments
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "注文ID"
// @Success 200 {array} PaymentResponse
// @Router /bookings/{id}/payments [get]
func (h *PaymentHandler) ListByBooking(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	payments, err := h.service.GetBookingPayments(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return err
	}
	resp := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary 決済を取得
// @Tags payments
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "決済ID"
// @Success 200 {object} PaymentResponse
// @Failure 404 {object} map[string]string
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetByID(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	p, err := h.service.GetPayment(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// Cancel godoc
// @Summary 決済を取り消し
// @Description 決済を取り消し、注文の残高と入金状態を再計算します
// @Tags payments
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "決済ID"
// @Success 200 {object} PaymentResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "取消済み・返金済み、または注文がキャンセル済み"
// @Router /payments/{id}/cancel [post]
func (h *PaymentHandler) Cancel(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	p, err := h.service.CancelPayment(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}
