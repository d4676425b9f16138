package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-ticketing-settlement/internal/application"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/booking"
	"github.com/sanosuguru/go-ticketing-settlement/internal/tenant"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	EventID       string     `json:"event_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	SeatIDs       []string   `json:"seat_ids" validate:"required,min=1" example:"seat-A1,seat-A2"`
	CustomerID    *string    `json:"customer_id,omitempty"`
	SalespersonID *string    `json:"salesperson_id,omitempty"`
	DiscountType  *string    `json:"discount_type,omitempty" validate:"omitempty,oneof=amount percentage"`
	DiscountValue *float64   `json:"discount_value,omitempty"`
	TaxRate       float64    `json:"tax_rate" validate:"gte=0" example:"0.1"`
	Currency      string     `json:"currency" validate:"required,len=3" example:"JPY"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`
}

type UpdateBookingRequest struct {
	CustomerID    *string    `json:"customer_id,omitempty"`
	SalespersonID *string    `json:"salesperson_id,omitempty"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required" example:"顧客都合によるキャンセル"`
}

type BookingItemResponse struct {
	EventSeatID  string  `json:"event_seat_id"`
	TicketID     *string `json:"ticket_id,omitempty"`
	SectionName  string  `json:"section_name"`
	RowName      string  `json:"row_name"`
	SeatNumber   string  `json:"seat_number"`
	UnitPrice    int64   `json:"unit_price"`
	TotalPrice   int64   `json:"total_price"`
	TicketNumber *string `json:"ticket_number,omitempty"`
}

type BookingResponse struct {
	ID                 string                `json:"id"`
	EventID            string                `json:"event_id"`
	CustomerID         *string               `json:"customer_id,omitempty"`
	SalespersonID      *string               `json:"salesperson_id,omitempty"`
	Items              []BookingItemResponse `json:"items"`
	SubtotalAmount     int64                 `json:"subtotal_amount"`
	DiscountAmount     int64                 `json:"discount_amount"`
	TaxAmount          int64                 `json:"tax_amount"`
	TotalAmount        int64                 `json:"total_amount"`
	Currency           string                `json:"currency"`
	DueBalance         int64                 `json:"due_balance"`
	Status             string                `json:"status"`
	PaymentStatus      string                `json:"payment_status"`
	ReservedUntil      *time.Time            `json:"reserved_until,omitempty"`
	CancelledAt        *time.Time            `json:"cancelled_at,omitempty"`
	CancellationReason *string               `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	items := make([]BookingItemResponse, len(b.Items))
	for i, item := range b.Items {
		items[i] = BookingItemResponse{
			EventSeatID:  item.EventSeatID,
			TicketID:     item.TicketID,
			SectionName:  item.SectionName,
			RowName:      item.RowName,
			SeatNumber:   item.SeatNumber,
			UnitPrice:    item.UnitPrice,
			TotalPrice:   item.TotalPrice,
			TicketNumber: item.TicketNumber,
		}
	}
	return BookingResponse{
		ID: b.ID, EventID: b.EventID,
		CustomerID: b.CustomerID, SalespersonID: b.SalespersonID,
		Items:          items,
		SubtotalAmount: b.SubtotalAmount, DiscountAmount: b.DiscountAmount,
		TaxAmount: b.TaxAmount, TotalAmount: b.TotalAmount,
		Currency: b.Currency, DueBalance: b.DueBalance,
		Status: string(b.Status), PaymentStatus: string(b.PaymentStatus),
		ReservedUntil: b.ReservedUntil, CancelledAt: b.CancelledAt,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt, UpdatedAt: b.UpdatedAt,
	}
}

// Create godoc
// @Summary 注文を作成
// @Description 座席を仮押さえしてチケット付きの注文を作成します
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param request body CreateBookingRequest true "注文情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "座席が既に予約済み"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	var discountType *booking.DiscountType
	if req.DiscountType != nil {
		dt := booking.DiscountType(*req.DiscountType)
		discountType = &dt
	}
	b, err := h.service.CreateBooking(c.Request().Context(), tenantID, application.CreateBookingInput{
		EventID:       req.EventID,
		SeatIDs:       req.SeatIDs,
		CustomerID:    req.CustomerID,
		SalespersonID: req.SalespersonID,
		DiscountType:  discountType,
		DiscountValue: req.DiscountValue,
		TaxRate:       req.TaxRate,
		Currency:      req.Currency,
		ReservedUntil: req.ReservedUntil,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// GetByID godoc
// @Summary 注文を取得
// @Description 指定IDの注文を取得します
// @Tags bookings
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "注文ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	b, err := h.service.GetBooking(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// ListByEvent godoc
// @Summary イベントの注文一覧を取得
// @Tags bookings
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param event_id query string true "イベントID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} BookingResponse
// @Router /bookings [get]
func (h *BookingHandler) ListByEvent(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	eventID := c.QueryParam("event_id")
	if eventID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "イベントIDは必須です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	bookings, err := h.service.ListBookingsByEvent(c.Request().Context(), tenantID, eventID, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary 注文を更新
// @Description 指定されたフィールドのみを更新します
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "注文ID"
// @Param request body UpdateBookingRequest true "更新内容"
// @Success 200 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [patch]
func (h *BookingHandler) Update(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	var req UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	b, err := h.service.UpdateBooking(c.Request().Context(), tenantID, c.Param("id"), booking.UpdateInput{
		CustomerID:    req.CustomerID,
		SalespersonID: req.SalespersonID,
		ReservedUntil: req.ReservedUntil,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// Cancel godoc
// @Summary 注文をキャンセル
// @Description 注文をキャンセルし、座席を解放してチケットを無効化します
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "注文ID"
// @Param request body CancelBookingRequest true "キャンセル理由"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "入金済み決済が残っている"
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	var req CancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.service.CancelBooking(c.Request().Context(), tenantID, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}
