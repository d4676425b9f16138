package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/ticket"
	"github.com/sanosuguru/go-ticketing-settlement/internal/tenant"
)

type TicketHandler struct {
	service TicketServiceInterface
}

func NewTicketHandler(s TicketServiceInterface) *TicketHandler {
	return &TicketHandler{service: s}
}

type TicketResponse struct {
	ID            string     `json:"id"`
	EventID       string     `json:"event_id"`
	EventSeatID   string     `json:"event_seat_id"`
	TicketNumber  string     `json:"ticket_number" example:"T00000001"`
	BookingID     *string    `json:"booking_id,omitempty"`
	Price         int64      `json:"price"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	Barcode       string     `json:"barcode"`
	QRCode        string     `json:"qr_code"`
	TransferToken *string    `json:"transfer_token,omitempty"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`
	ScannedAt     *time.Time `json:"scanned_at,omitempty"`
	IssuedAt      time.Time  `json:"issued_at"`
}

func toTicketResponse(t *ticket.Ticket) TicketResponse {
	return TicketResponse{
		ID: t.ID, EventID: t.EventID, EventSeatID: t.EventSeatID,
		TicketNumber: t.TicketNumber, BookingID: t.BookingID,
		Price: t.Price, Currency: t.Currency, Status: string(t.Status),
		Barcode: t.Barcode, QRCode: t.QRCode, TransferToken: t.TransferToken,
		ReservedUntil: t.ReservedUntil, ScannedAt: t.ScannedAt, IssuedAt: t.IssuedAt,
	}
}

// GetByID godoc
// @Summary チケットを取得
// @Tags tickets
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "チケットID"
// @Success 200 {object} TicketResponse
// @Failure 404 {object} map[string]string
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetByID(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	t, err := h.service.GetTicket(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTicketResponse(t))
}

// ListByBooking godoc
// @Summary 注文のチケット一覧を取得
// @Tags tickets
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "注文ID"
// @Success 200 {array} TicketResponse
// @Router /bookings/{id}/tickets [get]
func (h *TicketHandler) ListByBooking(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	tickets, err := h.service.GetBookingTickets(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return err
	}
	resp := make([]TicketResponse, len(tickets))
	for i, t := range tickets {
		resp[i] = toTicketResponse(t)
	}
	return c.JSON(http.StatusOK, resp)
}

// Scan godoc
// @Summary チケットを入場処理
// @Description 確定済みチケットを入場済みにします
// @Tags tickets
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "チケットID"
// @Success 200 {object} TicketResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "未確定または入場済み"
// @Router /tickets/{id}/scan [post]
func (h *TicketHandler) Scan(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	t, err := h.service.ScanTicket(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTicketResponse(t))
}

// Transfer godoc
// @Summary チケットを譲渡
// @Description 確定済みチケットを譲渡し、新しい譲渡トークンを発行します
// @Tags tickets
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "チケットID"
// @Success 200 {object} TicketResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tickets/{id}/transfer [post]
func (h *TicketHandler) Transfer(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	t, err := h.service.TransferTicket(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTicketResponse(t))
}

// Cancel godoc
// @Summary チケットを無効化
// @Tags tickets
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "チケットID"
// @Success 200 {object} TicketResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "入場済みまたは無効化済み"
// @Router /tickets/{id}/cancel [post]
func (h *TicketHandler) Cancel(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	t, err := h.service.CancelTicket(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTicketResponse(t))
}

// QRCode godoc
// @Summary チケットのQRコード画像を取得
// @Tags tickets
// @Produce png
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "チケットID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /tickets/{id}/qrcode [get]
func (h *TicketHandler) QRCode(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	png, err := h.service.RenderQRCode(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
