package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-ticketing-settlement/internal/application"
	"github.com/sanosuguru/go-ticketing-settlement/internal/domain/eventseat"
	"github.com/sanosuguru/go-ticketing-settlement/internal/tenant"
)

type SeatHandler struct {
	service SeatServiceInterface
}

func NewSeatHandler(s SeatServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type CreateSeatRequest struct {
	EventID     string            `json:"event_id" validate:"required"`
	SeatID      *string           `json:"seat_id,omitempty"`
	SectionName string            `json:"section_name,omitempty" example:"アリーナA"`
	RowName     string            `json:"row_name,omitempty" example:"5"`
	SeatNumber  string            `json:"seat_number,omitempty" example:"12"`
	Price       int64             `json:"price" validate:"gte=0" example:"8000"`
	BrokerID    *string           `json:"broker_id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

type CreateBulkSeatsRequest struct {
	EventID     string `json:"event_id" validate:"required"`
	SectionName string `json:"section_name" validate:"required"`
	RowName     string `json:"row_name" validate:"required"`
	Count       int    `json:"count" validate:"required,min=1,max=1000"`
	Price       int64  `json:"price" validate:"gte=0"`
}

type SeatResponse struct {
	ID          string            `json:"id"`
	EventID     string            `json:"event_id"`
	SeatID      *string           `json:"seat_id,omitempty"`
	SectionName string            `json:"section_name,omitempty"`
	RowName     string            `json:"row_name,omitempty"`
	SeatNumber  string            `json:"seat_number,omitempty"`
	Status      string            `json:"status"`
	Price       int64             `json:"price"`
	TicketCode  *string           `json:"ticket_code,omitempty"`
	BrokerID    *string           `json:"broker_id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	ReservedBy  *string           `json:"reserved_by,omitempty"`
	ReservedAt  *time.Time        `json:"reserved_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type AvailabilityResponse struct {
	EventID        string `json:"event_id"`
	AvailableSeats int    `json:"available_seats"`
}

func toSeatResponse(s *eventseat.Seat) SeatResponse {
	return SeatResponse{
		ID: s.ID, EventID: s.EventID, SeatID: s.SeatID,
		SectionName: s.SectionName, RowName: s.RowName, SeatNumber: s.SeatNumber,
		Status: string(s.Status), Price: s.Price,
		TicketCode: s.TicketCode, BrokerID: s.BrokerID, Attributes: s.Attributes,
		ReservedBy: s.ReservedBy, ReservedAt: s.ReservedAt,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

// Create godoc
// @Summary 座席を作成
// @Description レイアウト参照または位置指定で販売座席を登録します
// @Tags seats
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param request body CreateSeatRequest true "座席情報"
// @Success 201 {object} SeatResponse
// @Failure 400 {object} map[string]string "識別方式が両方または未指定"
// @Router /seats [post]
func (h *SeatHandler) Create(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	var req CreateSeatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s, err := h.service.CreateSeat(c.Request().Context(), tenantID, application.CreateSeatInput{
		EventID:     req.EventID,
		SeatID:      req.SeatID,
		SectionName: req.SectionName,
		RowName:     req.RowName,
		SeatNumber:  req.SeatNumber,
		Price:       req.Price,
		BrokerID:    req.BrokerID,
		Attributes:  req.Attributes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSeatResponse(s))
}

// CreateBulk godoc
// @Summary 座席を一括作成
// @Description 同一列の座席を連番で一括登録します
// @Tags seats
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param request body CreateBulkSeatsRequest true "一括作成情報"
// @Success 201 {array} SeatResponse
// @Failure 400 {object} map[string]string
// @Router /seats/bulk [post]
func (h *SeatHandler) CreateBulk(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	var req CreateBulkSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	seats, err := h.service.CreateBulkSeats(c.Request().Context(), tenantID, application.CreateBulkSeatsInput{
		EventID:     req.EventID,
		SectionName: req.SectionName,
		RowName:     req.RowName,
		Count:       req.Count,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(s)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetByID godoc
// @Summary 座席を取得
// @Tags seats
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "座席ID"
// @Success 200 {object} SeatResponse
// @Failure 404 {object} map[string]string
// @Router /seats/{id} [get]
func (h *SeatHandler) GetByID(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	s, err := h.service.GetSeat(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSeatResponse(s))
}

// ListByEvent godoc
// @Summary イベントの座席一覧を取得
// @Tags seats
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param event_id path string true "イベントID"
// @Success 200 {array} SeatResponse
// @Router /events/{event_id}/seats [get]
func (h *SeatHandler) ListByEvent(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	seats, err := h.service.GetSeatsByEvent(c.Request().Context(), tenantID, c.Param("event_id"))
	if err != nil {
		return err
	}
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// Availability godoc
// @Summary イベントの空席数を取得
// @Description キャッシュ経由で販売可能座席数を返します
// @Tags seats
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param event_id path string true "イベントID"
// @Success 200 {object} AvailabilityResponse
// @Router /events/{event_id}/seats/availability [get]
func (h *SeatHandler) Availability(c echo.Context) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	eventID := c.Param("event_id")
	count, err := h.service.CountAvailableSeats(c.Request().Context(), tenantID, eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{EventID: eventID, AvailableSeats: count})
}

// Hold godoc
// @Summary 座席を運営保留にする
// @Tags seats
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "座席ID"
// @Success 200 {object} SeatResponse
// @Failure 404 {object} map[string]string
// @Router /seats/{id}/hold [post]
func (h *SeatHandler) Hold(c echo.Context) error {
	return h.updateSeat(c, h.service.HoldSeat)
}

// Block godoc
// @Summary 座席を販売停止にする
// @Tags seats
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "座席ID"
// @Success 200 {object} SeatResponse
// @Failure 404 {object} map[string]string
// @Router /seats/{id}/block [post]
func (h *SeatHandler) Block(c echo.Context) error {
	return h.updateSeat(c, h.service.BlockSeat)
}

// Release godoc
// @Summary 座席の仮押さえを解放する
// @Tags seats
// @Produce json
// @Param X-Tenant-ID header string true "テナントID"
// @Param id path string true "座席ID"
// @Success 200 {object} SeatResponse
// @Failure 404 {object} map[string]string
// @Router /seats/{id}/release [post]
func (h *SeatHandler) Release(c echo.Context) error {
	return h.updateSeat(c, h.service.ReleaseSeat)
}

func (h *SeatHandler) updateSeat(c echo.Context, fn func(ctx context.Context, tenantID, id string) (*eventseat.Seat, error)) error {
	tenantID, err := tenant.FromContext(c.Request().Context())
	if err != nil {
		return err
	}
	s, err := fn(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSeatResponse(s))
}
