package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/application"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showseat"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/theater"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	ShowtimeID int64 `json:"showtime_id" validate:"required" example:"1"`
	SeatNumber int   `json:"seat_number" validate:"required,min=1" example:"42"`
}

type BookingResponse struct {
	ID         string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ShowtimeID int64     `json:"showtime_id" example:"1"`
	SeatNumber int       `json:"seat_number" example:"42"`
	UserID     string    `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	CreatedAt  time.Time `json:"created_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, ShowtimeID: b.ShowtimeID, SeatNumber: b.SeatNumber,
		UserID: b.UserID, CreatedAt: b.CreatedAt,
	}
}

// Create godoc
// @Summary 座席を予約
// @Description 指定した上映回の座席を予約します。同一座席への同時リクエストは必ず1件だけが成功します
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID（UUID）"
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string "上映回または座席が存在しない"
// @Failure 409 {object} map[string]string "座席が既に予約済み"
// @Failure 503 {object} map[string]string "競合が続いたため処理できない（Retry-After 付き）"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		ShowtimeID: req.ShowtimeID, SeatNumber: req.SeatNumber, UserID: userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSeatAlreadyBooked), errors.Is(err, showseat.ErrAlreadyReserved):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, showtime.ErrShowtimeNotFound),
			errors.Is(err, theater.ErrTheaterNotFound),
			errors.Is(err, theater.ErrSeatNotFound),
			errors.Is(err, showseat.ErrSlotNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, showseat.ErrContentionExhausted):
			c.Response().Header().Set("Retry-After", "1")
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		case booking.IsValidationError(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// GetByID godoc
// @Summary 予約を取得
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	b, err := h.service.GetBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// ListByShowtime godoc
// @Summary 上映回の予約一覧を取得
// @Description 指定上映回の全予約を返します。seat クエリで特定座席の予約を検索できます
// @Tags bookings
// @Produce json
// @Param id path int true "上映回ID"
// @Param seat query int false "座席番号"
// @Success 200 {array} BookingResponse
// @Failure 404 {object} map[string]string
// @Router /showtimes/{id}/bookings [get]
func (h *BookingHandler) ListByShowtime(c echo.Context) error {
	showtimeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "上映回IDが不正です")
	}

	if seatParam := c.QueryParam("seat"); seatParam != "" {
		seatNumber, err := strconv.Atoi(seatParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "座席番号が不正です")
		}
		b, err := h.service.GetBookingBySeat(c.Request().Context(), showtimeID, seatNumber)
		if err != nil {
			if errors.Is(err, booking.ErrBookingNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, err.Error())
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, []BookingResponse{toBookingResponse(b)})
	}

	bookings, err := h.service.ListBookings(c.Request().Context(), showtimeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}
