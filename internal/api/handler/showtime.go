package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/application"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/movie"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showseat"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/theater"
)

type ShowtimeHandler struct {
	service ShowtimeServiceInterface
}

func NewShowtimeHandler(s ShowtimeServiceInterface) *ShowtimeHandler {
	return &ShowtimeHandler{service: s}
}

type ShowtimeRequest struct {
	MovieID     int64     `json:"movie_id" validate:"required" example:"1"`
	TheaterName string    `json:"theater_name" validate:"required" example:"Cinema City 1"`
	Price       float64   `json:"price" validate:"required,gt=0" example:"1800"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
}

type ShowtimeResponse struct {
	ID          int64     `json:"id" example:"1"`
	MovieID     int64     `json:"movie_id" example:"1"`
	TheaterName string    `json:"theater_name" example:"Cinema City 1"`
	Price       float64   `json:"price" example:"1800"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SlotResponse struct {
	ID         int64 `json:"id" example:"1"`
	ShowtimeID int64 `json:"showtime_id" example:"1"`
	SeatID     int64 `json:"seat_id" example:"101"`
	Reserved   bool  `json:"reserved" example:"false"`
}

type AvailabilityResponse struct {
	ShowtimeID     int64 `json:"showtime_id" example:"1"`
	AvailableSeats int   `json:"available_seats" example:"97"`
}

func toShowtimeResponse(st *showtime.Showtime) ShowtimeResponse {
	return ShowtimeResponse{
		ID: st.ID, MovieID: st.MovieID, TheaterName: st.TheaterName,
		Price: st.Price, StartTime: st.StartTime, EndTime: st.EndTime,
		CreatedAt: st.CreatedAt, UpdatedAt: st.UpdatedAt,
	}
}

func toSlotResponse(s *showseat.ShowSeat) SlotResponse {
	return SlotResponse{ID: s.ID, ShowtimeID: s.ShowtimeID, SeatID: s.SeatID, Reserved: s.Reserved}
}

// Create godoc
// @Summary 上映回を作成
// @Description 上映回を作成し、劇場の全座席分の空き状況レコードを生成します
// @Tags showtimes
// @Accept json
// @Produce json
// @Param request body ShowtimeRequest true "上映回情報"
// @Success 201 {object} ShowtimeResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "映画または劇場が存在しない"
// @Failure 409 {object} map[string]string "同じ劇場で時間帯が重複"
// @Router /showtimes [post]
func (h *ShowtimeHandler) Create(c echo.Context) error {
	var req ShowtimeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	st, err := h.service.CreateShowtime(c.Request().Context(), application.CreateShowtimeInput{
		MovieID: req.MovieID, TheaterName: req.TheaterName, Price: req.Price,
		StartTime: req.StartTime, EndTime: req.EndTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, movie.ErrMovieNotFound), errors.Is(err, theater.ErrTheaterNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, showtime.ErrShowtimeOverlap):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case showtime.IsValidationError(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, toShowtimeResponse(st))
}

// GetByID godoc
// @Summary 上映回を取得
// @Tags showtimes
// @Produce json
// @Param id path int true "上映回ID"
// @Success 200 {object} ShowtimeResponse
// @Failure 404 {object} map[string]string
// @Router /showtimes/{id} [get]
func (h *ShowtimeHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "上映回IDが不正です")
	}
	st, err := h.service.GetShowtime(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, showtime.ErrShowtimeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toShowtimeResponse(st))
}

// List godoc
// @Summary 上映回一覧を取得
// @Tags showtimes
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ShowtimeResponse
// @Router /showtimes [get]
func (h *ShowtimeHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	showtimes, err := h.service.ListShowtimes(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]ShowtimeResponse, len(showtimes))
	for i, st := range showtimes {
		resp[i] = toShowtimeResponse(st)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary 上映回を更新
// @Description 上映回の内容を変更します。予約が存在する上映回の劇場変更は拒否されます
// @Tags showtimes
// @Accept json
// @Produce json
// @Param id path int true "上映回ID"
// @Param request body ShowtimeRequest true "上映回情報"
// @Success 200 {object} ShowtimeResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "時間帯の重複、または予約済み上映回の劇場変更"
// @Router /showtimes/{id} [put]
func (h *ShowtimeHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "上映回IDが不正です")
	}
	var req ShowtimeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	st, err := h.service.UpdateShowtime(c.Request().Context(), id, application.UpdateShowtimeInput{
		MovieID: req.MovieID, TheaterName: req.TheaterName, Price: req.Price,
		StartTime: req.StartTime, EndTime: req.EndTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, showtime.ErrShowtimeNotFound), errors.Is(err, theater.ErrTheaterNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, showtime.ErrShowtimeOverlap), errors.Is(err, showtime.ErrShowtimeHasBookings):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case showtime.IsValidationError(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, toShowtimeResponse(st))
}

// Cancel godoc
// @Summary 上映回を取消
// @Description 上映回と、その予約・空き状況レコードを単一トランザクションで削除します
// @Tags showtimes
// @Param id path int true "上映回ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /showtimes/{id} [delete]
func (h *ShowtimeHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "上映回IDが不正です")
	}
	if err := h.service.CancelShowtime(c.Request().Context(), id); err != nil {
		if errors.Is(err, showtime.ErrShowtimeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSlots godoc
// @Summary 上映回の座席状況一覧を取得
// @Tags showtimes
// @Produce json
// @Param id path int true "上映回ID"
// @Success 200 {array} SlotResponse
// @Failure 404 {object} map[string]string
// @Router /showtimes/{id}/seats [get]
func (h *ShowtimeHandler) ListSlots(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "上映回IDが不正です")
	}
	slots, err := h.service.ListSlots(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, showtime.ErrShowtimeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]SlotResponse, len(slots))
	for i, s := range slots {
		resp[i] = toSlotResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// Availability godoc
// @Summary 上映回の空席数を取得
// @Description 空席数を返します（キャッシュされた値の場合があります）
// @Tags showtimes
// @Produce json
// @Param id path int true "上映回ID"
// @Success 200 {object} AvailabilityResponse
// @Failure 404 {object} map[string]string
// @Router /showtimes/{id}/availability [get]
func (h *ShowtimeHandler) Availability(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "上映回IDが不正です")
	}
	count, err := h.service.CountAvailableSeats(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, showtime.ErrShowtimeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{ShowtimeID: id, AvailableSeats: count})
}
