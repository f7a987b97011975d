package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/application"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/theater"
)

type TheaterHandler struct {
	service TheaterServiceInterface
}

func NewTheaterHandler(s TheaterServiceInterface) *TheaterHandler {
	return &TheaterHandler{service: s}
}

type CreateTheaterRequest struct {
	Name          string `json:"name" validate:"required" example:"Cinema City 1"`
	NumberOfSeats int    `json:"number_of_seats" validate:"required,min=1" example:"100"`
}

type TheaterResponse struct {
	ID            int64     `json:"id" example:"1"`
	Name          string    `json:"name" example:"Cinema City 1"`
	NumberOfSeats int       `json:"number_of_seats" example:"100"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type SeatResponse struct {
	ID         int64 `json:"id" example:"1"`
	TheaterID  int64 `json:"theater_id" example:"1"`
	SeatNumber int   `json:"seat_number" example:"42"`
}

func toTheaterResponse(t *theater.Theater) TheaterResponse {
	return TheaterResponse{
		ID: t.ID, Name: t.Name, NumberOfSeats: t.NumberOfSeats,
		CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
}

// Create godoc
// @Summary 劇場を登録
// @Description 新しい劇場を登録し、座席を一括生成します
// @Tags theaters
// @Accept json
// @Produce json
// @Param request body CreateTheaterRequest true "劇場情報"
// @Success 201 {object} TheaterResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "同名の劇場が既に存在、または劇場数が上限"
// @Router /theaters [post]
func (h *TheaterHandler) Create(c echo.Context) error {
	var req CreateTheaterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t, err := h.service.CreateTheater(c.Request().Context(), application.CreateTheaterInput{
		Name: req.Name, NumberOfSeats: req.NumberOfSeats,
	})
	if err != nil {
		var limitErr *theater.LimitExceededError
		switch {
		case errors.Is(err, theater.ErrTheaterAlreadyExists):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.As(err, &limitErr):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case theater.IsValidationError(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, toTheaterResponse(t))
}

// GetByName godoc
// @Summary 劇場を取得
// @Tags theaters
// @Produce json
// @Param name path string true "劇場名"
// @Success 200 {object} TheaterResponse
// @Failure 404 {object} map[string]string
// @Router /theaters/{name} [get]
func (h *TheaterHandler) GetByName(c echo.Context) error {
	name := c.Param("name")
	t, err := h.service.GetTheaterByName(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, theater.ErrTheaterNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toTheaterResponse(t))
}

// List godoc
// @Summary 劇場一覧を取得
// @Tags theaters
// @Produce json
// @Success 200 {array} TheaterResponse
// @Router /theaters [get]
func (h *TheaterHandler) List(c echo.Context) error {
	theaters, err := h.service.ListTheaters(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]TheaterResponse, len(theaters))
	for i, t := range theaters {
		resp[i] = toTheaterResponse(t)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListSeats godoc
// @Summary 劇場の座席一覧を取得
// @Tags theaters
// @Produce json
// @Param name path string true "劇場名"
// @Success 200 {array} SeatResponse
// @Failure 404 {object} map[string]string
// @Router /theaters/{name}/seats [get]
func (h *TheaterHandler) ListSeats(c echo.Context) error {
	name := c.Param("name")
	t, err := h.service.GetTheaterByName(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, theater.ErrTheaterNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	seats, err := h.service.ListSeats(c.Request().Context(), t.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = SeatResponse{ID: s.ID, TheaterID: s.TheaterID, SeatNumber: s.SeatNumber}
	}
	return c.JSON(http.StatusOK, resp)
}
