package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/application"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/movie"
)

type MovieHandler struct {
	service MovieServiceInterface
}

func NewMovieHandler(s MovieServiceInterface) *MovieHandler {
	return &MovieHandler{service: s}
}

type MovieRequest struct {
	Title       string  `json:"title" validate:"required" example:"Inception"`
	Genre       string  `json:"genre" validate:"required" example:"SF"`
	Duration    int     `json:"duration" validate:"required,min=1" example:"148"`
	Rating      float64 `json:"rating" validate:"min=0,max=10" example:"8.8"`
	ReleaseYear int     `json:"release_year" validate:"required,min=1" example:"2010"`
}

type MovieResponse struct {
	ID          int64     `json:"id" example:"1"`
	Title       string    `json:"title" example:"Inception"`
	Genre       string    `json:"genre" example:"SF"`
	Duration    int       `json:"duration" example:"148"`
	Rating      float64   `json:"rating" example:"8.8"`
	ReleaseYear int       `json:"release_year" example:"2010"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toMovieResponse(m *movie.Movie) MovieResponse {
	return MovieResponse{
		ID: m.ID, Title: m.Title, Genre: m.Genre,
		Duration: m.Duration, Rating: m.Rating, ReleaseYear: m.ReleaseYear,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

// Create godoc
// @Summary 映画を登録
// @Description 新しい映画を登録します（タイトルは一意）
// @Tags movies
// @Accept json
// @Produce json
// @Param request body MovieRequest true "映画情報"
// @Success 201 {object} MovieResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "同名の映画が既に存在"
// @Router /movies [post]
func (h *MovieHandler) Create(c echo.Context) error {
	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	m, err := h.service.CreateMovie(c.Request().Context(), application.MovieInput{
		Title: req.Title, Genre: req.Genre, Duration: req.Duration,
		Rating: req.Rating, ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		switch {
		case errors.Is(err, movie.ErrMovieAlreadyExists):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case movie.IsValidationError(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, toMovieResponse(m))
}

// GetByTitle godoc
// @Summary 映画を取得
// @Description 指定タイトルの映画を取得します
// @Tags movies
// @Produce json
// @Param title path string true "映画タイトル"
// @Success 200 {object} MovieResponse
// @Failure 404 {object} map[string]string
// @Router /movies/{title} [get]
func (h *MovieHandler) GetByTitle(c echo.Context) error {
	title := c.Param("title")
	m, err := h.service.GetMovieByTitle(c.Request().Context(), title)
	if err != nil {
		if errors.Is(err, movie.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toMovieResponse(m))
}

// List godoc
// @Summary 映画一覧を取得
// @Tags movies
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} MovieResponse
// @Router /movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	movies, err := h.service.ListMovies(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]MovieResponse, len(movies))
	for i, m := range movies {
		resp[i] = toMovieResponse(m)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary 映画を更新
// @Description 指定タイトルの映画情報を更新します
// @Tags movies
// @Accept json
// @Produce json
// @Param title path string true "映画タイトル"
// @Param request body MovieRequest true "映画情報"
// @Success 200 {object} MovieResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /movies/{title} [put]
func (h *MovieHandler) Update(c echo.Context) error {
	title := c.Param("title")
	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	m, err := h.service.UpdateMovie(c.Request().Context(), title, application.MovieInput{
		Title: req.Title, Genre: req.Genre, Duration: req.Duration,
		Rating: req.Rating, ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		switch {
		case errors.Is(err, movie.ErrMovieNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, movie.ErrMovieAlreadyExists):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case movie.IsValidationError(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, toMovieResponse(m))
}

// Delete godoc
// @Summary 映画を削除
// @Description 映画と、その映画の全上映回・予約を削除します
// @Tags movies
// @Param title path string true "映画タイトル"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /movies/{title} [delete]
func (h *MovieHandler) Delete(c echo.Context) error {
	title := c.Param("title")
	if err := h.service.DeleteMovie(c.Request().Context(), title); err != nil {
		if errors.Is(err, movie.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
