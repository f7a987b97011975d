package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/application"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/movie"
)

// MockMovieService はMovieServiceInterfaceのモック
type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) CreateMovie(ctx context.Context, input application.MovieInput) (*movie.Movie, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *MockMovieService) GetMovieByTitle(ctx context.Context, title string) (*movie.Movie, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *MockMovieService) ListMovies(ctx context.Context, limit, offset int) ([]*movie.Movie, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*movie.Movie), args.Error(1)
}

func (m *MockMovieService) UpdateMovie(ctx context.Context, title string, input application.MovieInput) (*movie.Movie, error) {
	args := m.Called(ctx, title, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *MockMovieService) DeleteMovie(ctx context.Context, title string) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func testMovieEntity() *movie.Movie {
	now := time.Now()
	return &movie.Movie{
		ID: 1, Title: "Inception", Genre: "SF",
		Duration: 148, Rating: 8.8, ReleaseYear: 2010,
		CreatedAt: now, UpdatedAt: now,
	}
}

func TestMovieHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に映画を作成できる", func(t *testing.T) {
		mockService := new(MockMovieService)
		expected := testMovieEntity()

		mockService.On("CreateMovie", mock.Anything, application.MovieInput{
			Title: "Inception", Genre: "SF", Duration: 148, Rating: 8.8, ReleaseYear: 2010,
		}).Return(expected, nil)

		handler := NewMovieHandler(mockService)

		reqBody := `{"title": "Inception", "genre": "SF", "duration": 148, "rating": 8.8, "release_year": 2010}`
		req := httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp MovieResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "Inception", resp.Title)

		mockService.AssertExpectations(t)
	})

	t.Run("同名の映画が存在する場合409", func(t *testing.T) {
		mockService := new(MockMovieService)
		mockService.On("CreateMovie", mock.Anything, mock.Anything).
			Return(nil, movie.ErrMovieAlreadyExists)

		handler := NewMovieHandler(mockService)

		reqBody := `{"title": "Inception", "genre": "SF", "duration": 148, "rating": 8.8, "release_year": 2010}`
		req := httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})

	t.Run("必須項目がない場合400", func(t *testing.T) {
		mockService := new(MockMovieService)
		handler := NewMovieHandler(mockService)

		reqBody := `{"title": "Inception"}`
		req := httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockService.AssertNotCalled(t, "CreateMovie", mock.Anything, mock.Anything)
	})
}

func TestMovieHandler_GetByTitle(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に映画を取得できる", func(t *testing.T) {
		mockService := new(MockMovieService)
		expected := testMovieEntity()
		mockService.On("GetMovieByTitle", mock.Anything, "Inception").Return(expected, nil)

		handler := NewMovieHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/movies/Inception", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("title")
		c.SetParamValues("Inception")

		err := handler.GetByTitle(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		mockService.AssertExpectations(t)
	})

	t.Run("映画が見つからない場合404", func(t *testing.T) {
		mockService := new(MockMovieService)
		mockService.On("GetMovieByTitle", mock.Anything, "nonexistent").Return(nil, movie.ErrMovieNotFound)

		handler := NewMovieHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/movies/nonexistent", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("title")
		c.SetParamValues("nonexistent")

		err := handler.GetByTitle(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestMovieHandler_Delete(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に映画を削除できる", func(t *testing.T) {
		mockService := new(MockMovieService)
		mockService.On("DeleteMovie", mock.Anything, "Inception").Return(nil)

		handler := NewMovieHandler(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/movies/Inception", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("title")
		c.SetParamValues("Inception")

		err := handler.Delete(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		mockService.AssertExpectations(t)
	})

	t.Run("映画が見つからない場合404", func(t *testing.T) {
		mockService := new(MockMovieService)
		mockService.On("DeleteMovie", mock.Anything, "nonexistent").Return(movie.ErrMovieNotFound)

		handler := NewMovieHandler(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/movies/nonexistent", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("title")
		c.SetParamValues("nonexistent")

		err := handler.Delete(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestMovieHandler_List(t *testing.T) {
	e := NewTestEcho()

	t.Run("映画一覧を取得できる", func(t *testing.T) {
		mockService := new(MockMovieService)
		movies := []*movie.Movie{testMovieEntity()}
		mockService.On("ListMovies", mock.Anything, 10, 0).Return(movies, nil)

		handler := NewMovieHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/movies?limit=10", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.List(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []MovieResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Len(t, resp, 1)
	})
}
