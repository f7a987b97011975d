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
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/theater"
)

// MockTheaterService はTheaterServiceInterfaceのモック
type MockTheaterService struct {
	mock.Mock
}

func (m *MockTheaterService) CreateTheater(ctx context.Context, input application.CreateTheaterInput) (*theater.Theater, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*theater.Theater), args.Error(1)
}

func (m *MockTheaterService) GetTheaterByName(ctx context.Context, name string) (*theater.Theater, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*theater.Theater), args.Error(1)
}

func (m *MockTheaterService) ListTheaters(ctx context.Context) ([]*theater.Theater, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*theater.Theater), args.Error(1)
}

func (m *MockTheaterService) ListSeats(ctx context.Context, theaterID int64) ([]*theater.Seat, error) {
	args := m.Called(ctx, theaterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*theater.Seat), args.Error(1)
}

func TestTheaterHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に劇場を作成できる", func(t *testing.T) {
		mockService := new(MockTheaterService)
		now := time.Now()
		expected := &theater.Theater{ID: 1, Name: "Cinema City 1", NumberOfSeats: 100, CreatedAt: now, UpdatedAt: now}

		mockService.On("CreateTheater", mock.Anything, application.CreateTheaterInput{
			Name: "Cinema City 1", NumberOfSeats: 100,
		}).Return(expected, nil)

		handler := NewTheaterHandler(mockService)

		reqBody := `{"name": "Cinema City 1", "number_of_seats": 100}`
		req := httptest.NewRequest(http.MethodPost, "/theaters", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp TheaterResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, 100, resp.NumberOfSeats)

		mockService.AssertExpectations(t)
	})

	t.Run("同名の劇場が存在する場合409", func(t *testing.T) {
		mockService := new(MockTheaterService)
		mockService.On("CreateTheater", mock.Anything, mock.Anything).
			Return(nil, theater.ErrTheaterAlreadyExists)

		handler := NewTheaterHandler(mockService)

		reqBody := `{"name": "Cinema City 1", "number_of_seats": 100}`
		req := httptest.NewRequest(http.MethodPost, "/theaters", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})

	t.Run("劇場数が上限の場合409でエラーに既存劇場名を含む", func(t *testing.T) {
		mockService := new(MockTheaterService)
		limitErr := &theater.LimitExceededError{Max: 2, TheaterNames: []string{"Cinema1", "Cinema2"}}
		mockService.On("CreateTheater", mock.Anything, mock.Anything).Return(nil, limitErr)

		handler := NewTheaterHandler(mockService)

		reqBody := `{"name": "Cinema3", "number_of_seats": 50}`
		req := httptest.NewRequest(http.MethodPost, "/theaters", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
		msg, ok := he.Message.(string)
		require.True(t, ok)
		assert.Contains(t, msg, "Cinema1")
		assert.Contains(t, msg, "Cinema2")
	})

	t.Run("座席数がない場合400", func(t *testing.T) {
		mockService := new(MockTheaterService)
		handler := NewTheaterHandler(mockService)

		reqBody := `{"name": "Cinema City 1"}`
		req := httptest.NewRequest(http.MethodPost, "/theaters", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockService.AssertNotCalled(t, "CreateTheater", mock.Anything, mock.Anything)
	})
}

func TestTheaterHandler_ListSeats(t *testing.T) {
	e := NewTestEcho()

	t.Run("劇場の座席一覧を取得できる", func(t *testing.T) {
		mockService := new(MockTheaterService)
		now := time.Now()
		th := &theater.Theater{ID: 5, Name: "Cinema City 1", NumberOfSeats: 3, CreatedAt: now, UpdatedAt: now}
		seats := []*theater.Seat{
			{ID: 101, TheaterID: 5, SeatNumber: 1},
			{ID: 102, TheaterID: 5, SeatNumber: 2},
			{ID: 103, TheaterID: 5, SeatNumber: 3},
		}
		mockService.On("GetTheaterByName", mock.Anything, "Cinema City 1").Return(th, nil)
		mockService.On("ListSeats", mock.Anything, int64(5)).Return(seats, nil)

		handler := NewTheaterHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/theaters/Cinema%20City%201/seats", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("name")
		c.SetParamValues("Cinema City 1")

		err := handler.ListSeats(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []SeatResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		require.Len(t, resp, 3)
		assert.Equal(t, 1, resp[0].SeatNumber)

		mockService.AssertExpectations(t)
	})

	t.Run("劇場が見つからない場合404", func(t *testing.T) {
		mockService := new(MockTheaterService)
		mockService.On("GetTheaterByName", mock.Anything, "nonexistent").Return(nil, theater.ErrTheaterNotFound)

		handler := NewTheaterHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/theaters/nonexistent/seats", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("name")
		c.SetParamValues("nonexistent")

		err := handler.ListSeats(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestTheaterHandler_List(t *testing.T) {
	e := NewTestEcho()

	t.Run("劇場一覧を取得できる", func(t *testing.T) {
		mockService := new(MockTheaterService)
		now := time.Now()
		theaters := []*theater.Theater{
			{ID: 1, Name: "Cinema1", NumberOfSeats: 100, CreatedAt: now, UpdatedAt: now},
			{ID: 2, Name: "Cinema2", NumberOfSeats: 50, CreatedAt: now, UpdatedAt: now},
		}
		mockService.On("ListTheaters", mock.Anything).Return(theaters, nil)

		handler := NewTheaterHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/theaters", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.List(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []TheaterResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Len(t, resp, 2)
	})
}
