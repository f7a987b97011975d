package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showseat"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/theater"
	redislock "github.com/sanosuguru/go-cinema-ticket-booking/internal/infrastructure/redis"
)

const testUserID = "84538f5c-9f1a-4df2-9bbe-d53a84e9c89a"

type bookingTestDeps struct {
	txManager    *MockTxManager
	tx           *MockTx
	bookingRepo  *MockBookingRepository
	showtimeRepo *MockShowtimeRepository
	theaterRepo  *MockTheaterRepository
	seatRepo     *MockSeatRepository
	showSeatRepo *MockShowSeatRepository
	service      *BookingService
}

func newBookingTestDeps() *bookingTestDeps {
	txm := new(MockTxManager)
	tx := new(MockTx)
	bookingRepo := new(MockBookingRepository)
	showtimeRepo := new(MockShowtimeRepository)
	theaterRepo := new(MockTheaterRepository)
	seatRepo := new(MockSeatRepository)
	showSeatRepo := new(MockShowSeatRepository)

	engine := NewReservationEngine(txm, showSeatRepo, noSleepPolicy(), nil)
	service := NewBookingService(engine, bookingRepo, showtimeRepo, theaterRepo, seatRepo, nil, nil, 0, nil)

	return &bookingTestDeps{
		txManager:    txm,
		tx:           tx,
		bookingRepo:  bookingRepo,
		showtimeRepo: showtimeRepo,
		theaterRepo:  theaterRepo,
		seatRepo:     seatRepo,
		showSeatRepo: showSeatRepo,
		service:      service,
	}
}

func (d *bookingTestDeps) expectShowtime() {
	d.showtimeRepo.On("GetByID", mock.Anything, int64(1)).Return(&showtime.Showtime{
		ID: 1, MovieID: 10, TheaterName: "Cinema1", Price: 1500,
	}, nil)
	d.theaterRepo.On("GetByName", mock.Anything, "Cinema1").Return(&theater.Theater{
		ID: 5, Name: "Cinema1", NumberOfSeats: 100,
	}, nil)
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	deps := newBookingTestDeps()
	ctx := context.Background()

	deps.expectShowtime()
	deps.bookingRepo.On("ExistsByShowtimeAndSeat", ctx, int64(1), 42).Return(false, nil)
	deps.seatRepo.On("GetByTheaterAndNumber", ctx, int64(5), 42).
		Return(&theater.Seat{ID: 420, TheaterID: 5, SeatNumber: 42}, nil)

	deps.txManager.On("BeginRepeatableRead", ctx).Return(deps.tx, nil)
	deps.tx.On("Rollback").Return(nil)
	deps.tx.On("Commit").Return(nil)
	deps.showSeatRepo.On("GetForUpdate", ctx, deps.tx, int64(1), int64(420)).
		Return(&showseat.ShowSeat{ID: 7, ShowtimeID: 1, SeatID: 420}, nil)
	deps.showSeatRepo.On("MarkReserved", ctx, deps.tx, int64(7)).Return(nil)
	deps.bookingRepo.On("Create", ctx, deps.tx, mock.AnythingOfType("*booking.Booking")).Return(nil)

	result, err := deps.service.CreateBooking(ctx, CreateBookingInput{
		ShowtimeID: 1, SeatNumber: 42, UserID: testUserID,
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.ID, "予約IDはシステム生成")
	assert.Equal(t, int64(1), result.ShowtimeID)
	assert.Equal(t, 42, result.SeatNumber)
	assert.Equal(t, testUserID, result.UserID)

	deps.bookingRepo.AssertExpectations(t)
	deps.showSeatRepo.AssertExpectations(t)
	deps.tx.AssertExpectations(t)
}

func TestBookingService_CreateBooking_LockContention(t *testing.T) {
	ctx := context.Background()

	// 補助ロックの成否に関わらず最終判定はエンジンの行ロックが行う
	expectEngineWin := func(deps *bookingTestDeps) {
		deps.bookingRepo.On("ExistsByShowtimeAndSeat", ctx, int64(1), 42).Return(false, nil)
		deps.seatRepo.On("GetByTheaterAndNumber", ctx, int64(5), 42).
			Return(&theater.Seat{ID: 420, TheaterID: 5, SeatNumber: 42}, nil)
		deps.txManager.On("BeginRepeatableRead", ctx).Return(deps.tx, nil)
		deps.tx.On("Rollback").Return(nil)
		deps.tx.On("Commit").Return(nil)
		deps.showSeatRepo.On("GetForUpdate", ctx, deps.tx, int64(1), int64(420)).
			Return(&showseat.ShowSeat{ID: 7, ShowtimeID: 1, SeatID: 420}, nil)
		deps.showSeatRepo.On("MarkReserved", ctx, deps.tx, int64(7)).Return(nil)
		deps.bookingRepo.On("Create", ctx, deps.tx, mock.AnythingOfType("*booking.Booking")).Return(nil)
	}

	t.Run("ロックが競合してもエンジンに判定を委ねる", func(t *testing.T) {
		deps := newBookingTestDeps()
		lm := new(MockLockManager)
		deps.service.lockManager = lm

		deps.expectShowtime()
		expectEngineWin(deps)
		lm.On("AcquireLockWithRetry", ctx, "bookings:1:42", mock.Anything, 3, 50*time.Millisecond).
			Return(nil, redislock.ErrLockNotAcquired)

		result, err := deps.service.CreateBooking(ctx, CreateBookingInput{
			ShowtimeID: 1, SeatNumber: 42, UserID: testUserID,
		})

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, 42, result.SeatNumber)
		lm.AssertExpectations(t)
		deps.showSeatRepo.AssertExpectations(t)
	})

	t.Run("ロック基盤の障害時も行ロックのみで続行する", func(t *testing.T) {
		deps := newBookingTestDeps()
		lm := new(MockLockManager)
		deps.service.lockManager = lm

		deps.expectShowtime()
		expectEngineWin(deps)
		lm.On("AcquireLockWithRetry", ctx, "bookings:1:42", mock.Anything, 3, 50*time.Millisecond).
			Return(nil, errors.New("接続に失敗しました"))

		result, err := deps.service.CreateBooking(ctx, CreateBookingInput{
			ShowtimeID: 1, SeatNumber: 42, UserID: testUserID,
		})

		require.NoError(t, err)
		require.NotNil(t, result)
		lm.AssertExpectations(t)
	})
}

func TestBookingService_CreateBooking_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   CreateBookingInput
		wantErr error
	}{
		{
			name:    "ユーザーIDがUUIDでない",
			input:   CreateBookingInput{ShowtimeID: 1, SeatNumber: 42, UserID: "not-a-uuid"},
			wantErr: booking.ErrInvalidUserID,
		},
		{
			name:    "座席番号が0",
			input:   CreateBookingInput{ShowtimeID: 1, SeatNumber: 0, UserID: testUserID},
			wantErr: booking.ErrInvalidSeatNumber,
		},
		{
			name:    "座席番号が負",
			input:   CreateBookingInput{ShowtimeID: 1, SeatNumber: -1, UserID: testUserID},
			wantErr: booking.ErrInvalidSeatNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newBookingTestDeps()
			result, err := deps.service.CreateBooking(ctx, tt.input)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
			// 検証エラーではエンジンもDBも触らない
			deps.showtimeRepo.AssertNotCalled(t, "GetByID")
			deps.txManager.AssertNotCalled(t, "BeginRepeatableRead")
		})
	}
}

func TestBookingService_CreateBooking_SeatOutOfRange(t *testing.T) {
	deps := newBookingTestDeps()
	ctx := context.Background()

	deps.expectShowtime()

	// 座席数100の劇場に101番を要求
	result, err := deps.service.CreateBooking(ctx, CreateBookingInput{
		ShowtimeID: 1, SeatNumber: 101, UserID: testUserID,
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, booking.ErrInvalidSeatNumber)
	deps.txManager.AssertNotCalled(t, "BeginRepeatableRead")
}

func TestBookingService_CreateBooking_ShowtimeNotFound(t *testing.T) {
	deps := newBookingTestDeps()
	ctx := context.Background()

	deps.showtimeRepo.On("GetByID", ctx, int64(999)).Return(nil, showtime.ErrShowtimeNotFound)

	result, err := deps.service.CreateBooking(ctx, CreateBookingInput{
		ShowtimeID: 999, SeatNumber: 1, UserID: testUserID,
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, showtime.ErrShowtimeNotFound)
}

func TestBookingService_CreateBooking_DuplicateFastPath(t *testing.T) {
	deps := newBookingTestDeps()
	ctx := context.Background()

	deps.expectShowtime()
	deps.bookingRepo.On("ExistsByShowtimeAndSeat", ctx, int64(1), 42).Return(true, nil)

	result, err := deps.service.CreateBooking(ctx, CreateBookingInput{
		ShowtimeID: 1, SeatNumber: 42, UserID: testUserID,
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, booking.ErrSeatAlreadyBooked)
	// 先行チェックで弾かれた場合はエンジンに到達しない
	deps.txManager.AssertNotCalled(t, "BeginRepeatableRead")
}

func TestBookingService_CreateBooking_LostRace(t *testing.T) {
	deps := newBookingTestDeps()
	ctx := context.Background()

	deps.expectShowtime()
	deps.bookingRepo.On("ExistsByShowtimeAndSeat", ctx, int64(1), 42).Return(false, nil)
	deps.seatRepo.On("GetByTheaterAndNumber", ctx, int64(5), 42).
		Return(&theater.Seat{ID: 420, TheaterID: 5, SeatNumber: 42}, nil)

	deps.txManager.On("BeginRepeatableRead", ctx).Return(deps.tx, nil)
	deps.tx.On("Rollback").Return(nil)
	// 先行チェックの後、コミット前に他のユーザーが確保済み
	deps.showSeatRepo.On("GetForUpdate", ctx, deps.tx, int64(1), int64(420)).
		Return(&showseat.ShowSeat{ID: 7, ShowtimeID: 1, SeatID: 420, Reserved: true}, nil)

	result, err := deps.service.CreateBooking(ctx, CreateBookingInput{
		ShowtimeID: 1, SeatNumber: 42, UserID: testUserID,
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, booking.ErrSeatAlreadyBooked)
	// 台帳への書き込みは発生しない
	deps.bookingRepo.AssertNotCalled(t, "Create")
}

func TestBookingService_CreateBooking_ContentionExhausted(t *testing.T) {
	deps := newBookingTestDeps()
	ctx := context.Background()

	deps.expectShowtime()
	deps.bookingRepo.On("ExistsByShowtimeAndSeat", ctx, int64(1), 42).Return(false, nil)
	deps.seatRepo.On("GetByTheaterAndNumber", ctx, int64(5), 42).
		Return(&theater.Seat{ID: 420, TheaterID: 5, SeatNumber: 42}, nil)

	deps.txManager.On("BeginRepeatableRead", ctx).Return(deps.tx, nil)
	deps.tx.On("Rollback").Return(nil)
	deps.showSeatRepo.On("GetForUpdate", ctx, deps.tx, int64(1), int64(420)).
		Return(nil, showseat.ErrTransientContention)

	result, err := deps.service.CreateBooking(ctx, CreateBookingInput{
		ShowtimeID: 1, SeatNumber: 42, UserID: testUserID,
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, showseat.ErrContentionExhausted)
}

func TestBookingService_GetBookingBySeat(t *testing.T) {
	deps := newBookingTestDeps()
	ctx := context.Background()

	expected := &booking.Booking{ID: "abc", ShowtimeID: 1, SeatNumber: 42, UserID: testUserID}
	deps.bookingRepo.On("GetByShowtimeAndSeat", ctx, int64(1), 42).Return(expected, nil)

	result, err := deps.service.GetBookingBySeat(ctx, 1, 42)

	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestBookingService_GetBooking_NotFound(t *testing.T) {
	deps := newBookingTestDeps()
	ctx := context.Background()

	deps.bookingRepo.On("GetByID", ctx, "nonexistent").Return(nil, booking.ErrBookingNotFound)

	result, err := deps.service.GetBooking(ctx, "nonexistent")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}
