package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/movie"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showseat"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/theater"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
	redislock "github.com/sanosuguru/go-cinema-ticket-booking/internal/infrastructure/redis"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

func (m *MockTxManager) BeginRepeatableRead(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockLockManager implements SeatLockManager
type MockLockManager struct {
	mock.Mock
}

func (m *MockLockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (*redislock.DistributedLock, error) {
	args := m.Called(ctx, key, ttl, maxRetries, retryDelay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redislock.DistributedLock), args.Error(1)
}

// MockMovieRepository implements movie.Repository
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) Create(ctx context.Context, mv *movie.Movie) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockMovieRepository) GetByID(ctx context.Context, id int64) (*movie.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetByTitle(ctx context.Context, title string) (*movie.Movie, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *MockMovieRepository) List(ctx context.Context, limit, offset int) ([]*movie.Movie, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*movie.Movie), args.Error(1)
}

func (m *MockMovieRepository) Update(ctx context.Context, mv *movie.Movie) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockMovieRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTheaterRepository implements theater.Repository
type MockTheaterRepository struct {
	mock.Mock
}

func (m *MockTheaterRepository) Create(ctx context.Context, tx transaction.Tx, th *theater.Theater) error {
	args := m.Called(ctx, tx, th)
	return args.Error(0)
}

func (m *MockTheaterRepository) GetByID(ctx context.Context, id int64) (*theater.Theater, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*theater.Theater), args.Error(1)
}

func (m *MockTheaterRepository) GetByName(ctx context.Context, name string) (*theater.Theater, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*theater.Theater), args.Error(1)
}

func (m *MockTheaterRepository) List(ctx context.Context) ([]*theater.Theater, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*theater.Theater), args.Error(1)
}

func (m *MockTheaterRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockSeatRepository implements theater.SeatRepository
type MockSeatRepository struct {
	mock.Mock
}

func (m *MockSeatRepository) CreateBulk(ctx context.Context, tx transaction.Tx, seats []*theater.Seat) error {
	args := m.Called(ctx, tx, seats)
	return args.Error(0)
}

func (m *MockSeatRepository) GetByTheaterID(ctx context.Context, theaterID int64) ([]*theater.Seat, error) {
	args := m.Called(ctx, theaterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*theater.Seat), args.Error(1)
}

func (m *MockSeatRepository) GetByTheaterAndNumber(ctx context.Context, theaterID int64, seatNumber int) (*theater.Seat, error) {
	args := m.Called(ctx, theaterID, seatNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*theater.Seat), args.Error(1)
}

// MockShowtimeRepository implements showtime.Repository
type MockShowtimeRepository struct {
	mock.Mock
}

func (m *MockShowtimeRepository) Create(ctx context.Context, tx transaction.Tx, st *showtime.Showtime) error {
	args := m.Called(ctx, tx, st)
	return args.Error(0)
}

func (m *MockShowtimeRepository) GetByID(ctx context.Context, id int64) (*showtime.Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*showtime.Showtime), args.Error(1)
}

func (m *MockShowtimeRepository) List(ctx context.Context, limit, offset int) ([]*showtime.Showtime, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*showtime.Showtime), args.Error(1)
}

func (m *MockShowtimeRepository) ListByMovieID(ctx context.Context, movieID int64) ([]*showtime.Showtime, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*showtime.Showtime), args.Error(1)
}

func (m *MockShowtimeRepository) FindOverlapping(ctx context.Context, theaterName string, start, end time.Time, excludeID int64) ([]*showtime.Showtime, error) {
	args := m.Called(ctx, theaterName, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*showtime.Showtime), args.Error(1)
}

func (m *MockShowtimeRepository) Update(ctx context.Context, tx transaction.Tx, st *showtime.Showtime) error {
	args := m.Called(ctx, tx, st)
	return args.Error(0)
}

func (m *MockShowtimeRepository) Delete(ctx context.Context, tx transaction.Tx, id int64) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockShowSeatRepository implements showseat.Repository
type MockShowSeatRepository struct {
	mock.Mock
}

func (m *MockShowSeatRepository) CreateBulk(ctx context.Context, tx transaction.Tx, seats []*showseat.ShowSeat) error {
	args := m.Called(ctx, tx, seats)
	return args.Error(0)
}

func (m *MockShowSeatRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, showtimeID, seatID int64) (*showseat.ShowSeat, error) {
	args := m.Called(ctx, tx, showtimeID, seatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*showseat.ShowSeat), args.Error(1)
}

func (m *MockShowSeatRepository) MarkReserved(ctx context.Context, tx transaction.Tx, id int64) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockShowSeatRepository) ListByShowtimeID(ctx context.Context, showtimeID int64) ([]*showseat.ShowSeat, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*showseat.ShowSeat), args.Error(1)
}

func (m *MockShowSeatRepository) CountAvailableByShowtimeID(ctx context.Context, showtimeID int64) (int, error) {
	args := m.Called(ctx, showtimeID)
	return args.Int(0), args.Error(1)
}

func (m *MockShowSeatRepository) DeleteByShowtimeID(ctx context.Context, tx transaction.Tx, showtimeID int64) error {
	args := m.Called(ctx, tx, showtimeID)
	return args.Error(0)
}

// MockBookingRepository implements booking.Repository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByShowtimeAndSeat(ctx context.Context, showtimeID int64, seatNumber int) (*booking.Booking, error) {
	args := m.Called(ctx, showtimeID, seatNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) ExistsByShowtimeAndSeat(ctx context.Context, showtimeID int64, seatNumber int) (bool, error) {
	args := m.Called(ctx, showtimeID, seatNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) ListByShowtimeID(ctx context.Context, showtimeID int64) ([]*booking.Booking, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) DeleteByShowtimeID(ctx context.Context, tx transaction.Tx, showtimeID int64) error {
	args := m.Called(ctx, tx, showtimeID)
	return args.Error(0)
}
