package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showseat"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/theater"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
	redislock "github.com/sanosuguru/go-cinema-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/metrics"
)

// SeatLockManager は座席単位の補助ロックを提供する
// 実体は Redis の分散ロック。獲得できなくても予約の正否には影響しない
type SeatLockManager interface {
	AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (*redislock.DistributedLock, error)
}

// BookingService は予約処理を司る
// 座席の最終的な獲得可否は ReservationEngine が決定し、本サービスは
// その前段の検証（上映回の存在、座席番号の範囲、重複の先行チェック）と
// 後段の台帳書き込み・キャッシュ無効化を担う
type BookingService struct {
	engine       *ReservationEngine
	bookingRepo  booking.Repository
	showtimeRepo showtime.Repository
	theaterRepo  theater.Repository
	seatRepo     theater.SeatRepository
	lockManager  SeatLockManager
	cache        *redislock.AvailabilityCache
	lockTTL      time.Duration
	metrics      *metrics.Metrics
}

// NewBookingService はBookingServiceを作成する
// lockManager と cache は nil を許容する（Redisなし構成）
func NewBookingService(
	engine *ReservationEngine,
	br booking.Repository,
	str showtime.Repository,
	tr theater.Repository,
	sr theater.SeatRepository,
	lm SeatLockManager,
	cache *redislock.AvailabilityCache,
	lockTTL time.Duration,
	m *metrics.Metrics,
) *BookingService {
	return &BookingService{
		engine:       engine,
		bookingRepo:  br,
		showtimeRepo: str,
		theaterRepo:  tr,
		seatRepo:     sr,
		lockManager:  lm,
		cache:        cache,
		lockTTL:      lockTTL,
		metrics:      m,
	}
}

type CreateBookingInput struct {
	ShowtimeID int64
	SeatNumber int
	UserID     string
}

// CreateBooking は座席を予約する
// 成功時は座席フラグの更新と台帳への書き込みが同一トランザクションで確定し、
// 失敗時はどちらの痕跡も残らない
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	b := booking.NewBooking(input.ShowtimeID, input.SeatNumber, input.UserID)
	if err := b.Validate(); err != nil {
		s.recordOutcome("invalid")
		return nil, err
	}

	st, err := s.showtimeRepo.GetByID(ctx, input.ShowtimeID)
	if err != nil {
		if errors.Is(err, showtime.ErrShowtimeNotFound) {
			s.recordOutcome("not_found")
		} else {
			s.recordOutcome("error")
		}
		return nil, err
	}

	th, err := s.theaterRepo.GetByName(ctx, st.TheaterName)
	if err != nil {
		s.recordOutcome("error")
		return nil, fmt.Errorf("劇場取得に失敗: %w", err)
	}
	if !th.ContainsSeatNumber(input.SeatNumber) {
		s.recordOutcome("invalid")
		return nil, booking.ErrInvalidSeatNumber
	}

	// 先行チェック。最終的な判定はエンジンが行うため、ここでの見逃しは許容される
	exists, err := s.bookingRepo.ExistsByShowtimeAndSeat(ctx, input.ShowtimeID, input.SeatNumber)
	if err != nil {
		s.recordOutcome("error")
		return nil, fmt.Errorf("重複チェックに失敗: %w", err)
	}
	if exists {
		s.recordOutcome("conflict")
		return nil, booking.ErrSeatAlreadyBooked
	}

	// 分散ロックは同一座席へのDB負荷を抑える補助的な関門
	// 獲得できなくても正しさはエンジンの行ロックが保証する
	if s.lockManager != nil {
		lockKey := fmt.Sprintf("bookings:%d:%d", input.ShowtimeID, input.SeatNumber)
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, lockKey, s.lockTTL, 3, 50*time.Millisecond)
		switch {
		case err == nil:
			defer lock.Release(ctx)
		case errors.Is(err, redislock.ErrLockNotAcquired):
			logger.Get().Debug("分散ロックが競合中のため、行ロックのみで続行します",
				zap.String("lock_key", lockKey))
		default:
			logger.Get().Warn("分散ロックの取得に失敗しました。行ロックのみで続行します", zap.Error(err))
		}
	}

	seat, err := s.seatRepo.GetByTheaterAndNumber(ctx, th.ID, input.SeatNumber)
	if err != nil {
		s.recordOutcome("error")
		return nil, fmt.Errorf("座席解決に失敗: %w", err)
	}

	won, err := s.engine.Reserve(ctx, input.ShowtimeID, seat.ID, func(ctx context.Context, tx transaction.Tx) error {
		return s.bookingRepo.Create(ctx, tx, b)
	})
	if err != nil {
		switch {
		case IsLostRace(err) || errors.Is(err, booking.ErrSeatAlreadyBooked):
			s.recordOutcome("conflict")
			return nil, booking.ErrSeatAlreadyBooked
		case errors.Is(err, showseat.ErrSlotNotFound):
			s.recordOutcome("not_found")
			return nil, err
		case errors.Is(err, showseat.ErrContentionExhausted):
			s.recordOutcome("exhausted")
			return nil, err
		default:
			s.recordOutcome("error")
			return nil, err
		}
	}
	if !won {
		s.recordOutcome("conflict")
		return nil, booking.ErrSeatAlreadyBooked
	}

	s.recordOutcome("success")
	s.invalidateAvailability(ctx, input.ShowtimeID)

	logger.Get().Info("予約が確定しました",
		zap.String("booking_id", b.ID),
		zap.Int64("showtime_id", b.ShowtimeID),
		zap.Int("seat_number", b.SeatNumber))
	return b, nil
}

// GetBooking はIDから予約を取得する
func (s *BookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// GetBookingBySeat は上映回と座席番号から予約を取得する（座席の保有者照会）
func (s *BookingService) GetBookingBySeat(ctx context.Context, showtimeID int64, seatNumber int) (*booking.Booking, error) {
	return s.bookingRepo.GetByShowtimeAndSeat(ctx, showtimeID, seatNumber)
}

// ListBookings は上映回の予約一覧を取得する
func (s *BookingService) ListBookings(ctx context.Context, showtimeID int64) ([]*booking.Booking, error) {
	return s.bookingRepo.ListByShowtimeID(ctx, showtimeID)
}

func (s *BookingService) recordOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *BookingService) invalidateAvailability(ctx context.Context, showtimeID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, showtimeID); err != nil {
		logger.Get().Warn("空き座席数キャッシュの無効化に失敗しました",
			zap.Int64("showtime_id", showtimeID), zap.Error(err))
	}
}
