package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/movie"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showseat"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/theater"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-cinema-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/metrics"
)

// ShowtimeService は上映回のライフサイクルを管理する
// 上映回の作成時に劇場の全座席分の空き状況レコードを同一トランザクションで
// 一括生成し、削除時には予約→空き状況→上映回の順で同一トランザクション内に
// 完全に片付ける。途中状態が外部から観測されることはない
type ShowtimeService struct {
	txManager       transaction.Manager
	showtimeRepo    showtime.Repository
	movieRepo       movie.Repository
	theaterRepo     theater.Repository
	seatRepo        theater.SeatRepository
	showSeatRepo    showseat.Repository
	bookingRepo     booking.Repository
	cache           *redisinfra.AvailabilityCache
	availabilityTTL time.Duration
	metrics         *metrics.Metrics
}

// NewShowtimeService はShowtimeServiceを作成する
// cache は nil を許容する（Redisなし構成）
func NewShowtimeService(
	tm transaction.Manager,
	str showtime.Repository,
	mr movie.Repository,
	tr theater.Repository,
	sr theater.SeatRepository,
	ssr showseat.Repository,
	br booking.Repository,
	cache *redisinfra.AvailabilityCache,
	availabilityTTL time.Duration,
	m *metrics.Metrics,
) *ShowtimeService {
	return &ShowtimeService{
		txManager:       tm,
		showtimeRepo:    str,
		movieRepo:       mr,
		theaterRepo:     tr,
		seatRepo:        sr,
		showSeatRepo:    ssr,
		bookingRepo:     br,
		cache:           cache,
		availabilityTTL: availabilityTTL,
		metrics:         m,
	}
}

type CreateShowtimeInput struct {
	MovieID     int64
	TheaterName string
	Price       float64
	StartTime   time.Time
	EndTime     time.Time
}

// CreateShowtime は上映回を作成し、劇場の全座席分の空き状況レコードを生成する
func (s *ShowtimeService) CreateShowtime(ctx context.Context, input CreateShowtimeInput) (*showtime.Showtime, error) {
	st := showtime.NewShowtime(input.MovieID, input.TheaterName, input.Price, input.StartTime, input.EndTime)
	if err := st.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.movieRepo.GetByID(ctx, input.MovieID); err != nil {
		return nil, err
	}
	th, err := s.theaterRepo.GetByName(ctx, input.TheaterName)
	if err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, st, 0); err != nil {
		return nil, err
	}

	seats, err := s.seatRepo.GetByTheaterID(ctx, th.ID)
	if err != nil {
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.showtimeRepo.Create(ctx, tx, st); err != nil {
		return nil, err
	}
	if err := s.showSeatRepo.CreateBulk(ctx, tx, materializeSlots(st.ID, seats)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	logger.Get().Info("上映回を作成しました",
		zap.Int64("showtime_id", st.ID),
		zap.String("theater", st.TheaterName),
		zap.Int("slots", len(seats)))
	return st, nil
}

// GetShowtime はIDから上映回を取得する
func (s *ShowtimeService) GetShowtime(ctx context.Context, id int64) (*showtime.Showtime, error) {
	return s.showtimeRepo.GetByID(ctx, id)
}

// ListShowtimes は上映回一覧を取得する
func (s *ShowtimeService) ListShowtimes(ctx context.Context, limit, offset int) ([]*showtime.Showtime, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.showtimeRepo.List(ctx, limit, offset)
}

type UpdateShowtimeInput struct {
	MovieID     int64
	TheaterName string
	Price       float64
	StartTime   time.Time
	EndTime     time.Time
}

// UpdateShowtime は上映回の内容を変更する
// 劇場の変更は空き状況レコードの作り直しを伴うため、既に予約が存在する
// 上映回では拒否する
func (s *ShowtimeService) UpdateShowtime(ctx context.Context, id int64, input UpdateShowtimeInput) (*showtime.Showtime, error) {
	st, err := s.showtimeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousTheater := st.TheaterName
	st.MovieID = input.MovieID
	st.TheaterName = input.TheaterName
	st.Price = input.Price
	st.StartTime = input.StartTime
	st.EndTime = input.EndTime
	st.UpdatedAt = time.Now()
	if err := st.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.movieRepo.GetByID(ctx, st.MovieID); err != nil {
		return nil, err
	}
	th, err := s.theaterRepo.GetByName(ctx, st.TheaterName)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, st, id); err != nil {
		return nil, err
	}

	if st.TheaterName == previousTheater {
		tx, err := s.txManager.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
		}
		defer tx.Rollback()

		if err := s.showtimeRepo.Update(ctx, tx, st); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("コミットに失敗: %w", err)
		}
		return st, nil
	}

	// 劇場が変わる場合は空き状況レコードを作り直す
	bookings, err := s.bookingRepo.ListByShowtimeID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("予約確認に失敗: %w", err)
	}
	if len(bookings) > 0 {
		return nil, showtime.ErrShowtimeHasBookings
	}

	seats, err := s.seatRepo.GetByTheaterID(ctx, th.ID)
	if err != nil {
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.showSeatRepo.DeleteByShowtimeID(ctx, tx, id); err != nil {
		return nil, err
	}
	if err := s.showSeatRepo.CreateBulk(ctx, tx, materializeSlots(id, seats)); err != nil {
		return nil, err
	}
	if err := s.showtimeRepo.Update(ctx, tx, st); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	s.invalidateAvailability(ctx, id)
	return st, nil
}

// CancelShowtime は上映回を完全に片付ける
// 予約→空き状況→上映回の順で同一トランザクション内に削除する
func (s *ShowtimeService) CancelShowtime(ctx context.Context, id int64) error {
	if _, err := s.showtimeRepo.GetByID(ctx, id); err != nil {
		return err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.bookingRepo.DeleteByShowtimeID(ctx, tx, id); err != nil {
		return err
	}
	if err := s.showSeatRepo.DeleteByShowtimeID(ctx, tx, id); err != nil {
		return err
	}
	if err := s.showtimeRepo.Delete(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateAvailability(ctx, id)
	logger.Get().Info("上映回を削除しました", zap.Int64("showtime_id", id))
	return nil
}

// ListSlots は上映回の空き状況一覧を取得する（座席表の元データ）
func (s *ShowtimeService) ListSlots(ctx context.Context, showtimeID int64) ([]*showseat.ShowSeat, error) {
	if _, err := s.showtimeRepo.GetByID(ctx, showtimeID); err != nil {
		return nil, err
	}
	return s.showSeatRepo.ListByShowtimeID(ctx, showtimeID)
}

// CountAvailableSeats は上映回の空き座席数を返す
// キャッシュがあればキャッシュから、なければDBから取得してキャッシュを温める
func (s *ShowtimeService) CountAvailableSeats(ctx context.Context, showtimeID int64) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, showtimeID)
		if err == nil {
			s.recordCache("hit")
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Get().Warn("キャッシュ参照に失敗しました", zap.Error(err))
		}
		s.recordCache("miss")
	}

	if _, err := s.showtimeRepo.GetByID(ctx, showtimeID); err != nil {
		return 0, err
	}
	count, err := s.showSeatRepo.CountAvailableByShowtimeID(ctx, showtimeID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetAvailableCount(ctx, showtimeID, count, s.availabilityTTL); err != nil {
			logger.Get().Warn("キャッシュ保存に失敗しました", zap.Error(err))
		}
	}
	return count, nil
}

// RefreshAvailability はDBの空き座席数でキャッシュを上書きする
// キャッシュの状態に関わらず常にDBから数え直す
func (s *ShowtimeService) RefreshAvailability(ctx context.Context, showtimeID int64) (int, error) {
	count, err := s.showSeatRepo.CountAvailableByShowtimeID(ctx, showtimeID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.SetAvailableCount(ctx, showtimeID, count, s.availabilityTTL); err != nil {
			logger.Get().Warn("キャッシュ保存に失敗しました", zap.Error(err))
		}
	}
	return count, nil
}

// checkOverlap は同一劇場での時間帯重複を検査する
// 端点が接するだけの上映回は検索条件で除外される
func (s *ShowtimeService) checkOverlap(ctx context.Context, st *showtime.Showtime, excludeID int64) error {
	overlapping, err := s.showtimeRepo.FindOverlapping(ctx, st.TheaterName, st.StartTime, st.EndTime, excludeID)
	if err != nil {
		return fmt.Errorf("重複検査に失敗: %w", err)
	}
	if len(overlapping) > 0 {
		return showtime.ErrShowtimeOverlap
	}
	return nil
}

func (s *ShowtimeService) recordCache(result string) {
	if s.metrics != nil {
		s.metrics.AvailabilityCacheTotal.WithLabelValues(result).Inc()
	}
}

func (s *ShowtimeService) invalidateAvailability(ctx context.Context, showtimeID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, showtimeID); err != nil {
		logger.Get().Warn("空き座席数キャッシュの無効化に失敗しました",
			zap.Int64("showtime_id", showtimeID), zap.Error(err))
	}
}

// materializeSlots は座席ごとの空き状況レコードを生成する
func materializeSlots(showtimeID int64, seats []*theater.Seat) []*showseat.ShowSeat {
	slots := make([]*showseat.ShowSeat, len(seats))
	for i, seat := range seats {
		slots[i] = showseat.NewShowSeat(showtimeID, seat.ID)
	}
	return slots
}
