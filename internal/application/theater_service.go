package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/theater"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
)

// TheaterService は劇場と座席カタログを管理する
type TheaterService struct {
	txManager   transaction.Manager
	theaterRepo theater.Repository
	seatRepo    theater.SeatRepository
	maxTheaters int
}

// NewTheaterService はTheaterServiceを作成する
func NewTheaterService(tm transaction.Manager, tr theater.Repository, sr theater.SeatRepository, maxTheaters int) *TheaterService {
	return &TheaterService{
		txManager:   tm,
		theaterRepo: tr,
		seatRepo:    sr,
		maxTheaters: maxTheaters,
	}
}

type CreateTheaterInput struct {
	Name          string
	NumberOfSeats int
}

// CreateTheater は劇場を作成し、1..N の座席を同一トランザクションで一括生成する
// 劇場数が上限に達している場合、案内のため既存の劇場名を含むエラーを返す
func (s *TheaterService) CreateTheater(ctx context.Context, input CreateTheaterInput) (*theater.Theater, error) {
	th := theater.NewTheater(input.Name, input.NumberOfSeats)
	if err := th.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.theaterRepo.GetByName(ctx, input.Name); err == nil {
		return nil, theater.ErrTheaterAlreadyExists
	} else if !errors.Is(err, theater.ErrTheaterNotFound) {
		return nil, fmt.Errorf("劇場名の確認に失敗: %w", err)
	}

	count, err := s.theaterRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("劇場数の確認に失敗: %w", err)
	}
	if count >= s.maxTheaters {
		existing, err := s.theaterRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("劇場一覧取得に失敗: %w", err)
		}
		names := make([]string, len(existing))
		for i, t := range existing {
			names[i] = t.Name
		}
		return nil, &theater.LimitExceededError{Max: s.maxTheaters, TheaterNames: names}
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.theaterRepo.Create(ctx, tx, th); err != nil {
		return nil, err
	}
	if err := s.seatRepo.CreateBulk(ctx, tx, th.MaterializeSeats()); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	logger.Get().Info("劇場を作成しました",
		zap.Int64("theater_id", th.ID),
		zap.String("name", th.Name),
		zap.Int("seats", th.NumberOfSeats))
	return th, nil
}

// GetTheater はIDから劇場を取得する
func (s *TheaterService) GetTheater(ctx context.Context, id int64) (*theater.Theater, error) {
	return s.theaterRepo.GetByID(ctx, id)
}

// GetTheaterByName は名前から劇場を取得する
func (s *TheaterService) GetTheaterByName(ctx context.Context, name string) (*theater.Theater, error) {
	return s.theaterRepo.GetByName(ctx, name)
}

// ListTheaters は劇場一覧を取得する
func (s *TheaterService) ListTheaters(ctx context.Context) ([]*theater.Theater, error) {
	return s.theaterRepo.List(ctx)
}

// ListSeats は劇場の座席一覧を座席番号順で取得する
func (s *TheaterService) ListSeats(ctx context.Context, theaterID int64) ([]*theater.Seat, error) {
	if _, err := s.theaterRepo.GetByID(ctx, theaterID); err != nil {
		return nil, err
	}
	return s.seatRepo.GetByTheaterID(ctx, theaterID)
}
