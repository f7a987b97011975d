package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/movie"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
)

// MovieService は映画カタログを管理する
// 映画はタイトルで一意に識別され、更新・削除もタイトルで行う
type MovieService struct {
	movieRepo       movie.Repository
	showtimeRepo    showtime.Repository
	showtimeService *ShowtimeService
}

// NewMovieService はMovieServiceを作成する
func NewMovieService(mr movie.Repository, str showtime.Repository, ss *ShowtimeService) *MovieService {
	return &MovieService{
		movieRepo:       mr,
		showtimeRepo:    str,
		showtimeService: ss,
	}
}

type MovieInput struct {
	Title       string
	Genre       string
	Duration    int
	Rating      float64
	ReleaseYear int
}

// CreateMovie は映画を作成する
func (s *MovieService) CreateMovie(ctx context.Context, input MovieInput) (*movie.Movie, error) {
	m := movie.NewMovie(input.Title, input.Genre, input.Duration, input.Rating, input.ReleaseYear)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.movieRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMovieByTitle はタイトルから映画を取得する
func (s *MovieService) GetMovieByTitle(ctx context.Context, title string) (*movie.Movie, error) {
	return s.movieRepo.GetByTitle(ctx, title)
}

// ListMovies は映画一覧を取得する
func (s *MovieService) ListMovies(ctx context.Context, limit, offset int) ([]*movie.Movie, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.movieRepo.List(ctx, limit, offset)
}

// UpdateMovie はタイトルで指定した映画の内容を更新する
func (s *MovieService) UpdateMovie(ctx context.Context, title string, input MovieInput) (*movie.Movie, error) {
	m, err := s.movieRepo.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	m.Title = input.Title
	m.Genre = input.Genre
	m.Duration = input.Duration
	m.Rating = input.Rating
	m.ReleaseYear = input.ReleaseYear
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.movieRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMovie はタイトルで指定した映画を削除する
// 先にその映画の全上映回を（予約・空き状況もろとも）片付けてから本体を消す
func (s *MovieService) DeleteMovie(ctx context.Context, title string) error {
	m, err := s.movieRepo.GetByTitle(ctx, title)
	if err != nil {
		return err
	}

	showtimes, err := s.showtimeRepo.ListByMovieID(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("上映回一覧取得に失敗: %w", err)
	}
	for _, st := range showtimes {
		if err := s.showtimeService.CancelShowtime(ctx, st.ID); err != nil {
			return fmt.Errorf("上映回の削除に失敗 (showtime_id=%d): %w", st.ID, err)
		}
	}

	if err := s.movieRepo.Delete(ctx, m.ID); err != nil {
		return err
	}
	logger.Get().Info("映画を削除しました",
		zap.String("title", title),
		zap.Int("cancelled_showtimes", len(showtimes)))
	return nil
}
