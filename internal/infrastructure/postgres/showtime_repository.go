package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

// showtimeRow はDBの行を表す構造体
type showtimeRow struct {
	ID          int64     `db:"id"`
	MovieID     int64     `db:"movie_id"`
	TheaterName string    `db:"theater_name"`
	Price       float64   `db:"price"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *showtimeRow) toEntity() *showtime.Showtime {
	return &showtime.Showtime{
		ID:          r.ID,
		MovieID:     r.MovieID,
		TheaterName: r.TheaterName,
		Price:       r.Price,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ShowtimeRepository は上映回リポジトリのPostgreSQL実装
type ShowtimeRepository struct {
	db *sqlx.DB
}

// NewShowtimeRepository はShowtimeRepositoryを作成する
func NewShowtimeRepository(db *sqlx.DB) *ShowtimeRepository {
	return &ShowtimeRepository{db: db}
}

// Create は新しい上映回を作成する（トランザクション必須）
func (r *ShowtimeRepository) Create(ctx context.Context, tx transaction.Tx, s *showtime.Showtime) error {
	query := `
		INSERT INTO showtimes (movie_id, theater_name, price, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := UnwrapTx(tx).QueryRowContext(ctx, query,
		s.MovieID, s.TheaterName, s.Price, s.StartTime, s.EndTime, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("上映回作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから上映回を取得する
func (r *ShowtimeRepository) GetByID(ctx context.Context, id int64) (*showtime.Showtime, error) {
	query := `SELECT id, movie_id, theater_name, price, start_time, end_time, created_at, updated_at FROM showtimes WHERE id = $1`

	var row showtimeRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, showtime.ErrShowtimeNotFound
		}
		return nil, fmt.Errorf("上映回取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List は上映回一覧を開始時刻順で取得する
func (r *ShowtimeRepository) List(ctx context.Context, limit, offset int) ([]*showtime.Showtime, error) {
	query := `
		SELECT id, movie_id, theater_name, price, start_time, end_time, created_at, updated_at
		FROM showtimes
		ORDER BY start_time
		LIMIT $1 OFFSET $2
	`

	var rows []showtimeRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("上映回一覧取得に失敗しました: %w", err)
	}
	return toShowtimeEntities(rows), nil
}

// ListByMovieID は映画IDから上映回一覧を取得する
func (r *ShowtimeRepository) ListByMovieID(ctx context.Context, movieID int64) ([]*showtime.Showtime, error) {
	query := `
		SELECT id, movie_id, theater_name, price, start_time, end_time, created_at, updated_at
		FROM showtimes
		WHERE movie_id = $1
		ORDER BY start_time
	`

	var rows []showtimeRow
	if err := r.db.SelectContext(ctx, &rows, query, movieID); err != nil {
		return nil, fmt.Errorf("上映回一覧取得に失敗しました: %w", err)
	}
	return toShowtimeEntities(rows), nil
}

// FindOverlapping は同一劇場で [start, end) と重複する上映回を取得する
// 端点が接するだけの上映回は重複とみなさない
func (r *ShowtimeRepository) FindOverlapping(ctx context.Context, theaterName string, start, end time.Time, excludeID int64) ([]*showtime.Showtime, error) {
	query := `
		SELECT id, movie_id, theater_name, price, start_time, end_time, created_at, updated_at
		FROM showtimes
		WHERE theater_name = $1 AND start_time < $3 AND end_time > $2 AND id != $4
	`

	var rows []showtimeRow
	if err := r.db.SelectContext(ctx, &rows, query, theaterName, start, end, excludeID); err != nil {
		return nil, fmt.Errorf("重複上映回の検索に失敗しました: %w", err)
	}
	return toShowtimeEntities(rows), nil
}

// Update は上映回を更新する（トランザクション必須）
func (r *ShowtimeRepository) Update(ctx context.Context, tx transaction.Tx, s *showtime.Showtime) error {
	query := `
		UPDATE showtimes
		SET movie_id = $1, theater_name = $2, price = $3, start_time = $4, end_time = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := UnwrapTx(tx).ExecContext(ctx, query,
		s.MovieID, s.TheaterName, s.Price, s.StartTime, s.EndTime, time.Now(), s.ID,
	)
	if err != nil {
		return fmt.Errorf("上映回更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return showtime.ErrShowtimeNotFound
	}
	return nil
}

// Delete は上映回を削除する（トランザクション必須）
// 予約と空き状況レコードの削除後に呼び出すこと
func (r *ShowtimeRepository) Delete(ctx context.Context, tx transaction.Tx, id int64) error {
	result, err := UnwrapTx(tx).ExecContext(ctx, `DELETE FROM showtimes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("上映回削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return showtime.ErrShowtimeNotFound
	}
	return nil
}

func toShowtimeEntities(rows []showtimeRow) []*showtime.Showtime {
	showtimes := make([]*showtime.Showtime, len(rows))
	for i, row := range rows {
		showtimes[i] = row.toEntity()
	}
	return showtimes
}

var _ showtime.Repository = (*ShowtimeRepository)(nil)
