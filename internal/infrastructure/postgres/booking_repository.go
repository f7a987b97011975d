package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

// bookingRow はDBの行を表す構造体
type bookingRow struct {
	ID         string    `db:"id"`
	ShowtimeID int64     `db:"showtime_id"`
	SeatNumber int       `db:"seat_number"`
	UserID     string    `db:"user_id"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *bookingRow) toEntity() *booking.Booking {
	return &booking.Booking{
		ID:         r.ID,
		ShowtimeID: r.ShowtimeID,
		SeatNumber: r.SeatNumber,
		UserID:     r.UserID,
		CreatedAt:  r.CreatedAt,
	}
}

// BookingRepository は予約台帳リポジトリのPostgreSQL実装
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository はBookingRepositoryを作成する
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create は予約レコードを作成する（トランザクション必須）
// (showtime_id, seat_number) のユニーク制約違反は重複予約エラーとして返す
func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (id, showtime_id, seat_number, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := UnwrapTx(tx).ExecContext(ctx, query, b.ID, b.ShowtimeID, b.SeatNumber, b.UserID, b.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return booking.ErrSeatAlreadyBooked
		}
		return classifyContention(err)
	}
	return nil
}

// GetByID は予約IDで予約を取得する
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	query := `SELECT id, showtime_id, seat_number, user_id, created_at FROM bookings WHERE id = $1`

	var row bookingRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByShowtimeAndSeat は上映回と座席番号で予約を取得する
func (r *BookingRepository) GetByShowtimeAndSeat(ctx context.Context, showtimeID int64, seatNumber int) (*booking.Booking, error) {
	query := `SELECT id, showtime_id, seat_number, user_id, created_at FROM bookings WHERE showtime_id = $1 AND seat_number = $2`

	var row bookingRow
	if err := r.db.GetContext(ctx, &row, query, showtimeID, seatNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// ExistsByShowtimeAndSeat は上映回と座席番号の予約が存在するか確認する
func (r *BookingRepository) ExistsByShowtimeAndSeat(ctx context.Context, showtimeID int64, seatNumber int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE showtime_id = $1 AND seat_number = $2)`,
		showtimeID, seatNumber)
	if err != nil {
		return false, fmt.Errorf("予約存在確認に失敗しました: %w", err)
	}
	return exists, nil
}

// ListByShowtimeID は上映回の予約一覧を作成日時順で取得する
func (r *BookingRepository) ListByShowtimeID(ctx context.Context, showtimeID int64) ([]*booking.Booking, error) {
	query := `SELECT id, showtime_id, seat_number, user_id, created_at FROM bookings WHERE showtime_id = $1 ORDER BY created_at`

	var rows []bookingRow
	if err := r.db.SelectContext(ctx, &rows, query, showtimeID); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗しました: %w", err)
	}

	bookings := make([]*booking.Booking, len(rows))
	for i, row := range rows {
		bookings[i] = row.toEntity()
	}
	return bookings, nil
}

// DeleteByShowtimeID は上映回の予約レコードを一括削除する（トランザクション必須）
func (r *BookingRepository) DeleteByShowtimeID(ctx context.Context, tx transaction.Tx, showtimeID int64) error {
	if _, err := UnwrapTx(tx).ExecContext(ctx,
		`DELETE FROM bookings WHERE showtime_id = $1`, showtimeID); err != nil {
		return classifyContention(err)
	}
	return nil
}

var _ booking.Repository = (*BookingRepository)(nil)
