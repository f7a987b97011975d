package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/theater"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

// seatRow はDBの行を表す構造体
type seatRow struct {
	ID         int64 `db:"id"`
	TheaterID  int64 `db:"theater_id"`
	SeatNumber int   `db:"seat_number"`
}

func (r *seatRow) toEntity() *theater.Seat {
	return &theater.Seat{
		ID:         r.ID,
		TheaterID:  r.TheaterID,
		SeatNumber: r.SeatNumber,
	}
}

// SeatRepository は座席リポジトリのPostgreSQL実装
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository はSeatRepositoryを作成する
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// CreateBulk は座席を一括作成する（トランザクション必須）
func (r *SeatRepository) CreateBulk(ctx context.Context, tx transaction.Tx, seats []*theater.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	// バッチサイズごとに分割してマルチバリューINSERTを実行
	const batchSize = 1000
	for i := 0; i < len(seats); i += batchSize {
		end := i + batchSize
		if end > len(seats) {
			end = len(seats)
		}
		if err := r.createBulkBatch(ctx, tx, seats[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SeatRepository) createBulkBatch(ctx context.Context, tx transaction.Tx, seats []*theater.Seat) error {
	query := `INSERT INTO seats (theater_id, seat_number) VALUES `
	args := make([]interface{}, 0, len(seats)*2)
	placeholders := make([]string, 0, len(seats))

	for i, s := range seats {
		base := i * 2
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d)", base+1, base+2))
		args = append(args, s.TheaterID, s.SeatNumber)
	}

	query += strings.Join(placeholders, ", ")
	if _, err := UnwrapTx(tx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("座席一括作成に失敗しました: %w", err)
	}
	return nil
}

// GetByTheaterID は劇場の座席一覧を座席番号順で取得する
func (r *SeatRepository) GetByTheaterID(ctx context.Context, theaterID int64) ([]*theater.Seat, error) {
	query := `SELECT id, theater_id, seat_number FROM seats WHERE theater_id = $1 ORDER BY seat_number`

	var rows []seatRow
	if err := r.db.SelectContext(ctx, &rows, query, theaterID); err != nil {
		return nil, fmt.Errorf("座席一覧取得に失敗しました: %w", err)
	}

	seats := make([]*theater.Seat, len(rows))
	for i, row := range rows {
		seats[i] = row.toEntity()
	}
	return seats, nil
}

// GetByTheaterAndNumber は劇場IDと座席番号から座席を取得する
func (r *SeatRepository) GetByTheaterAndNumber(ctx context.Context, theaterID int64, seatNumber int) (*theater.Seat, error) {
	query := `SELECT id, theater_id, seat_number FROM seats WHERE theater_id = $1 AND seat_number = $2`

	var row seatRow
	if err := r.db.GetContext(ctx, &row, query, theaterID, seatNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, theater.ErrSeatNotFound
		}
		return nil, fmt.Errorf("座席取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

var _ theater.SeatRepository = (*SeatRepository)(nil)
