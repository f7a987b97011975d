package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showseat"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

// showSeatRow はDBの行を表す構造体
type showSeatRow struct {
	ID         int64 `db:"id"`
	ShowtimeID int64 `db:"showtime_id"`
	SeatID     int64 `db:"seat_id"`
	Reserved   bool  `db:"reserved"`
}

func (r *showSeatRow) toEntity() *showseat.ShowSeat {
	return &showseat.ShowSeat{
		ID:         r.ID,
		ShowtimeID: r.ShowtimeID,
		SeatID:     r.SeatID,
		Reserved:   r.Reserved,
	}
}

// ShowSeatRepository は空き状況リポジトリのPostgreSQL実装
type ShowSeatRepository struct {
	db *sqlx.DB
}

// NewShowSeatRepository はShowSeatRepositoryを作成する
func NewShowSeatRepository(db *sqlx.DB) *ShowSeatRepository {
	return &ShowSeatRepository{db: db}
}

// CreateBulk は空き状況レコードを一括作成する（トランザクション必須）
func (r *ShowSeatRepository) CreateBulk(ctx context.Context, tx transaction.Tx, seats []*showseat.ShowSeat) error {
	if len(seats) == 0 {
		return nil
	}

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

func (r *ShowSeatRepository) createBulkBatch(ctx context.Context, tx transaction.Tx, seats []*showseat.ShowSeat) error {
	query := `INSERT INTO show_seats (showtime_id, seat_id, reserved) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	placeholders := make([]string, 0, len(seats))

	for i, s := range seats {
		base := i * 3
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, s.ShowtimeID, s.SeatID, s.Reserved)
	}

	query += strings.Join(placeholders, ", ")
	if _, err := UnwrapTx(tx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("空き状況レコードの一括作成に失敗しました: %w", err)
	}
	return nil
}

// GetForUpdate は (showtimeID, seatID) の1行を FOR UPDATE で排他ロックして取得する
// ロック対象はこの1行のみで、同一上映回の他の座席はブロックしない
// ロック待ちタイムアウトやデッドロックは一時的競合エラーとして返す
func (r *ShowSeatRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, showtimeID, seatID int64) (*showseat.ShowSeat, error) {
	query := `
		SELECT id, showtime_id, seat_id, reserved
		FROM show_seats
		WHERE showtime_id = $1 AND seat_id = $2
		FOR UPDATE
	`

	var row showSeatRow
	if err := UnwrapTx(tx).GetContext(ctx, &row, query, showtimeID, seatID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, showseat.ErrSlotNotFound
		}
		return nil, classifyContention(err)
	}
	return row.toEntity(), nil
}

// MarkReserved は空き状況レコードを予約済みにする（トランザクション必須）
func (r *ShowSeatRepository) MarkReserved(ctx context.Context, tx transaction.Tx, id int64) error {
	result, err := UnwrapTx(tx).ExecContext(ctx,
		`UPDATE show_seats SET reserved = TRUE WHERE id = $1 AND reserved = FALSE`, id)
	if err != nil {
		return classifyContention(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		// ロック保持中にここへ到達することはないが、直接呼ばれた場合の安全弁
		return showseat.ErrAlreadyReserved
	}
	return nil
}

// ListByShowtimeID は上映回の空き状況一覧を座席ID順で取得する
func (r *ShowSeatRepository) ListByShowtimeID(ctx context.Context, showtimeID int64) ([]*showseat.ShowSeat, error) {
	query := `SELECT id, showtime_id, seat_id, reserved FROM show_seats WHERE showtime_id = $1 ORDER BY seat_id`

	var rows []showSeatRow
	if err := r.db.SelectContext(ctx, &rows, query, showtimeID); err != nil {
		return nil, fmt.Errorf("空き状況一覧取得に失敗しました: %w", err)
	}

	seats := make([]*showseat.ShowSeat, len(rows))
	for i, row := range rows {
		seats[i] = row.toEntity()
	}
	return seats, nil
}

// CountAvailableByShowtimeID は上映回の空き座席数を取得する
func (r *ShowSeatRepository) CountAvailableByShowtimeID(ctx context.Context, showtimeID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM show_seats WHERE showtime_id = $1 AND reserved = FALSE`, showtimeID)
	if err != nil {
		return 0, fmt.Errorf("空き座席数取得に失敗しました: %w", err)
	}
	return count, nil
}

// DeleteByShowtimeID は上映回の空き状況レコードを一括削除する（トランザクション必須）
func (r *ShowSeatRepository) DeleteByShowtimeID(ctx context.Context, tx transaction.Tx, showtimeID int64) error {
	if _, err := UnwrapTx(tx).ExecContext(ctx,
		`DELETE FROM show_seats WHERE showtime_id = $1`, showtimeID); err != nil {
		return classifyContention(err)
	}
	return nil
}

var _ showseat.Repository = (*ShowSeatRepository)(nil)
