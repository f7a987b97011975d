package booking

import (
	"context"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

// Repository は予約台帳リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, booking *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Booking, error)

	// GetByShowtimeAndSeat は上映回IDと座席番号から予約を取得する
	GetByShowtimeAndSeat(ctx context.Context, showtimeID int64, seatNumber int) (*Booking, error)

	// ExistsByShowtimeAndSeat は上映回IDと座席番号の予約が存在するかを返す
	ExistsByShowtimeAndSeat(ctx context.Context, showtimeID int64, seatNumber int) (bool, error)

	// ListByShowtimeID は上映回の予約一覧を取得する
	ListByShowtimeID(ctx context.Context, showtimeID int64) ([]*Booking, error)

	// DeleteByShowtimeID は上映回の予約を一括削除する（トランザクション必須）
	DeleteByShowtimeID(ctx context.Context, tx transaction.Tx, showtimeID int64) error
}
