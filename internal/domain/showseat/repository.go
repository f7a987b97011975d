package showseat

import (
	"context"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

// Repository は空き状況リポジトリのインターフェース
type Repository interface {
	// CreateBulk は上映回の空き状況レコードを一括作成する（トランザクション必須）
	// 作成時点では競合が存在しないため、1件ずつではなくマルチバリューINSERTで行う
	CreateBulk(ctx context.Context, tx transaction.Tx, seats []*ShowSeat) error

	// GetForUpdate は (showtimeID, seatID) の1行を排他ロックして取得する
	// ロックは読み取りの前に獲得され、トランザクション終了まで保持される
	GetForUpdate(ctx context.Context, tx transaction.Tx, showtimeID, seatID int64) (*ShowSeat, error)

	// MarkReserved は空き状況レコードを予約済みにする（トランザクション必須）
	// GetForUpdate でロックを保持したまま呼び出すこと
	MarkReserved(ctx context.Context, tx transaction.Tx, id int64) error

	// ListByShowtimeID は上映回の空き状況一覧を取得する
	ListByShowtimeID(ctx context.Context, showtimeID int64) ([]*ShowSeat, error)

	// CountAvailableByShowtimeID は上映回の空き座席数を取得する
	CountAvailableByShowtimeID(ctx context.Context, showtimeID int64) (int, error)

	// DeleteByShowtimeID は上映回の空き状況レコードを一括削除する（トランザクション必須）
	DeleteByShowtimeID(ctx context.Context, tx transaction.Tx, showtimeID int64) error
}
