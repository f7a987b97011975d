package theater

import (
	"context"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

// Repository は劇場リポジトリのインターフェース
type Repository interface {
	// Create は新しい劇場を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, theater *Theater) error

	// GetByID はIDから劇場を取得する
	GetByID(ctx context.Context, id int64) (*Theater, error)

	// GetByName は名前から劇場を取得する
	GetByName(ctx context.Context, name string) (*Theater, error)

	// List は劇場一覧を取得する
	List(ctx context.Context) ([]*Theater, error)

	// Count は劇場の総数を取得する
	Count(ctx context.Context) (int, error)
}

// SeatRepository は座席リポジトリのインターフェース
type SeatRepository interface {
	// CreateBulk は座席を一括作成する（トランザクション必須）
	CreateBulk(ctx context.Context, tx transaction.Tx, seats []*Seat) error

	// GetByTheaterID は劇場の座席一覧を座席番号順で取得する
	GetByTheaterID(ctx context.Context, theaterID int64) ([]*Seat, error)

	// GetByTheaterAndNumber は劇場IDと座席番号から座席を取得する
	GetByTheaterAndNumber(ctx context.Context, theaterID int64, seatNumber int) (*Seat, error)
}
