package showtime

import (
	"context"
	"time"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/transaction"
)

// Repository は上映回リポジトリのインターフェース
type Repository interface {
	// Create は新しい上映回を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, showtime *Showtime) error

	// GetByID はIDから上映回を取得する
	GetByID(ctx context.Context, id int64) (*Showtime, error)

	// List は上映回一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Showtime, error)

	// ListByMovieID は映画IDから上映回一覧を取得する
	ListByMovieID(ctx context.Context, movieID int64) ([]*Showtime, error)

	// FindOverlapping は同一劇場で [start, end) と重複する上映回を取得する
	// excludeID が0以外の場合、そのIDの上映回は除外する
	FindOverlapping(ctx context.Context, theaterName string, start, end time.Time, excludeID int64) ([]*Showtime, error)

	// Update は上映回を更新する（トランザクション必須）
	// 劇場変更時の空き状況レコードの作り直しと同一トランザクションで確定させる
	Update(ctx context.Context, tx transaction.Tx, showtime *Showtime) error

	// Delete は上映回を削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id int64) error
}
