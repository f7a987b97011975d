package movie

import "context"

// Repository は映画リポジトリのインターフェース
type Repository interface {
	// Create は新しい映画を作成する
	Create(ctx context.Context, movie *Movie) error

	// GetByID はIDから映画を取得する
	GetByID(ctx context.Context, id int64) (*Movie, error)

	// GetByTitle はタイトルから映画を取得する
	GetByTitle(ctx context.Context, title string) (*Movie, error)

	// List は映画一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Movie, error)

	// Update は映画を更新する
	Update(ctx context.Context, movie *Movie) error

	// Delete は映画を削除する
	Delete(ctx context.Context, id int64) error
}
