package transaction

import "context"

// Tx はトランザクションを表すインターフェース
// ドメイン層がインフラ層（sqlx等）に依存しないようにするための抽象化
type Tx interface {
	// Commit はトランザクションをコミットする
	Commit() error
	// Rollback はトランザクションをロールバックする
	Rollback() error
}

// Manager はトランザクションを管理するインターフェース
type Manager interface {
	// Begin はデフォルト分離レベルで新しいトランザクションを開始する
	Begin(ctx context.Context) (Tx, error)

	// BeginRepeatableRead は REPEATABLE READ 分離レベルでトランザクションを開始する
	// 予約エンジンの行ロックと組み合わせることで、ロック獲得前の古い値を
	// 別トランザクションが観測できないことを保証する
	BeginRepeatableRead(ctx context.Context) (Tx, error)
}
