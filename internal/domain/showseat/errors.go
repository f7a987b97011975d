package showseat

import "errors"

// ShowSeat ドメインのエラー定義
var (
	// ErrSlotNotFound は (showtimeID, seatID) に対応するレコードが存在しないことを表す
	// リトライしても解決しないため即座に呼び出し元へ伝播する
	ErrSlotNotFound = errors.New("空き状況レコードが見つかりません")

	// ErrAlreadyReserved は座席が既に予約済みであることを表す
	// 競争に敗れた場合の正常な結果であり、システム障害ではない
	ErrAlreadyReserved = errors.New("座席は既に予約されています")

	// ErrTransientContention はロック待ちタイムアウトやシリアライゼーション競合など、
	// リトライで解決しうる一時的な競合を表す
	ErrTransientContention = errors.New("一時的な競合が発生しました")

	// ErrContentionExhausted はリトライ回数を使い切っても競合が解決しなかったことを表す
	ErrContentionExhausted = errors.New("リトライ回数を超過しました")
)

// IsTransient はリトライ対象のエラーかを返す
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientContention)
}
