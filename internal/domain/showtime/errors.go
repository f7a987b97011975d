package showtime

import "errors"

// Showtime ドメインのエラー定義
var (
	ErrShowtimeNotFound    = errors.New("上映回が見つかりません")
	ErrShowtimeOverlap     = errors.New("同じ劇場で時間帯が重複する上映回が既に存在します")
	ErrShowtimeHasBookings = errors.New("予約が存在する上映回は劇場を変更できません")
	ErrMovieIDRequired     = errors.New("映画IDは必須です")
	ErrTheaterNameRequired = errors.New("劇場名は必須です")
	ErrInvalidPrice        = errors.New("価格は0より大きい必要があります")
	ErrInvalidTimeRange    = errors.New("終了時刻は開始時刻より後である必要があります")
)

// IsValidationError は入力値の検証エラーかどうかを判定する
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMovieIDRequired) ||
		errors.Is(err, ErrTheaterNameRequired) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidTimeRange)
}
