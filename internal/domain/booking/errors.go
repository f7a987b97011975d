package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound    = errors.New("予約が見つかりません")
	ErrSeatAlreadyBooked  = errors.New("この上映回の座席は既に予約されています")
	ErrShowtimeIDRequired = errors.New("上映回IDは必須です")
	ErrInvalidSeatNumber  = errors.New("座席番号が不正です")
	ErrUserIDRequired     = errors.New("ユーザーIDは必須です")
	ErrInvalidUserID      = errors.New("ユーザーIDはUUID形式である必要があります")
)

// IsValidationError は入力値の検証エラーかどうかを判定する
func IsValidationError(err error) bool {
	return errors.Is(err, ErrShowtimeIDRequired) ||
		errors.Is(err, ErrInvalidSeatNumber) ||
		errors.Is(err, ErrUserIDRequired) ||
		errors.Is(err, ErrInvalidUserID)
}
