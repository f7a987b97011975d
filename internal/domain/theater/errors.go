package theater

import "errors"

// Theater ドメインのエラー定義
var (
	ErrTheaterNotFound      = errors.New("劇場が見つかりません")
	ErrTheaterAlreadyExists = errors.New("同じ名前の劇場が既に存在します")
	ErrSeatNotFound         = errors.New("座席が見つかりません")
	ErrNameRequired         = errors.New("劇場名は必須です")
	ErrInvalidSeatCount     = errors.New("座席数は1以上である必要があります")
)

// IsValidationError は入力値の検証エラーかどうかを判定する
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) || errors.Is(err, ErrInvalidSeatCount)
}
