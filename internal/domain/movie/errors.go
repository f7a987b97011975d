package movie

import "errors"

// Movie ドメインのエラー定義
var (
	ErrMovieNotFound      = errors.New("映画が見つかりません")
	ErrMovieAlreadyExists = errors.New("同じタイトルの映画が既に存在します")
	ErrTitleRequired      = errors.New("タイトルは必須です")
	ErrGenreRequired      = errors.New("ジャンルは必須です")
	ErrInvalidDuration    = errors.New("上映時間は1分以上である必要があります")
	ErrInvalidRating      = errors.New("レーティングは0〜10の範囲である必要があります")
	ErrInvalidReleaseYear = errors.New("公開年は1以上である必要があります")
)

// IsValidationError は入力値の検証エラーかどうかを判定する
func IsValidationError(err error) bool {
	return errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrGenreRequired) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrInvalidReleaseYear)
}
