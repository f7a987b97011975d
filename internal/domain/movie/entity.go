package movie

import "time"

// Movie は映画エンティティを表す
type Movie struct {
	ID          int64
	Title       string
	Genre       string
	Duration    int // 分
	Rating      float64
	ReleaseYear int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewMovie は新しい映画を作成する
func NewMovie(title, genre string, duration int, rating float64, releaseYear int) *Movie {
	now := time.Now()
	return &Movie{
		Title:       title,
		Genre:       genre,
		Duration:    duration,
		Rating:      rating,
		ReleaseYear: releaseYear,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate は映画の検証を行う
func (m *Movie) Validate() error {
	if m.Title == "" {
		return ErrTitleRequired
	}
	if m.Genre == "" {
		return ErrGenreRequired
	}
	if m.Duration <= 0 {
		return ErrInvalidDuration
	}
	if m.Rating < 0 || m.Rating > 10 {
		return ErrInvalidRating
	}
	if m.ReleaseYear <= 0 {
		return ErrInvalidReleaseYear
	}
	return nil
}
