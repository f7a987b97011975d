package showtime

import "time"

// Showtime は上映回エンティティを表す
type Showtime struct {
	ID          int64
	MovieID     int64
	TheaterName string
	Price       float64
	StartTime   time.Time
	EndTime     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewShowtime は新しい上映回を作成する
func NewShowtime(movieID int64, theaterName string, price float64, startTime, endTime time.Time) *Showtime {
	now := time.Now()
	return &Showtime{
		MovieID:     movieID,
		TheaterName: theaterName,
		Price:       price,
		StartTime:   startTime,
		EndTime:     endTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate は上映回の検証を行う
func (s *Showtime) Validate() error {
	if s.MovieID == 0 {
		return ErrMovieIDRequired
	}
	if s.TheaterName == "" {
		return ErrTheaterNameRequired
	}
	if s.Price <= 0 {
		return ErrInvalidPrice
	}
	if !s.EndTime.After(s.StartTime) {
		return ErrInvalidTimeRange
	}
	return nil
}

// Overlaps は同一劇場での時間帯重複を判定する
// 区間は [start, end) の半開区間として扱い、端点が接するだけの場合は重複しない
func (s *Showtime) Overlaps(other *Showtime) bool {
	if s.TheaterName != other.TheaterName {
		return false
	}
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}
