package theater

import (
	"fmt"
	"time"
)

// Theater は劇場エンティティを表す
// 座席数は作成時に確定し、以降変更されない
type Theater struct {
	ID            int64
	Name          string
	NumberOfSeats int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Seat は劇場内の1座席を表す
// 劇場作成時に 1..NumberOfSeats の番号で一括生成される
type Seat struct {
	ID         int64
	TheaterID  int64
	SeatNumber int
}

// NewTheater は新しい劇場を作成する
func NewTheater(name string, numberOfSeats int) *Theater {
	now := time.Now()
	return &Theater{
		Name:          name,
		NumberOfSeats: numberOfSeats,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate は劇場の検証を行う
func (t *Theater) Validate() error {
	if t.Name == "" {
		return ErrNameRequired
	}
	if t.NumberOfSeats <= 0 {
		return ErrInvalidSeatCount
	}
	return nil
}

// ContainsSeatNumber は座席番号がこの劇場の範囲内かを返す
func (t *Theater) ContainsSeatNumber(seatNumber int) bool {
	return seatNumber >= 1 && seatNumber <= t.NumberOfSeats
}

// MaterializeSeats は 1..NumberOfSeats の座席を生成する
func (t *Theater) MaterializeSeats() []*Seat {
	seats := make([]*Seat, t.NumberOfSeats)
	for i := range seats {
		seats[i] = &Seat{TheaterID: t.ID, SeatNumber: i + 1}
	}
	return seats
}

// LimitExceededError は劇場数の上限超過を表すエラー
// 呼び出し側が振り替え先を案内できるよう既存の劇場名を保持する
type LimitExceededError struct {
	Max          int
	TheaterNames []string
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("劇場数が上限（%d）に達しています。既存の劇場: %v", e.Max, e.TheaterNames)
}
