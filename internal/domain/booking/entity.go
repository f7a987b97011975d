package booking

import (
	"time"

	"github.com/google/uuid"
)

// Booking は確定した予約を表す不変のレコード
// IDはシステム生成のUUIDで、推測不可能であることが要件
type Booking struct {
	ID         string
	ShowtimeID int64
	SeatNumber int
	UserID     string
	CreatedAt  time.Time
}

// NewBooking は新しい予約レコードを作成する
func NewBooking(showtimeID int64, seatNumber int, userID string) *Booking {
	return &Booking{
		ID:         uuid.New().String(),
		ShowtimeID: showtimeID,
		SeatNumber: seatNumber,
		UserID:     userID,
		CreatedAt:  time.Now(),
	}
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.ShowtimeID == 0 {
		return ErrShowtimeIDRequired
	}
	if b.SeatNumber <= 0 {
		return ErrInvalidSeatNumber
	}
	if b.UserID == "" {
		return ErrUserIDRequired
	}
	if _, err := uuid.Parse(b.UserID); err != nil {
		return ErrInvalidUserID
	}
	return nil
}
