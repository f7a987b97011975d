package showseat

// ShowSeat は上映回×座席ごとの空き状況レコードを表す
// 上映回の作成時に座席数分だけ一括生成され、上映回の削除時に一括削除される
// Reserved は予約エンジンによってのみ false→true に一度だけ遷移する
type ShowSeat struct {
	ID         int64
	ShowtimeID int64
	SeatID     int64
	Reserved   bool
}

// NewShowSeat は新しい空き状況レコードを作成する
func NewShowSeat(showtimeID, seatID int64) *ShowSeat {
	return &ShowSeat{
		ShowtimeID: showtimeID,
		SeatID:     seatID,
		Reserved:   false,
	}
}

// IsAvailable は座席がまだ予約可能かを返す
func (s *ShowSeat) IsAvailable() bool {
	return !s.Reserved
}
