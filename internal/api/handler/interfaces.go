package handler

import (
	"context"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/application"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/movie"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showseat"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/showtime"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/domain/theater"
)

// MovieServiceInterface は映画サービスのインターフェース
type MovieServiceInterface interface {
	CreateMovie(ctx context.Context, input application.MovieInput) (*movie.Movie, error)
	GetMovieByTitle(ctx context.Context, title string) (*movie.Movie, error)
	ListMovies(ctx context.Context, limit, offset int) ([]*movie.Movie, error)
	UpdateMovie(ctx context.Context, title string, input application.MovieInput) (*movie.Movie, error)
	DeleteMovie(ctx context.Context, title string) error
}

// TheaterServiceInterface は劇場サービスのインターフェース
type TheaterServiceInterface interface {
	CreateTheater(ctx context.Context, input application.CreateTheaterInput) (*theater.Theater, error)
	GetTheaterByName(ctx context.Context, name string) (*theater.Theater, error)
	ListTheaters(ctx context.Context) ([]*theater.Theater, error)
	ListSeats(ctx context.Context, theaterID int64) ([]*theater.Seat, error)
}

// ShowtimeServiceInterface は上映回サービスのインターフェース
type ShowtimeServiceInterface interface {
	CreateShowtime(ctx context.Context, input application.CreateShowtimeInput) (*showtime.Showtime, error)
	GetShowtime(ctx context.Context, id int64) (*showtime.Showtime, error)
	ListShowtimes(ctx context.Context, limit, offset int) ([]*showtime.Showtime, error)
	UpdateShowtime(ctx context.Context, id int64, input application.UpdateShowtimeInput) (*showtime.Showtime, error)
	CancelShowtime(ctx context.Context, id int64) error
	ListSlots(ctx context.Context, showtimeID int64) ([]*showseat.ShowSeat, error)
	CountAvailableSeats(ctx context.Context, showtimeID int64) (int, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
	GetBookingBySeat(ctx context.Context, showtimeID int64, seatNumber int) (*booking.Booking, error)
	ListBookings(ctx context.Context, showtimeID int64) ([]*booking.Booking, error)
}
