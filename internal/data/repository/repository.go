package repository

import (
	"movie-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Session  SessionRepository
	Movie    MovieRepository
	Genre    GenreRepository
	Theater  TheaterRepository
	Showtime ShowtimeRepository
	Booking  BookingRepository
	Checkout CheckoutStore
}

// NewRepository wires the Postgres repositories. checkouts is the Redis or
// in-memory store chosen by the caller.
func NewRepository(db database.PgxIface, checkouts CheckoutStore, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		Session:  NewSessionRepository(db, log),
		Movie:    NewMovieRepository(db, log),
		Genre:    NewGenreRepository(db, log),
		Theater:  NewTheaterRepository(db, log),
		Showtime: NewShowtimeRepository(db, log),
		Booking:  NewBookingRepository(db, log),
		Checkout: checkouts,
	}
}
