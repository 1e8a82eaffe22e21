package entity

import (
	"time"

	"github.com/google/uuid"
)

// ShowtimeCapacity is the seat count of every auditorium seat map.
const ShowtimeCapacity = 80

type Showtime struct {
	BaseSimple
	MovieID        uuid.UUID `db:"movie_id"`
	TheaterID      uuid.UUID `db:"theater_id"`
	ShowDate       time.Time `db:"show_date"`
	ShowTime       string    `db:"show_time"` // HH:MM
	Price          float64   `db:"price"`
	AvailableSeats int       `db:"available_seats"`

	// Joined from theaters
	Theater Theater `db:"-"`
}

// DateKey is the canonical YYYY-MM-DD key used for date filtering.
func (s *Showtime) DateKey() string {
	return s.ShowDate.Format(time.DateOnly)
}

func (s *Showtime) Selectable() bool {
	return s.AvailableSeats > 0
}
