package entity

import (
	"time"
)

type Availability string

const (
	AvailabilityComingSoon Availability = "coming_soon"
	AvailabilityNowShowing Availability = "now_showing"
	AvailabilityHousefull  Availability = "housefull"
	AvailabilityEnded      Availability = "ended"
)

// DefaultTicketPrice applies when neither the showtime nor the movie has a price.
const DefaultTicketPrice = 250.0

type Movie struct {
	BaseNoDelete
	Title          string       `db:"title"`
	Genre          []string     `db:"genre"`
	Rating         float64      `db:"rating"`
	Poster         *string      `db:"poster"`
	Description    *string      `db:"description"`
	Price          *float64     `db:"price"`
	AvailableSeats *int         `db:"available_seats"`
	Availability   Availability `db:"availability"`
	ReleaseDate    *time.Time   `db:"release_date"`
	Featured       bool         `db:"featured"`
}

// TicketPrice returns the movie level price, or the default when unset.
func (m *Movie) TicketPrice() float64 {
	if m.Price == nil {
		return DefaultTicketPrice
	}
	return *m.Price
}

// SeatsLeft treats a missing seat count as sold out.
func (m *Movie) SeatsLeft() int {
	if m.AvailableSeats == nil {
		return 0
	}
	return *m.AvailableSeats
}
