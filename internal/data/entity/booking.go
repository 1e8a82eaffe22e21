package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// pending is the only state with outgoing edges
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusPaid, BookingStatusCancelled},
	BookingStatusPaid:      {},
	BookingStatusCancelled: {},
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if _, ok := bookingTransitions[status]; !ok {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

type PaymentMethod string

const (
	PaymentMethodDebit  PaymentMethod = "debit"
	PaymentMethodCredit PaymentMethod = "credit"
	PaymentMethodUPI    PaymentMethod = "upi"
)

// PaymentMethods in display order.
var PaymentMethods = []PaymentMethod{PaymentMethodDebit, PaymentMethodCredit, PaymentMethodUPI}

func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

type Booking struct {
	ID            uuid.UUID      `db:"id"`
	OrderID       string         `db:"order_id"`
	UserID        uuid.UUID      `db:"user_id"`
	MovieID       uuid.UUID      `db:"movie_id"`
	ShowtimeID    *uuid.UUID     `db:"showtime_id"`
	Seats         int            `db:"seats"`
	SeatLabels    []string       `db:"seat_labels"`
	PaymentMethod *PaymentMethod `db:"payment_method"`
	TotalAmount   float64        `db:"total_amount"`
	Status        BookingStatus  `db:"status"`
	BookedAt      time.Time      `db:"booked_at"`
	UpdatedAt     time.Time      `db:"updated_at"`

	// Joined from movies, only on list queries
	MovieTitle  string  `db:"-"`
	MoviePoster *string `db:"-"`
}
