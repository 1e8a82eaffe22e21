package response

import (
	"time"

	"movie-booking/internal/data/entity"
)

type PaymentMethodResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID            string               `json:"id"`
	OrderID       string               `json:"order_id"`
	UserID        string               `json:"user_id"`
	MovieID       string               `json:"movie_id"`
	ShowtimeID    *string              `json:"showtime_id,omitempty"`
	MovieTitle    string               `json:"movie_title,omitempty"`
	MoviePoster   *string              `json:"movie_poster,omitempty"`
	Seats         int                  `json:"seats"`
	SeatLabels    []string             `json:"seat_labels"`
	PaymentMethod *string              `json:"payment_method,omitempty"`
	TotalAmount   float64              `json:"total_amount"`
	Status        entity.BookingStatus `json:"status"`
	BookedAt      time.Time            `json:"booked_at"`
}

var paymentMethodNames = map[entity.PaymentMethod]string{
	entity.PaymentMethodDebit:  "Debit Card",
	entity.PaymentMethodCredit: "Credit Card",
	entity.PaymentMethodUPI:    "UPI",
}

// Helper converters
func PaymentMethodToResponse(pm entity.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:   string(pm),
		Name: paymentMethodNames[pm],
	}
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:          booking.ID.String(),
		OrderID:     booking.OrderID,
		UserID:      booking.UserID.String(),
		MovieID:     booking.MovieID.String(),
		MovieTitle:  booking.MovieTitle,
		MoviePoster: booking.MoviePoster,
		Seats:       booking.Seats,
		SeatLabels:  booking.SeatLabels,
		TotalAmount: booking.TotalAmount,
		Status:      booking.Status,
		BookedAt:    booking.BookedAt,
	}

	if resp.SeatLabels == nil {
		resp.SeatLabels = []string{}
	}
	if booking.ShowtimeID != nil {
		id := booking.ShowtimeID.String()
		resp.ShowtimeID = &id
	}
	if booking.PaymentMethod != nil {
		m := string(*booking.PaymentMethod)
		resp.PaymentMethod = &m
	}

	return resp
}
