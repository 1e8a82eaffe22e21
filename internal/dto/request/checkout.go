package request

type OpenCheckoutRequest struct {
	MovieID string `json:"movie_id" validate:"required,uuid"`
	Flow    string `json:"flow,omitempty" validate:"omitempty,oneof=quick seat_map full"`
}

type SelectDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type PickShowtimeRequest struct {
	ShowtimeID string `json:"showtime_id" validate:"required,uuid"`
}

type SetSeatsRequest struct {
	Seats int `json:"seats" validate:"required,min=1"`
}

type ToggleSeatRequest struct {
	SeatID string `json:"seat_id" validate:"required,min=2,max=3"`
}

type PaymentMethodRequest struct {
	Method string `json:"method" validate:"required,oneof=debit credit upi"`
}
