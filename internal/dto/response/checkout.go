package response

import "time"

type SeatCellResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SeatRowResponse struct {
	Label string             `json:"label"`
	Seats []SeatCellResponse `json:"seats"`
}

type SeatMapResponse struct {
	Quota      int               `json:"quota"`
	Selected   []string          `json:"selected"`
	CanConfirm bool              `json:"can_confirm"`
	Rows       []SeatRowResponse `json:"rows"`
}

// CheckoutResponse is the booking dialog as the client should render it.
// Fields that do not apply to the current step are omitted.
type CheckoutResponse struct {
	ID             string                  `json:"id"`
	Flow           string                  `json:"flow"`
	Step           string                  `json:"step"`
	Movie          MovieResponse           `json:"movie"`
	Date           string                  `json:"date"`
	Showtime       *ShowtimeResponse       `json:"showtime,omitempty"`
	Seats          int                     `json:"seats"`
	MaxSeats       int                     `json:"max_seats"`
	Housefull      bool                    `json:"housefull"`
	UnitPrice      float64                 `json:"unit_price"`
	Total          float64                 `json:"total"`
	SeatMap        *SeatMapResponse        `json:"seat_map,omitempty"`
	SeatIDs        []string                `json:"seat_ids,omitempty"`
	PaymentMethods []PaymentMethodResponse `json:"payment_methods,omitempty"`
	PaymentMethod  string                  `json:"payment_method,omitempty"`
	BookingID      string                  `json:"booking_id,omitempty"`
	OrderID        string                  `json:"order_id,omitempty"`
	Notice         string                  `json:"notice,omitempty"`
	UpdatedAt      time.Time               `json:"updated_at"`
}
