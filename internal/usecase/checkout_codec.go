package usecase

import (
	"encoding/json"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"

	"github.com/google/uuid"
)

// checkoutRecord is the stored form of a Checkout. The seat selection is
// kept as its seat ids and rebuilt from the showtime counts on load.
type checkoutRecord struct {
	ID        uuid.UUID            `json:"id"`
	Movie     *entity.Movie        `json:"movie"`
	Variant   FlowVariant          `json:"variant"`
	Date      string               `json:"date"`
	Step      StepKind             `json:"step"`
	Showtime  *entity.Showtime     `json:"showtime,omitempty"`
	Seats     int                  `json:"seats,omitempty"`
	SeatIDs   []string             `json:"seat_ids,omitempty"`
	Method    entity.PaymentMethod `json:"method,omitempty"`
	UnitPrice float64              `json:"unit_price,omitempty"`
	Total     float64              `json:"total,omitempty"`
	BookingID uuid.UUID            `json:"booking_id,omitempty"`
	OrderID   string               `json:"order_id,omitempty"`
	Notice    string               `json:"notice,omitempty"`
	OwnerID   uuid.UUID            `json:"owner_id"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func (r *checkoutRecord) setOrder(o Order) {
	r.Showtime = o.Showtime
	r.Seats = o.Seats
	r.SeatIDs = o.SeatIDs
	r.Method = o.Method
	r.UnitPrice = o.UnitPrice
	r.Total = o.Total
}

func (r *checkoutRecord) order() Order {
	return Order{
		Showtime:  r.Showtime,
		Seats:     r.Seats,
		SeatIDs:   r.SeatIDs,
		Method:    r.Method,
		UnitPrice: r.UnitPrice,
		Total:     r.Total,
	}
}

func encodeCheckout(c *Checkout) ([]byte, error) {
	rec := checkoutRecord{
		ID:        c.ID,
		Movie:     c.Movie,
		Variant:   c.Variant,
		Date:      c.Date,
		Step:      c.Step.Kind(),
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}

	switch s := c.Step.(type) {
	case *TheatersStep:
	case *SeatsStep:
		rec.Showtime, rec.Seats = s.Showtime, s.Seats
	case *SeatMapStep:
		rec.Showtime, rec.Seats = s.Showtime, s.Seats
		rec.SeatIDs = s.Selection.Selected()
	case *PaymentStep:
		rec.Showtime, rec.Seats = s.Showtime, s.Seats
		rec.SeatIDs, rec.Method = s.SeatIDs, s.Method
	case *PayingStep:
		rec.setOrder(s.Order)
		rec.BookingID = s.BookingID
	case *ConfirmedStep:
		rec.setOrder(s.Order)
		rec.BookingID, rec.OrderID, rec.Notice = s.BookingID, s.OrderID, s.Notice
	default:
		return nil, fmt.Errorf("unknown checkout step %T", c.Step)
	}

	return json.Marshal(rec)
}

func decodeCheckout(payload []byte) (*Checkout, error) {
	var rec checkoutRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode checkout: %w", err)
	}
	if rec.Movie == nil {
		return nil, fmt.Errorf("decode checkout %s: missing movie", rec.ID)
	}

	c := &Checkout{
		ID:        rec.ID,
		Movie:     rec.Movie,
		Variant:   rec.Variant,
		Date:      rec.Date,
		OwnerID:   rec.OwnerID,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}

	switch rec.Step {
	case StepTheaters:
		c.Step = &TheatersStep{}
	case StepSeats:
		c.Step = &SeatsStep{Showtime: rec.Showtime, Seats: rec.Seats}
	case StepSeatMap:
		c.Step = c.seatMap(rec.Showtime, rec.Seats, rec.SeatIDs)
	case StepPayment:
		c.Step = &PaymentStep{Showtime: rec.Showtime, Seats: rec.Seats, SeatIDs: rec.SeatIDs, Method: rec.Method}
	case StepPaying:
		c.Step = &PayingStep{Order: rec.order(), BookingID: rec.BookingID}
	case StepConfirmed:
		c.Step = &ConfirmedStep{Order: rec.order(), BookingID: rec.BookingID, OrderID: rec.OrderID, Notice: rec.Notice}
	default:
		return nil, fmt.Errorf("decode checkout %s: unknown step %q", rec.ID, rec.Step)
	}

	return c, nil
}
