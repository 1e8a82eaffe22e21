package usecase

import (
	"fmt"
	"time"

	"movie-booking/internal/data/entity"

	"github.com/google/uuid"
)

// FlowVariant selects which steps a checkout walks through.
type FlowVariant string

const (
	// FlowQuick books straight from the ticket counter: no theater, no seat map.
	FlowQuick FlowVariant = "quick"
	// FlowSeatMap submits as soon as the seats are confirmed.
	FlowSeatMap FlowVariant = "seat_map"
	// FlowFull asks for a payment method after the seat map.
	FlowFull FlowVariant = "full"
)

func ParseFlowVariant(s string) (FlowVariant, error) {
	switch v := FlowVariant(s); v {
	case FlowQuick, FlowSeatMap, FlowFull:
		return v, nil
	}
	return "", fmt.Errorf("invalid checkout flow: %s", s)
}

type StepKind string

const (
	StepTheaters  StepKind = "theaters"
	StepSeats     StepKind = "seats"
	StepSeatMap   StepKind = "seat_map"
	StepPayment   StepKind = "payment"
	StepPaying    StepKind = "paying"
	StepConfirmed StepKind = "confirmed"
)

// Step is one of the *Step types below. Each carries only what is valid
// while the checkout sits in that step.
type Step interface {
	Kind() StepKind
	isStep()
}

type TheatersStep struct{}

type SeatsStep struct {
	Showtime *entity.Showtime // nil in the quick flow
	Seats    int
}

type SeatMapStep struct {
	Showtime  *entity.Showtime
	Seats     int
	Selection *SeatSelection
}

type PaymentStep struct {
	Showtime *entity.Showtime
	Seats    int
	SeatIDs  []string
	Method   entity.PaymentMethod // empty until chosen
}

type PayingStep struct {
	Order     Order
	BookingID uuid.UUID
}

type ConfirmedStep struct {
	Order     Order
	BookingID uuid.UUID
	OrderID   string
	Notice    string
}

func (*TheatersStep) Kind() StepKind { return StepTheaters }
func (*SeatsStep) Kind() StepKind { return StepSeats }
func (*SeatMapStep) Kind() StepKind { return StepSeatMap }
func (*PaymentStep) Kind() StepKind { return StepPayment }
func (*PayingStep) Kind() StepKind { return StepPaying }
func (*ConfirmedStep) Kind() StepKind { return StepConfirmed }

func (*TheatersStep) isStep() {}
func (*SeatsStep) isStep() {}
func (*SeatMapStep) isStep() {}
func (*PaymentStep) isStep() {}
func (*PayingStep) isStep() {}
func (*ConfirmedStep) isStep() {}

// Order is the booking a submission creates.
type Order struct {
	Showtime  *entity.Showtime
	Seats     int
	SeatIDs   []string
	Method    entity.PaymentMethod
	UnitPrice float64
	Total     float64
}

// Checkout is one booking dialog for one movie. All methods are pure state
// transitions; persistence and lifecycle calls live in CheckoutService.
// OwnerID stays uuid.Nil until a signed-in user opens or submits it.
type Checkout struct {
	ID        uuid.UUID
	Movie     *entity.Movie
	Variant   FlowVariant
	Date      string
	Step      Step
	OwnerID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCheckout(id uuid.UUID, movie *entity.Movie, variant FlowVariant, now time.Time) *Checkout {
	c := &Checkout{
		ID:        id,
		Movie:     movie,
		Variant:   variant,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.reset(now)
	return c
}

func (c *Checkout) reset(today time.Time) {
	c.Date = DateKey(today)
	if c.Variant == FlowQuick {
		c.Step = &SeatsStep{Seats: 1}
		return
	}
	c.Step = &TheatersStep{}
}

// ==================== DERIVED VALUES ====================

// Showtime is the picked showtime, if the current step has one.
func (c *Checkout) Showtime() *entity.Showtime {
	switch s := c.Step.(type) {
	case *SeatsStep:
		return s.Showtime
	case *SeatMapStep:
		return s.Showtime
	case *PaymentStep:
		return s.Showtime
	case *PayingStep:
		return s.Order.Showtime
	case *ConfirmedStep:
		return s.Order.Showtime
	}
	return nil
}

// Seats is the ticket count; 1 before a showtime is picked.
func (c *Checkout) Seats() int {
	switch s := c.Step.(type) {
	case *SeatsStep:
		return s.Seats
	case *SeatMapStep:
		return s.Seats
	case *PaymentStep:
		return s.Seats
	case *PayingStep:
		return s.Order.Seats
	case *ConfirmedStep:
		return s.Order.Seats
	}
	return 1
}

func (c *Checkout) availableFor(st *entity.Showtime) int {
	if st != nil {
		return st.AvailableSeats
	}
	return c.Movie.SeatsLeft()
}

func (c *Checkout) maxSeatsFor(st *entity.Showtime) int {
	return min(MaxTicketsPerBooking, c.availableFor(st))
}

func (c *Checkout) priceFor(st *entity.Showtime) float64 {
	if st != nil {
		return st.Price
	}
	return c.Movie.TicketPrice()
}

// MaxSeats is the upper bound of the ticket stepper. Zero or less means
// housefull.
func (c *Checkout) MaxSeats() int { return c.maxSeatsFor(c.Showtime()) }

func (c *Checkout) Housefull() bool { return c.MaxSeats() <= 0 }

// UnitPrice resolves showtime price, then movie price, then the default.
func (c *Checkout) UnitPrice() float64 { return c.priceFor(c.Showtime()) }

func (c *Checkout) Total() float64 { return float64(c.Seats()) * c.UnitPrice() }

func clampSeats(n, maxSeats int) int {
	return max(1, min(n, maxSeats))
}

// ==================== TRANSITIONS ====================

func (c *Checkout) SelectDate(date string) error {
	if _, ok := c.Step.(*TheatersStep); !ok {
		return ErrInvalidTransition
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return ErrInvalidDate
	}
	c.Date = date
	return nil
}

// PickShowtime accepts only a showtime of this movie, on the selected date,
// with seats left.
func (c *Checkout) PickShowtime(st *entity.Showtime) error {
	if _, ok := c.Step.(*TheatersStep); !ok {
		return ErrInvalidTransition
	}
	if st == nil || st.MovieID != c.Movie.ID || st.DateKey() != c.Date || !st.Selectable() {
		return ErrShowtimeUnavailable
	}
	c.Step = &SeatsStep{Showtime: st, Seats: 1}
	return nil
}

func (c *Checkout) SetSeats(n int) error {
	s, ok := c.Step.(*SeatsStep)
	if !ok {
		return ErrInvalidTransition
	}
	s.Seats = clampSeats(n, c.maxSeatsFor(s.Showtime))
	return nil
}

func (c *Checkout) OpenSeatMap() error {
	s, ok := c.Step.(*SeatsStep)
	if !ok || c.Variant == FlowQuick {
		return ErrInvalidTransition
	}
	if c.maxSeatsFor(s.Showtime) <= 0 {
		return ErrHousefull
	}
	c.Step = c.seatMap(s.Showtime, s.Seats, nil)
	return nil
}

func (c *Checkout) seatMap(st *entity.Showtime, seats int, selected []string) *SeatMapStep {
	sel := NewSeatSelection(SeatCapacity, c.availableFor(st), seats)
	for _, id := range selected {
		sel.Toggle(id)
	}
	return &SeatMapStep{Showtime: st, Seats: seats, Selection: sel}
}

// ToggleSeat reports whether the selection changed.
func (c *Checkout) ToggleSeat(id string) (bool, error) {
	s, ok := c.Step.(*SeatMapStep)
	if !ok {
		return false, ErrInvalidTransition
	}
	return s.Selection.Toggle(id), nil
}

// ConfirmSeats locks in the seat selection. It reports true when the flow
// submits straight away instead of asking for a payment method.
func (c *Checkout) ConfirmSeats() (bool, error) {
	s, ok := c.Step.(*SeatMapStep)
	if !ok {
		return false, ErrInvalidTransition
	}
	ids, err := s.Selection.Confirm()
	if err != nil {
		return false, err
	}
	if c.Variant == FlowSeatMap {
		return true, nil
	}
	c.Step = &PaymentStep{Showtime: s.Showtime, Seats: s.Seats, SeatIDs: ids}
	return false, nil
}

func (c *Checkout) ChoosePaymentMethod(m entity.PaymentMethod) error {
	s, ok := c.Step.(*PaymentStep)
	if !ok {
		return ErrInvalidTransition
	}
	if !m.Valid() {
		return ErrInvalidPaymentMethod
	}
	s.Method = m
	return nil
}

// Back moves one step toward the start. The ticket count always survives;
// the seat selection survives leaving the payment step only.
func (c *Checkout) Back() error {
	switch s := c.Step.(type) {
	case *SeatsStep:
		if c.Variant == FlowQuick {
			return ErrInvalidTransition
		}
		c.Step = &TheatersStep{}
	case *SeatMapStep:
		c.Step = &SeatsStep{Showtime: s.Showtime, Seats: s.Seats}
	case *PaymentStep:
		c.Step = c.seatMap(s.Showtime, s.Seats, s.SeatIDs)
	default:
		return ErrInvalidTransition
	}
	return nil
}

// Order returns what would be booked if the checkout were submitted now.
func (c *Checkout) Order() (Order, error) {
	switch s := c.Step.(type) {
	case *SeatsStep:
		if c.Variant != FlowQuick {
			return Order{}, ErrInvalidTransition
		}
		if c.maxSeatsFor(s.Showtime) <= 0 {
			return Order{}, ErrHousefull
		}
		return c.newOrder(s.Showtime, s.Seats, nil, ""), nil
	case *SeatMapStep:
		if c.Variant != FlowSeatMap {
			return Order{}, ErrInvalidTransition
		}
		ids, err := s.Selection.Confirm()
		if err != nil {
			return Order{}, err
		}
		return c.newOrder(s.Showtime, s.Seats, ids, ""), nil
	case *PaymentStep:
		if s.Method == "" {
			return Order{}, ErrPaymentMethodRequired
		}
		return c.newOrder(s.Showtime, s.Seats, s.SeatIDs, s.Method), nil
	}
	return Order{}, ErrInvalidTransition
}

func (c *Checkout) newOrder(st *entity.Showtime, seats int, ids []string, method entity.PaymentMethod) Order {
	unit := c.priceFor(st)
	return Order{
		Showtime:  st,
		Seats:     seats,
		SeatIDs:   ids,
		Method:    method,
		UnitPrice: unit,
		Total:     float64(seats) * unit,
	}
}

func (c *Checkout) beginPaying(o Order, bookingID uuid.UUID) {
	c.Step = &PayingStep{Order: o, BookingID: bookingID}
}

func (c *Checkout) confirm(o Order, booking *entity.Booking, notice string) {
	c.Step = &ConfirmedStep{
		Order:     o,
		BookingID: booking.ID,
		OrderID:   booking.OrderID,
		Notice:    notice,
	}
}

// revert returns to the seat step of the flow with count and seats intact.
func (c *Checkout) revert(o Order) {
	if c.Variant == FlowQuick {
		c.Step = &SeatsStep{Showtime: o.Showtime, Seats: o.Seats}
		return
	}
	c.Step = c.seatMap(o.Showtime, o.Seats, o.SeatIDs)
}

// Done clears everything once the booking is confirmed.
func (c *Checkout) Done(today time.Time) error {
	if _, ok := c.Step.(*ConfirmedStep); !ok {
		return ErrInvalidTransition
	}
	c.reset(today)
	return nil
}

// Authorize rejects a user other than the owner. An unowned checkout
// accepts anyone.
func (c *Checkout) Authorize(user *AuthUser) error {
	if c.OwnerID == uuid.Nil {
		return nil
	}
	if user == nil || user.ID != c.OwnerID {
		return ErrCheckoutForbidden
	}
	return nil
}

// CanClose is false only while a payment is running.
func (c *Checkout) CanClose() bool {
	_, paying := c.Step.(*PayingStep)
	return !paying
}
