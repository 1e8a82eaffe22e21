package usecase

import (
	"testing"
	"time"

	"movie-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func newMovie(price *float64, seats *int) *entity.Movie {
	return &entity.Movie{
		BaseNoDelete:   entity.BaseNoDelete{ID: uuid.New()},
		Title:          "Interstellar",
		Genre:          []string{"Sci-Fi"},
		Price:          price,
		AvailableSeats: seats,
		Availability:   entity.AvailabilityNowShowing,
	}
}

func ptr[T any](v T) *T { return &v }

func TestNewCheckoutInitialStep(t *testing.T) {
	movie := newMovie(nil, ptr(50))

	full := NewCheckout(uuid.New(), movie, FlowFull, testToday)
	assert.Equal(t, StepTheaters, full.Step.Kind())
	assert.Equal(t, "2025-03-01", full.Date)
	assert.Nil(t, full.Showtime())
	assert.Equal(t, 1, full.Seats())

	quick := NewCheckout(uuid.New(), movie, FlowQuick, testToday)
	assert.Equal(t, StepSeats, quick.Step.Kind())
	assert.Equal(t, 1, quick.Seats())
}

func TestUnitPricePriority(t *testing.T) {
	pvr := newTheater("PVR")

	t.Run("showtime price wins", func(t *testing.T) {
		movie := newMovie(ptr(300.0), ptr(50))
		c := NewCheckout(uuid.New(), movie, FlowFull, testToday)
		st := newShowtime(movie.ID, pvr, "2025-03-01", "18:00", 180, 20)
		require.NoError(t, c.PickShowtime(st))
		assert.Equal(t, 180.0, c.UnitPrice())
	})

	t.Run("movie price without showtime", func(t *testing.T) {
		c := NewCheckout(uuid.New(), newMovie(ptr(300.0), ptr(50)), FlowQuick, testToday)
		assert.Equal(t, 300.0, c.UnitPrice())
	})

	t.Run("default price", func(t *testing.T) {
		c := NewCheckout(uuid.New(), newMovie(nil, ptr(50)), FlowQuick, testToday)
		assert.Equal(t, entity.DefaultTicketPrice, c.UnitPrice())
	})
}

func TestSetSeatsClamps(t *testing.T) {
	pvr := newTheater("PVR")
	movie := newMovie(nil, ptr(50))

	tests := []struct {
		name      string
		available int
		in        int
		want      int
	}{
		{"within range", 20, 4, 4},
		{"below one", 20, 0, 1},
		{"above ten", 20, 15, 10},
		{"above available", 3, 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCheckout(uuid.New(), movie, FlowFull, testToday)
			require.NoError(t, c.PickShowtime(newShowtime(movie.ID, pvr, "2025-03-01", "18:00", 200, tt.available)))
			require.NoError(t, c.SetSeats(tt.in))
			assert.Equal(t, tt.want, c.Seats())
			assert.Equal(t, float64(tt.want)*200, c.Total())
		})
	}
}

func TestHousefullMovie(t *testing.T) {
	c := NewCheckout(uuid.New(), newMovie(nil, nil), FlowQuick, testToday)
	assert.True(t, c.Housefull())
	assert.Equal(t, 0, c.MaxSeats())

	_, err := c.Order()
	assert.ErrorIs(t, err, ErrHousefull)
}

func TestPickShowtimeRules(t *testing.T) {
	pvr := newTheater("PVR")
	movie := newMovie(nil, ptr(50))

	tests := []struct {
		name string
		st   *entity.Showtime
	}{
		{"missing", nil},
		{"other movie", newShowtime(uuid.New(), pvr, "2025-03-01", "18:00", 200, 10)},
		{"other date", newShowtime(movie.ID, pvr, "2025-03-02", "18:00", 200, 10)},
		{"sold out", newShowtime(movie.ID, pvr, "2025-03-01", "18:00", 200, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCheckout(uuid.New(), movie, FlowFull, testToday)
			assert.ErrorIs(t, c.PickShowtime(tt.st), ErrShowtimeUnavailable)
			assert.Equal(t, StepTheaters, c.Step.Kind())
		})
	}

	c := NewCheckout(uuid.New(), movie, FlowFull, testToday)
	require.NoError(t, c.SelectDate("2025-03-02"))
	require.NoError(t, c.PickShowtime(tests[2].st))
	assert.Equal(t, StepSeats, c.Step.Kind())

	assert.ErrorIs(t, c.SelectDate("2025-03-03"), ErrInvalidTransition, "date is fixed once a show is picked")
}

func TestSelectDateInvalid(t *testing.T) {
	c := NewCheckout(uuid.New(), newMovie(nil, ptr(5)), FlowFull, testToday)
	assert.ErrorIs(t, c.SelectDate("01/03/2025"), ErrInvalidDate)
	assert.Equal(t, "2025-03-01", c.Date)
}

func TestFullFlowTransitions(t *testing.T) {
	pvr := newTheater("PVR")
	movie := newMovie(nil, ptr(50))
	st := newShowtime(movie.ID, pvr, "2025-03-01", "18:00", 200, 80)

	c := NewCheckout(uuid.New(), movie, FlowFull, testToday)
	require.NoError(t, c.PickShowtime(st))
	require.NoError(t, c.SetSeats(2))
	require.NoError(t, c.OpenSeatMap())
	assert.Equal(t, StepSeatMap, c.Step.Kind())

	changed, err := c.ToggleSeat("D5")
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = c.ConfirmSeats()
	assert.ErrorIs(t, err, ErrSeatSelectionIncomplete)

	_, err = c.ToggleSeat("D4")
	require.NoError(t, err)

	submit, err := c.ConfirmSeats()
	require.NoError(t, err)
	assert.False(t, submit)
	require.IsType(t, &PaymentStep{}, c.Step)
	assert.Equal(t, []string{"D4", "D5"}, c.Step.(*PaymentStep).SeatIDs)

	_, err = c.Order()
	assert.ErrorIs(t, err, ErrPaymentMethodRequired)

	assert.ErrorIs(t, c.ChoosePaymentMethod("cash"), ErrInvalidPaymentMethod)
	require.NoError(t, c.ChoosePaymentMethod(entity.PaymentMethodUPI))

	order, err := c.Order()
	require.NoError(t, err)
	assert.Equal(t, Order{
		Showtime:  st,
		Seats:     2,
		SeatIDs:   []string{"D4", "D5"},
		Method:    entity.PaymentMethodUPI,
		UnitPrice: 200,
		Total:     400,
	}, order)
}

func TestBack(t *testing.T) {
	pvr := newTheater("PVR")
	movie := newMovie(nil, ptr(50))
	st := newShowtime(movie.ID, pvr, "2025-03-01", "18:00", 200, 80)

	c := NewCheckout(uuid.New(), movie, FlowFull, testToday)
	assert.ErrorIs(t, c.Back(), ErrInvalidTransition, "nothing before theaters")

	require.NoError(t, c.PickShowtime(st))
	require.NoError(t, c.SetSeats(2))
	require.NoError(t, c.OpenSeatMap())
	c.ToggleSeat("A1")
	c.ToggleSeat("A2")
	_, err := c.ConfirmSeats()
	require.NoError(t, err)
	require.NoError(t, c.ChoosePaymentMethod(entity.PaymentMethodDebit))

	// payment -> seat map keeps the selection
	require.NoError(t, c.Back())
	require.IsType(t, &SeatMapStep{}, c.Step)
	assert.Equal(t, []string{"A1", "A2"}, c.Step.(*SeatMapStep).Selection.Selected())

	// seat map -> seats keeps the count only
	require.NoError(t, c.Back())
	assert.Equal(t, StepSeats, c.Step.Kind())
	assert.Equal(t, 2, c.Seats())
	require.NoError(t, c.OpenSeatMap())
	assert.Empty(t, c.Step.(*SeatMapStep).Selection.Selected())

	require.NoError(t, c.Back())
	require.NoError(t, c.Back())
	assert.Equal(t, StepTheaters, c.Step.Kind())
	assert.Nil(t, c.Showtime())

	quick := NewCheckout(uuid.New(), movie, FlowQuick, testToday)
	assert.ErrorIs(t, quick.Back(), ErrInvalidTransition)
}

func TestOpenSeatMapRules(t *testing.T) {
	pvr := newTheater("PVR")
	movie := newMovie(nil, ptr(50))

	quick := NewCheckout(uuid.New(), movie, FlowQuick, testToday)
	assert.ErrorIs(t, quick.OpenSeatMap(), ErrInvalidTransition)

	st := newShowtime(movie.ID, pvr, "2025-03-01", "18:00", 200, 1)
	c := NewCheckout(uuid.New(), movie, FlowSeatMap, testToday)
	require.NoError(t, c.PickShowtime(st))
	st.AvailableSeats = 0
	assert.ErrorIs(t, c.OpenSeatMap(), ErrHousefull)
}

func TestSeatMapFlowSubmitsOnConfirm(t *testing.T) {
	pvr := newTheater("PVR")
	movie := newMovie(nil, ptr(50))
	st := newShowtime(movie.ID, pvr, "2025-03-01", "18:00", 150, 3)

	c := NewCheckout(uuid.New(), movie, FlowSeatMap, testToday)
	require.NoError(t, c.PickShowtime(st))
	require.NoError(t, c.SetSeats(2))
	require.NoError(t, c.OpenSeatMap())

	// 77 of 80 seats are filled; pick two of the three open ones
	sel := c.Step.(*SeatMapStep).Selection
	var open []string
	for _, row := range sel.Grid() {
		for _, cell := range row {
			if cell.Status == SeatOpen {
				open = append(open, cell.ID)
			}
		}
	}
	require.Len(t, open, 3)
	c.ToggleSeat(open[0])
	c.ToggleSeat(open[1])

	submit, err := c.ConfirmSeats()
	require.NoError(t, err)
	assert.True(t, submit)
	assert.Equal(t, StepSeatMap, c.Step.Kind(), "confirm leaves the step to the submission")

	order, err := c.Order()
	require.NoError(t, err)
	assert.Equal(t, 2, order.Seats)
	assert.Equal(t, 300.0, order.Total)
	assert.Equal(t, open[:2], order.SeatIDs)
}

func TestRevertAndDone(t *testing.T) {
	pvr := newTheater("PVR")
	movie := newMovie(nil, ptr(50))
	st := newShowtime(movie.ID, pvr, "2025-03-01", "18:00", 200, 80)

	c := NewCheckout(uuid.New(), movie, FlowFull, testToday)
	require.NoError(t, c.PickShowtime(st))
	require.NoError(t, c.SetSeats(2))
	require.NoError(t, c.OpenSeatMap())
	c.ToggleSeat("E1")
	c.ToggleSeat("E2")
	_, err := c.ConfirmSeats()
	require.NoError(t, err)
	require.NoError(t, c.ChoosePaymentMethod(entity.PaymentMethodCredit))

	order, err := c.Order()
	require.NoError(t, err)

	c.beginPaying(order, uuid.New())
	assert.False(t, c.CanClose())
	assert.ErrorIs(t, c.Back(), ErrInvalidTransition)
	assert.ErrorIs(t, c.Done(testToday), ErrInvalidTransition)

	c.revert(order)
	require.IsType(t, &SeatMapStep{}, c.Step)
	assert.Equal(t, 2, c.Seats())
	assert.Equal(t, []string{"E1", "E2"}, c.Step.(*SeatMapStep).Selection.Selected())
	assert.True(t, c.CanClose())

	c.confirm(order, &entity.Booking{ID: uuid.New(), OrderID: "BOOK-1"}, "sent")
	assert.Equal(t, StepConfirmed, c.Step.Kind())
	assert.Equal(t, 400.0, c.Total())

	tomorrow := testToday.AddDate(0, 0, 1)
	require.NoError(t, c.Done(tomorrow))
	assert.Equal(t, StepTheaters, c.Step.Kind())
	assert.Equal(t, "2025-03-02", c.Date)
	assert.Nil(t, c.Showtime())
	assert.Equal(t, 1, c.Seats())
}

func TestQuickRevertKeepsCount(t *testing.T) {
	c := NewCheckout(uuid.New(), newMovie(ptr(120.0), ptr(40)), FlowQuick, testToday)
	require.NoError(t, c.SetSeats(3))

	order, err := c.Order()
	require.NoError(t, err)
	assert.Equal(t, 360.0, order.Total)
	assert.Nil(t, order.SeatIDs)

	c.beginPaying(order, uuid.New())
	c.revert(order)
	assert.Equal(t, StepSeats, c.Step.Kind())
	assert.Equal(t, 3, c.Seats())
}

func TestCheckoutCodecRoundTrip(t *testing.T) {
	pvr := newTheater("PVR")
	movie := newMovie(nil, ptr(50))
	st := newShowtime(movie.ID, pvr, "2025-03-01", "18:00", 200, 70)

	c := NewCheckout(uuid.New(), movie, FlowFull, testToday)
	c.OwnerID = uuid.New()
	require.NoError(t, c.PickShowtime(st))
	require.NoError(t, c.SetSeats(2))
	require.NoError(t, c.OpenSeatMap())
	c.ToggleSeat("H9")
	c.ToggleSeat("H10")

	payload, err := encodeCheckout(c)
	require.NoError(t, err)

	got, err := decodeCheckout(payload)
	require.NoError(t, err)
	require.IsType(t, &SeatMapStep{}, got.Step)

	sel := got.Step.(*SeatMapStep).Selection
	assert.Equal(t, []string{"H9", "H10"}, sel.Selected())
	assert.Equal(t, c.Step.(*SeatMapStep).Selection.Grid(), sel.Grid(), "filled seats rebuilt from counts")
	assert.Equal(t, c.Total(), got.Total())
	assert.Equal(t, FlowFull, got.Variant)
	assert.Equal(t, c.OwnerID, got.OwnerID)

	_, err = decodeCheckout([]byte(`{"step":"seats"}`))
	assert.Error(t, err, "missing movie")
}

func TestAuthorize(t *testing.T) {
	c := NewCheckout(uuid.New(), newMovie(nil, ptr(10)), FlowQuick, testToday)
	assert.NoError(t, c.Authorize(nil), "unowned checkout accepts anyone")

	owner := &AuthUser{ID: uuid.New()}
	c.OwnerID = owner.ID
	assert.NoError(t, c.Authorize(owner))
	assert.ErrorIs(t, c.Authorize(nil), ErrCheckoutForbidden)
	assert.ErrorIs(t, c.Authorize(&AuthUser{ID: uuid.New()}), ErrCheckoutForbidden)
}
