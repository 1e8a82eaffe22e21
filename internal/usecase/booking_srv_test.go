package usecase

import (
	"context"
	"testing"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBookingService() (*bookingService, *fakeBookingRepo) {
	bookings := newFakeBookingRepo(nil)
	svc := NewBookingService(&repository.Repository{Booking: bookings}, zap.NewNop()).(*bookingService)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 18, 4, 5, 0, time.UTC) }
	return svc, bookings
}

func TestCreateBooking(t *testing.T) {
	svc, bookings := newTestBookingService()
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, CreateBookingInput{MovieID: uuid.New(), Seats: 1})
	assert.EqualError(t, err, "must be logged in")

	_, err = svc.CreateBooking(ctx, CreateBookingInput{UserID: uuid.New(), MovieID: uuid.New(), Seats: 0})
	assert.ErrorContains(t, err, "validation failed")

	_, err = svc.CreateBooking(ctx, CreateBookingInput{UserID: uuid.New(), MovieID: uuid.New(), Seats: 11})
	assert.ErrorContains(t, err, "validation failed")
	assert.Empty(t, bookings.all())

	userID := uuid.New()
	b, err := svc.CreateBooking(ctx, CreateBookingInput{
		UserID:     userID,
		MovieID:    uuid.New(),
		Seats:      2,
		SeatLabels: []string{"A1", "A2"},
		Method:     entity.PaymentMethodDebit,
		Total:      500,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, b.Status)
	assert.Regexp(t, `^BOOK-20250301-180405-\d{4}$`, b.OrderID)
	require.NotNil(t, b.PaymentMethod)
	assert.Equal(t, entity.PaymentMethodDebit, *b.PaymentMethod)
	assert.Len(t, bookings.all(), 1)
}

func TestUpdateStatusOnlyFromPending(t *testing.T) {
	svc, _ := newTestBookingService()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, CreateBookingInput{UserID: uuid.New(), MovieID: uuid.New(), Seats: 1, Total: 250})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, b.ID, entity.BookingStatusPending)
	assert.EqualError(t, err, "invalid booking status pending")

	paid, err := svc.UpdateStatus(ctx, b.ID, entity.BookingStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPaid, paid.Status)

	_, err = svc.UpdateStatus(ctx, b.ID, entity.BookingStatusCancelled)
	assert.EqualError(t, err, "booking is already paid, cannot change to cancelled")

	missing := uuid.New()
	_, err = svc.UpdateStatus(ctx, missing, entity.BookingStatusPaid)
	assert.EqualError(t, err, "booking "+missing.String()+" not found")
}

func TestCancelAndGetBooking(t *testing.T) {
	svc, _ := newTestBookingService()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, CreateBookingInput{UserID: uuid.New(), MovieID: uuid.New(), Seats: 1, Total: 250})
	require.NoError(t, err)

	resp, err := svc.CancelBooking(ctx, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, resp.Status)

	got, err := svc.GetBookingByID(ctx, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, got.Status)
	assert.Equal(t, []string{}, got.SeatLabels)

	_, err = svc.SetBookingStatus(ctx, b.ID.String(), &request.UpdateBookingStatusRequest{Status: "refunded"})
	assert.ErrorContains(t, err, "validation failed")

	_, err = svc.GetBookingByID(ctx, "abc")
	assert.ErrorContains(t, err, "invalid booking ID format")
}

func TestGetUserBookingsNewestFirst(t *testing.T) {
	svc, _ := newTestBookingService()
	ctx := context.Background()
	userID := uuid.New()

	for _, seats := range []int{1, 2, 3} {
		_, err := svc.CreateBooking(ctx, CreateBookingInput{UserID: userID, MovieID: uuid.New(), Seats: seats, Total: 100})
		require.NoError(t, err)
	}
	_, err := svc.CreateBooking(ctx, CreateBookingInput{UserID: uuid.New(), MovieID: uuid.New(), Seats: 1, Total: 100})
	require.NoError(t, err)

	page, err := svc.GetUserBookings(ctx, userID.String(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, 3, page.Data[0].Seats)
	assert.Equal(t, 1, page.Data[2].Seats)
	assert.Equal(t, int64(3), page.Pagination.Total)
}

func TestGetPaymentMethods(t *testing.T) {
	svc, _ := newTestBookingService()
	methods := svc.GetPaymentMethods(context.Background())
	require.Len(t, methods, 3)
	assert.Equal(t, "debit", methods[0].ID)
	assert.Equal(t, "Debit Card", methods[0].Name)
	assert.Equal(t, "upi", methods[2].ID)
}
