package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"movie-booking/pkg/broker"

	"go.uber.org/zap"
)

// BookingConfirmedQueue receives one message per paid booking.
const BookingConfirmedQueue = "booking.confirmed"

// ConfirmationNotice is the confirmation addressed to the booking user.
type ConfirmationNotice struct {
	BookingID  string    `json:"booking_id"`
	OrderID    string    `json:"order_id"`
	Email      string    `json:"email"`
	MovieTitle string    `json:"movie_title"`
	Seats      int       `json:"seats"`
	SeatIDs    []string  `json:"seat_ids,omitempty"`
	Total      float64   `json:"total"`
	Message    string    `json:"message"`
	SentAt     time.Time `json:"sent_at"`
}

func confirmationMessage(email string, seats int, title string, total float64) string {
	return fmt.Sprintf("Booking confirmation sent to %s! %d ticket(s) for %q, total ₹%s",
		email, seats, title, strconv.FormatFloat(total, 'f', -1, 64))
}

type Notifier interface {
	BookingConfirmed(ctx context.Context, notice ConfirmationNotice) error
}

type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier writes confirmations to the log in place of sending email.
func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *logNotifier) BookingConfirmed(_ context.Context, notice ConfirmationNotice) error {
	n.log.Info("Booking confirmation",
		zap.String("email", notice.Email),
		zap.String("order_id", notice.OrderID),
		zap.String("message", notice.Message),
	)
	return nil
}

type queueNotifier struct {
	publisher broker.Publisher
}

// NewQueueNotifier publishes confirmations to the booking.confirmed queue
// for the mail worker.
func NewQueueNotifier(publisher broker.Publisher) Notifier {
	return &queueNotifier{publisher: publisher}
}

func (n *queueNotifier) BookingConfirmed(ctx context.Context, notice ConfirmationNotice) error {
	return n.publisher.Publish(ctx, BookingConfirmedQueue, notice)
}

type multiNotifier []Notifier

// NewMultiNotifier fans out to every notifier and joins their errors.
func NewMultiNotifier(notifiers ...Notifier) Notifier {
	return multiNotifier(notifiers)
}

func (m multiNotifier) BookingConfirmed(ctx context.Context, notice ConfirmationNotice) error {
	var errs []error
	for _, n := range m {
		if err := n.BookingConfirmed(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
