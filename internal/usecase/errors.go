package usecase

import "errors"

var (
	ErrAuthenticationRequired  = errors.New("please sign in to book tickets")
	ErrHousefull               = errors.New("no seats available for this movie")
	ErrInvalidTransition       = errors.New("action not allowed at this step")
	ErrCheckoutNotFound        = errors.New("checkout not found or expired")
	ErrShowtimeUnavailable     = errors.New("showtime is not available")
	ErrPaymentMethodRequired   = errors.New("choose a payment method first")
	ErrSeatSelectionIncomplete = errors.New("select exactly as many seats as tickets")
	ErrCheckoutBusy            = errors.New("payment is already in progress")
	ErrCheckoutForbidden       = errors.New("checkout belongs to another user")
	ErrInvalidDate             = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method, use debit, credit or upi")
)

// LifecycleError is a failed create or status update during submission.
// Error returns the underlying message unchanged so it can be shown as is.
type LifecycleError struct {
	Op  string
	Err error
}

func (e *LifecycleError) Error() string { return e.Err.Error() }

func (e *LifecycleError) Unwrap() error { return e.Err }
