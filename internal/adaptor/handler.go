package adaptor

import (
	"movie-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Movie        *MovieHandler
	Theater      *TheaterHandler
	Booking      *BookingHandler
	Checkout     *CheckoutHandler
	Availability *AvailabilityHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		User:         NewUserHandler(service.User, log),
		Movie:        NewMovieHandler(service.Movie, log),
		Theater:      NewTheaterHandler(service.Theater, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Checkout:     NewCheckoutHandler(service.Checkout, log),
		Availability: NewAvailabilityHandler(service.Availability, log),
	}
}
