package usecase

import (
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	User         UserService
	Movie        MovieService
	Theater      TheaterService
	Booking      BookingService
	Checkout     CheckoutService
	Availability AvailabilityService
}

func NewService(repo *repository.Repository, notifier Notifier, config *utils.Config, log *zap.Logger) *Service {
	booking := NewBookingService(repo, log)

	// Unknown values fall back to the full flow
	flow, err := ParseFlowVariant(config.Checkout.Flow)
	if err != nil {
		log.Warn("Invalid checkout flow, using full", zap.String("flow", config.Checkout.Flow))
		flow = FlowFull
	}

	return &Service{
		Auth:    NewAuthService(repo, config, log),
		User:    NewUserService(repo.User, log),
		Movie:   NewMovieService(repo, log),
		Theater: NewTheaterService(repo, log),
		Booking: booking,
		Checkout: NewCheckoutService(repo, booking, notifier, CheckoutConfig{
			Flow:         flow,
			TTL:          config.Checkout.TTL,
			PaymentDelay: config.Checkout.PaymentDelay,
		}, log),
		Availability: NewAvailabilityService(repo, log),
	}
}
