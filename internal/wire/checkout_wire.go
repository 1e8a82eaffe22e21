package wire

import (
	"movie-booking/internal/adaptor"
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireCheckout mounts the booking dialog. Sessions are optional here: browsing
// is anonymous, and only the submitting actions need a signed in user, which
// the handler checks itself so it can answer with the sign-in redirect.
func wireCheckout(
	r chi.Router,
	checkoutHandler *adaptor.CheckoutHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/checkouts", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(repo.Session, log))

		r.Post("/", checkoutHandler.Open)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", checkoutHandler.Get)
			r.Delete("/", checkoutHandler.Close)

			// Theaters step
			r.Get("/showtimes", checkoutHandler.Showtimes)
			r.Put("/date", checkoutHandler.SelectDate)
			r.Put("/showtime", checkoutHandler.PickShowtime)

			// Seats + seat map
			r.Put("/seats", checkoutHandler.SetSeats)
			r.Post("/seat-map", checkoutHandler.OpenSeatMap)
			r.Post("/seat-map/toggle", checkoutHandler.ToggleSeat)
			r.Post("/seat-map/confirm", checkoutHandler.ConfirmSeats)

			// Payment
			r.Put("/payment-method", checkoutHandler.ChoosePaymentMethod)
			r.Post("/pay", checkoutHandler.Pay)

			r.Post("/back", checkoutHandler.Back)
			r.Post("/done", checkoutHandler.Done)
		})
	})
}
