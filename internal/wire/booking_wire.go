package wire

import (
	"movie-booking/internal/adaptor"
	"movie-booking/internal/data/repository"
	"movie-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	// GET /api/user/bookings - View booking history (user's own bookings)
	r.With(middleware.AuthSession(repo.Session, log)).Get("/api/user/bookings", bookingHandler.GetUserBookings)

	// ==================== PUBLIC ROUTES ====================
	// GET /api/payment-methods - List available payment methods (public)
	r.Get("/api/payment-methods", bookingHandler.GetPaymentMethods)

	// ==================== ADMIN ROUTES ====================
	// Admin booking management routes
	r.Route("/api/admin/bookings", func(r chi.Router) {
		// Require both authentication AND admin role
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		// GET /api/admin/bookings/{id} - View any booking details (admin)
		r.Get("/{id}", bookingHandler.GetBookingByID)

		// PATCH /api/admin/bookings/{id}/status - pending -> paid | cancelled
		r.Patch("/{id}/status", bookingHandler.UpdateBookingStatus)

		// PUT /api/admin/bookings/{id}/cancel - Cancel a pending booking (admin)
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)
	})
}
