package wire

import (
	"movie-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTheater(r chi.Router, theaterHandler *adaptor.TheaterHandler) {
	// GET /api/theaters?location= - List theaters (public)
	r.Get("/api/theaters", theaterHandler.GetTheaters)

	// GET /api/theaters/{id} - Theater details (public)
	r.Get("/api/theaters/{id}", theaterHandler.GetTheaterByID)
}
