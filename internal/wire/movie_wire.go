package wire

import (
	"movie-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/movies?genre=&page=&per_page= - List movies, newest first
	r.Get("/api/movies", movieHandler.GetMovies)

	// GET /api/movies/featured - Now showing, for the home page
	r.Get("/api/movies/featured", movieHandler.GetFeaturedMovies)

	// GET /api/movies/{id} - Movie details
	r.Get("/api/movies/{id}", movieHandler.GetMovieByID)

	// GET /api/movies/{id}/showtimes?date=2025-03-04 - Date options + showtimes per theater
	r.Get("/api/movies/{id}/showtimes", movieHandler.GetShowtimes)

	// GET /api/genres - Genres for the filter bar
	r.Get("/api/genres", movieHandler.GetGenres)
}
