package response

import (
	"time"

	"movie-booking/internal/data/entity"
)

type MovieResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Genre          []string  `json:"genre"`
	Rating         float64   `json:"rating"`
	Poster         *string   `json:"poster,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Price          float64   `json:"price"`
	AvailableSeats int       `json:"available_seats"`
	Availability   string    `json:"availability"`
	ReleaseDate    *string   `json:"release_date,omitempty"`
	Featured       bool      `json:"featured"`
	CreatedAt      time.Time `json:"created_at"`
}

type TheaterResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Location *string `json:"location,omitempty"`
}

type ShowtimeResponse struct {
	ID             string          `json:"id"`
	ShowDate       string          `json:"show_date"`
	ShowTime       string          `json:"show_time"`
	Price          float64         `json:"price"`
	AvailableSeats int             `json:"available_seats"`
	Selectable     bool            `json:"selectable"`
	Theater        TheaterResponse `json:"theater"`
}

type TheaterShowtimesResponse struct {
	Theater TheaterResponse    `json:"theater"`
	Shows   []ShowtimeResponse `json:"shows"`
}

// ShowtimeOptionsResponse feeds the date picker and the theater list.
type ShowtimeOptionsResponse struct {
	Date     string                     `json:"date"`
	Dates    []string                   `json:"dates"`
	Theaters []TheaterShowtimesResponse `json:"theaters"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie) MovieResponse {
	var releaseDate *string
	if movie.ReleaseDate != nil {
		d := movie.ReleaseDate.Format("2006-01-02")
		releaseDate = &d
	}

	genre := movie.Genre
	if genre == nil {
		genre = []string{}
	}

	return MovieResponse{
		ID:             movie.ID.String(),
		Title:          movie.Title,
		Genre:          genre,
		Rating:         movie.Rating,
		Poster:         movie.Poster,
		Description:    movie.Description,
		Price:          movie.TicketPrice(),
		AvailableSeats: movie.SeatsLeft(),
		Availability:   string(movie.Availability),
		ReleaseDate:    releaseDate,
		Featured:       movie.Featured,
		CreatedAt:      movie.CreatedAt,
	}
}

func TheaterToResponse(theater *entity.Theater) TheaterResponse {
	return TheaterResponse{
		ID:       theater.ID.String(),
		Name:     theater.Name,
		Location: theater.Location,
	}
}

func ShowtimeToResponse(st *entity.Showtime) ShowtimeResponse {
	return ShowtimeResponse{
		ID:             st.ID.String(),
		ShowDate:       st.DateKey(),
		ShowTime:       st.ShowTime,
		Price:          st.Price,
		AvailableSeats: st.AvailableSeats,
		Selectable:     st.Selectable(),
		Theater:        TheaterToResponse(&st.Theater),
	}
}
