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

func TestGetShowtimes(t *testing.T) {
	movie := newMovie(nil, ptr(40))
	pvr := newTheater("PVR")
	inox := newTheater("INOX")

	shows := &fakeShowtimeRepo{shows: []*entity.Showtime{
		newShowtime(movie.ID, pvr, "2025-03-04", "10:00", 200, 10),
		newShowtime(movie.ID, inox, "2025-03-04", "13:00", 220, 0),
		newShowtime(movie.ID, pvr, "2025-03-05", "18:00", 200, 10),
	}}
	repo := &repository.Repository{Movie: newFakeMovieRepo(movie), Showtime: shows}
	svc := NewMovieService(repo, zap.NewNop()).(*movieService)
	svc.now = func() time.Time { return testToday }
	ctx := context.Background()

	resp, err := svc.GetShowtimes(ctx, movie.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", resp.Date, "first date on offer")
	assert.Equal(t, []string{"2025-03-04", "2025-03-05"}, resp.Dates)
	require.Len(t, resp.Theaters, 2)
	assert.Equal(t, "PVR", resp.Theaters[0].Theater.Name)
	assert.True(t, resp.Theaters[0].Shows[0].Selectable)
	assert.False(t, resp.Theaters[1].Shows[0].Selectable, "sold out shows are listed but not selectable")

	resp, err = svc.GetShowtimes(ctx, movie.ID.String(), "2025-03-05")
	require.NoError(t, err)
	require.Len(t, resp.Theaters, 1)
	assert.Equal(t, "18:00", resp.Theaters[0].Shows[0].ShowTime)

	_, err = svc.GetShowtimes(ctx, movie.ID.String(), "05-03-2025")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.GetShowtimes(ctx, uuid.NewString(), "")
	assert.ErrorContains(t, err, "not found")
}

func TestGetShowtimesFallbackWeek(t *testing.T) {
	movie := newMovie(nil, ptr(40))
	repo := &repository.Repository{Movie: newFakeMovieRepo(movie), Showtime: &fakeShowtimeRepo{}}
	svc := NewMovieService(repo, zap.NewNop()).(*movieService)
	svc.now = func() time.Time { return testToday }

	resp, err := svc.GetShowtimes(context.Background(), movie.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", resp.Date)
	assert.Len(t, resp.Dates, FallbackDateWindow)
	assert.Empty(t, resp.Theaters)
}

func TestGetMoviesByGenre(t *testing.T) {
	drama := newMovie(nil, ptr(10))
	drama.Genre = []string{"Drama"}
	scifi := newMovie(ptr(180.0), nil)

	repo := &repository.Repository{Movie: newFakeMovieRepo(drama, scifi)}
	svc := NewMovieService(repo, zap.NewNop())

	genre := "Sci-Fi"
	page, err := svc.GetMovies(context.Background(), &request.MovieListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		Genre:            &genre,
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 180.0, page.Data[0].Price)
	assert.Equal(t, 0, page.Data[0].AvailableSeats)
	assert.Equal(t, int64(1), page.Pagination.Total)
}
