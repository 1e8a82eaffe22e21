package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"

	"github.com/google/uuid"
)

var errDB = errors.New("connection refused")

type fakeMovieRepo struct {
	movies map[uuid.UUID]*entity.Movie

	housefull    []string
	nowShowing   []string
	housefullErr error
	promoteErr   error
	promotedOn   time.Time
}

func newFakeMovieRepo(movies ...*entity.Movie) *fakeMovieRepo {
	r := &fakeMovieRepo{movies: make(map[uuid.UUID]*entity.Movie)}
	for _, m := range movies {
		r.movies[m.ID] = m
	}
	return r
}

func (r *fakeMovieRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	return r.movies[id], nil
}

func (r *fakeMovieRepo) FindAll(_ context.Context, offset, limit int, genre *string) ([]*entity.Movie, error) {
	var out []*entity.Movie
	for _, m := range r.movies {
		if genre == nil || slices.Contains(m.Genre, *genre) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovieRepo) CountAll(ctx context.Context, genre *string) (int64, error) {
	all, _ := r.FindAll(ctx, 0, 0, genre)
	return int64(len(all)), nil
}

func (r *fakeMovieRepo) FindFeatured(_ context.Context) ([]*entity.Movie, error) {
	var out []*entity.Movie
	for _, m := range r.movies {
		if m.Featured {
			out = append(out, m)
		}
	}
	return out, nil
}

// MarkHousefull and PromoteReleased apply the same guards as the SQL updates.
func (r *fakeMovieRepo) MarkHousefull(_ context.Context) ([]string, error) {
	if r.housefullErr != nil {
		return nil, r.housefullErr
	}
	titles := []string{}
	for _, m := range r.movies {
		if m.SeatsLeft() == 0 && m.AvailableSeats != nil &&
			m.Availability != entity.AvailabilityHousefull && m.Availability != entity.AvailabilityEnded {
			m.Availability = entity.AvailabilityHousefull
			titles = append(titles, m.Title)
		}
	}
	slices.Sort(titles)
	return titles, nil
}

func (r *fakeMovieRepo) PromoteReleased(_ context.Context, today time.Time) ([]string, error) {
	r.promotedOn = today
	if r.promoteErr != nil {
		return nil, r.promoteErr
	}
	titles := []string{}
	day := today.Format(time.DateOnly)
	for _, m := range r.movies {
		if m.Availability == entity.AvailabilityComingSoon && m.ReleaseDate != nil &&
			m.ReleaseDate.Format(time.DateOnly) <= day {
			m.Availability = entity.AvailabilityNowShowing
			titles = append(titles, m.Title)
		}
	}
	slices.Sort(titles)
	return titles, nil
}

type fakeShowtimeRepo struct {
	shows []*entity.Showtime
}

func (r *fakeShowtimeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Showtime, error) {
	for _, st := range r.shows {
		if st.ID == id {
			cp := *st
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeShowtimeRepo) FindByMovieID(_ context.Context, movieID uuid.UUID) ([]*entity.Showtime, error) {
	out := []*entity.Showtime{}
	for _, st := range r.shows {
		if st.MovieID == movieID {
			out = append(out, st)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
	order    []uuid.UUID

	createErr error
	// statusErr fails UpdateStatus for that status only
	statusErr map[entity.BookingStatus]error
	showtimes *fakeShowtimeRepo
}

func newFakeBookingRepo(showtimes *fakeShowtimeRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:  make(map[uuid.UUID]*entity.Booking),
		statusErr: make(map[entity.BookingStatus]error),
		showtimes: showtimes,
	}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *b
	r.bookings[b.ID] = &cp
	r.order = append(r.order, b.ID)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for i := len(r.order) - 1; i >= 0; i-- {
		if b := r.bookings[r.order[i]]; b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	all, _ := r.FindByUserID(ctx, userID, 0, 0)
	return int64(len(all)), nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.statusErr[status]; err != nil {
		return nil, err
	}
	b, ok := r.bookings[id]
	if !ok || b.Status != entity.BookingStatusPending {
		return nil, nil
	}
	b.Status = status
	if status == entity.BookingStatusPaid && b.ShowtimeID != nil && r.showtimes != nil {
		for _, st := range r.showtimes.shows {
			if st.ID == *b.ShowtimeID {
				st.AvailableSeats = max(0, st.AvailableSeats-b.Seats)
			}
		}
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) all() []*entity.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Booking, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.bookings[id]
		out = append(out, &cp)
	}
	return out
}

// recordingNotifier runs on the dispatch goroutine. When release is set it
// blocks until release is closed.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []ConfirmationNotice
	err     error
	release chan struct{}
}

func (n *recordingNotifier) BookingConfirmed(ctx context.Context, notice ConfirmationNotice) error {
	if n.release != nil {
		select {
		case <-n.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.err
}

func (n *recordingNotifier) sent() []ConfirmationNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.notices)
}

func newFakeRepository(movies *fakeMovieRepo, shows *fakeShowtimeRepo, bookings *fakeBookingRepo, now func() time.Time) *repository.Repository {
	return &repository.Repository{
		Movie:    movies,
		Showtime: shows,
		Booking:  bookings,
		Checkout: repository.NewMemoryCheckoutStore(now),
	}
}
