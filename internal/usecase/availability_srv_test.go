package usecase

import (
	"context"
	"testing"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func catalogMovie(title string, availability entity.Availability, seats *int, release *time.Time) *entity.Movie {
	return &entity.Movie{
		BaseNoDelete:   entity.BaseNoDelete{ID: uuid.New()},
		Title:          title,
		AvailableSeats: seats,
		Availability:   availability,
		ReleaseDate:    release,
	}
}

func newTestAvailabilityService(movies *fakeMovieRepo, now time.Time) AvailabilityService {
	svc := NewAvailabilityService(&repository.Repository{Movie: movies}, zap.NewNop()).(*availabilityService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestReconcileRules(t *testing.T) {
	// 01:30 in Jakarta is still the previous day in UTC
	jakarta := time.FixedZone("WIB", 7*3600)
	now := time.Date(2025, 3, 2, 1, 30, 0, 0, jakarta)
	utcToday := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	yesterday := utcToday.AddDate(0, 0, -1)
	tomorrow := utcToday.AddDate(0, 0, 1)

	soldOut := catalogMovie("Sold Out", entity.AvailabilityNowShowing, ptr(0), nil)
	ended := catalogMovie("Ended", entity.AvailabilityEnded, ptr(0), nil)
	released := catalogMovie("Released", entity.AvailabilityComingSoon, ptr(50), &yesterday)
	today := catalogMovie("Today", entity.AvailabilityComingSoon, ptr(50), &utcToday)
	upcoming := catalogMovie("Upcoming", entity.AvailabilityComingSoon, ptr(50), &tomorrow)
	showing := catalogMovie("Showing", entity.AvailabilityNowShowing, ptr(12), nil)

	movies := newFakeMovieRepo(soldOut, ended, released, today, upcoming, showing)
	svc := newTestAvailabilityService(movies, now)

	report, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Sold Out"}, report.Housefull)
	assert.Equal(t, []string{"Released", "Today"}, report.NowShowing)
	assert.Equal(t, time.UTC, report.Timestamp.Location())
	assert.Equal(t, "2025-03-01", movies.promotedOn.Format(time.DateOnly))

	assert.Equal(t, entity.AvailabilityHousefull, soldOut.Availability)
	assert.Equal(t, entity.AvailabilityEnded, ended.Availability, "ended is terminal")
	assert.Equal(t, entity.AvailabilityComingSoon, upcoming.Availability)
	assert.Equal(t, entity.AvailabilityNowShowing, showing.Availability)

	again, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Empty(t, again.Housefull, "second pass changes nothing")
	assert.Empty(t, again.NowShowing)
	assert.NotNil(t, again.Housefull)
}

func TestReconcileJoinsRuleErrors(t *testing.T) {
	movies := newFakeMovieRepo(catalogMovie("Sold Out", entity.AvailabilityNowShowing, ptr(0), nil))
	movies.housefullErr = errDB
	movies.promoteErr = context.DeadlineExceeded

	svc := newTestAvailabilityService(movies, time.Now())

	report, err := svc.Reconcile(context.Background())
	assert.Nil(t, report)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDB)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "mark housefull")
	assert.Contains(t, err.Error(), "promote released")
	assert.False(t, movies.promotedOn.IsZero(), "second rule still runs")
}
