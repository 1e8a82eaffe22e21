package usecase

import (
	"slices"
	"time"

	"movie-booking/internal/data/entity"

	"github.com/google/uuid"
)

// FallbackDateWindow is how many days are offered when a movie has no
// showtimes at all.
const FallbackDateWindow = 7

type TheaterShowtimes struct {
	Theater entity.Theater
	Shows   []*entity.Showtime
}

// GroupByTheater keeps theaters in order of first appearance and shows in
// input order within each theater.
func GroupByTheater(shows []*entity.Showtime) []TheaterShowtimes {
	groups := []TheaterShowtimes{}
	index := make(map[uuid.UUID]int)

	for _, st := range shows {
		if i, ok := index[st.Theater.ID]; ok {
			groups[i].Shows = append(groups[i].Shows, st)
			continue
		}
		index[st.Theater.ID] = len(groups)
		groups = append(groups, TheaterShowtimes{Theater: st.Theater, Shows: []*entity.Showtime{st}})
	}

	return groups
}

// FilterByDate matches the YYYY-MM-DD key exactly.
func FilterByDate(shows []*entity.Showtime, date string) []*entity.Showtime {
	out := []*entity.Showtime{}
	for _, st := range shows {
		if st.DateKey() == date {
			out = append(out, st)
		}
	}
	return out
}

// AvailableDates returns the distinct show dates, sorted.
func AvailableDates(shows []*entity.Showtime) []string {
	dates := []string{}
	for _, st := range shows {
		if !slices.Contains(dates, st.DateKey()) {
			dates = append(dates, st.DateKey())
		}
	}
	slices.Sort(dates)
	return dates
}

// FallbackDates lists n consecutive calendar days starting at today.
func FallbackDates(today time.Time, n int) []string {
	dates := make([]string, n)
	for i := range n {
		dates[i] = DateKey(today.AddDate(0, 0, i))
	}
	return dates
}

// DateOptions is what the date picker offers: the show dates, or a week
// starting today when the movie has nothing scheduled.
func DateOptions(shows []*entity.Showtime, today time.Time) []string {
	if dates := AvailableDates(shows); len(dates) > 0 {
		return dates
	}
	return FallbackDates(today, FallbackDateWindow)
}

func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
