package usecase

import (
	"slices"
	"strconv"
	"strings"
)

const (
	SeatRows     = 8
	SeatCols     = 10
	SeatCapacity = SeatRows * SeatCols

	// MaxTicketsPerBooking caps the ticket stepper and the seat quota.
	MaxTicketsPerBooking = 10
)

const seatRowLabels = "ABCDEFGH"

type SeatStatus string

const (
	SeatOpen     SeatStatus = "open"
	SeatFilled   SeatStatus = "filled"
	SeatSelected SeatStatus = "selected"
)

type SeatCell struct {
	ID     string
	Status SeatStatus
}

func seatID(row, col int) string {
	return string(seatRowLabels[row]) + strconv.Itoa(col+1)
}

// parseSeatID reports the zero based row and column of ids like "C7".
func parseSeatID(id string) (row, col int, ok bool) {
	if len(id) < 2 {
		return 0, 0, false
	}
	row = strings.IndexByte(seatRowLabels, id[0])
	if row < 0 {
		return 0, 0, false
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil || n < 1 || n > SeatCols || strconv.Itoa(n) != id[1:] {
		return 0, 0, false
	}
	return row, n - 1, true
}

// FilledSeats derives which seats are already taken from the two counts alone,
// so the same inputs always produce the same layout. The scatter pattern walks
// the grid in row-major order; collisions are made up for by a plain row-major
// fill at the end.
func FilledSeats(totalSeats, availableSeats int) map[string]bool {
	seatCount := min(SeatCapacity, max(0, totalSeats))
	available := min(max(0, availableSeats), seatCount)
	filledCount := max(0, seatCount-available)

	filled := make(map[string]bool, filledCount)

	for r := 0; r < SeatRows && len(filled) < filledCount; r++ {
		for c := 0; c < SeatCols && len(filled) < filledCount; c++ {
			idx := (r*3 + c*7 + 5) % SeatCapacity
			filled[seatID(idx/SeatCols, idx%SeatCols)] = true
		}
	}

	for r := 0; r < SeatRows && len(filled) < filledCount; r++ {
		for c := 0; c < SeatCols && len(filled) < filledCount; c++ {
			filled[seatID(r, c)] = true
		}
	}

	return filled
}

// SortSeatIDs orders by row letter, then by column number, so A2 comes
// before A10.
func SortSeatIDs(ids []string) {
	slices.SortFunc(ids, func(a, b string) int {
		ra, ca, okA := parseSeatID(a)
		rb, cb, okB := parseSeatID(b)
		if !okA || !okB {
			return strings.Compare(a, b)
		}
		if ra != rb {
			return ra - rb
		}
		return ca - cb
	})
}

// SeatSelection is one seat picking session on the fixed grid.
type SeatSelection struct {
	filled   map[string]bool
	selected map[string]bool
	quota    int
}

// NewSeatSelection clamps quota into [1, MaxTicketsPerBooking].
func NewSeatSelection(totalSeats, availableSeats, quota int) *SeatSelection {
	return &SeatSelection{
		filled:   FilledSeats(totalSeats, availableSeats),
		selected: make(map[string]bool),
		quota:    min(max(quota, 1), MaxTicketsPerBooking),
	}
}

func (s *SeatSelection) Quota() int { return s.quota }

func (s *SeatSelection) IsFilled(id string) bool { return s.filled[id] }

// Toggle flips a seat and reports whether the selection changed. Filled and
// unknown seats are ignored, as is adding a seat once the quota is reached.
func (s *SeatSelection) Toggle(id string) bool {
	if _, _, ok := parseSeatID(id); !ok || s.filled[id] {
		return false
	}
	if s.selected[id] {
		delete(s.selected, id)
		return true
	}
	if len(s.selected) >= s.quota {
		return false
	}
	s.selected[id] = true
	return true
}

func (s *SeatSelection) Selected() []string {
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	SortSeatIDs(ids)
	return ids
}

func (s *SeatSelection) CanConfirm() bool {
	return len(s.selected) == s.quota
}

// Confirm returns the sorted selection once it matches the quota exactly.
func (s *SeatSelection) Confirm() ([]string, error) {
	if !s.CanConfirm() {
		return nil, ErrSeatSelectionIncomplete
	}
	return s.Selected(), nil
}

// Grid renders the seat map row by row.
func (s *SeatSelection) Grid() [][]SeatCell {
	grid := make([][]SeatCell, SeatRows)
	for r := range SeatRows {
		row := make([]SeatCell, SeatCols)
		for c := range SeatCols {
			id := seatID(r, c)
			status := SeatOpen
			switch {
			case s.filled[id]:
				status = SeatFilled
			case s.selected[id]:
				status = SeatSelected
			}
			row[c] = SeatCell{ID: id, Status: status}
		}
		grid[r] = row
	}
	return grid
}
