package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdeck/internal/model"
)

func eventOn(id int64, title string, t time.Time) model.Event {
	start := t
	return model.Event{ID: id, Title: title, StartTime: &start}
}

func TestMonthGrid_AlwaysFortyTwoCells(t *testing.T) {
	t.Parallel()

	months := []time.Time{
		time.Date(2024, time.February, 1, 0, 0, 0, 0, time.Local),  // leap February
		time.Date(2023, time.February, 1, 0, 0, 0, 0, time.Local),  // 28 days
		time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local),    // 31 days
		time.Date(2025, time.June, 30, 0, 0, 0, 0, time.Local),     // Sunday-start month
		time.Date(2024, time.September, 1, 0, 0, 0, 0, time.Local), // 30 days, Sunday 1st
	}

	for _, month := range months {
		grid := MonthGrid(nil, month)
		assert.Len(t, grid.Cells, GridCells, "month %s", month.Format("2006-01"))
	}
}

func TestMonthGrid_LeadingBlanksMatchWeekday(t *testing.T) {
	t.Parallel()

	// March 2024 starts on a Friday, so five blanks precede day 1.
	grid := MonthGrid(nil, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.Local))

	for i := 0; i < 5; i++ {
		assert.True(t, grid.Cells[i].Blank(), "cell %d", i)
	}
	require.Equal(t, 1, grid.Cells[5].Day)
	assert.Equal(t, "2024-03-01", grid.Cells[5].DateKey)

	// Day 31 lands at index 5+30; everything after is padding.
	assert.Equal(t, 31, grid.Cells[35].Day)
	for i := 36; i < GridCells; i++ {
		assert.True(t, grid.Cells[i].Blank(), "cell %d", i)
	}
}

func TestMonthGrid_CapAndOverflow(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.March, 5, 19, 0, 0, 0, time.Local)
	events := []model.Event{
		eventOn(1, "first", day),
		eventOn(2, "second", day.Add(time.Hour)),
		eventOn(3, "third", day.Add(2*time.Hour)),
		eventOn(4, "fourth", day.Add(3*time.Hour)),
	}

	grid := MonthGrid(events, day)
	cell := grid.Cells[5+4] // five leading blanks, then days 1..4

	require.Equal(t, 5, cell.Day)
	assert.Len(t, cell.Events, MaxVisibleEvents)
	assert.Equal(t, 1, cell.Overflow)
	assert.Equal(t, 4, cell.Total)

	// The visible slice keeps input order.
	assert.Equal(t, "first", cell.Events[0].Title)
	assert.Equal(t, "third", cell.Events[2].Title)
}

func TestMonthGrid_ExactlyAtCapHasNoOverflow(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.Local)
	var events []model.Event
	for i := 0; i < MaxVisibleEvents; i++ {
		events = append(events, eventOn(int64(i+1), fmt.Sprintf("ev-%d", i), day))
	}

	grid := MonthGrid(events, day)
	cell := grid.Cells[9]

	assert.Len(t, cell.Events, MaxVisibleEvents)
	assert.Zero(t, cell.Overflow)
	assert.Equal(t, MaxVisibleEvents, cell.Total)
}

func TestBucket_SkipsEventsWithoutStart(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.Local)
	events := []model.Event{
		eventOn(1, "dated", day),
		{ID: 2, Title: "undated"},
	}

	buckets := Bucket(events)

	require.Len(t, buckets, 1)
	assert.Len(t, buckets["2024-03-05"], 1)
}

func TestDayEvents_IgnoresDisplayCap(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.Local)
	var events []model.Event
	for i := 0; i < 6; i++ {
		events = append(events, eventOn(int64(i+1), fmt.Sprintf("ev-%d", i), day.Add(time.Duration(i)*time.Minute)))
	}

	bucket := DayEvents(events, "2024-03-05")

	require.Len(t, bucket, 6)
	assert.Equal(t, "ev-0", bucket[0].Title)
	assert.Equal(t, "ev-5", bucket[5].Title)
}

func TestMonthNavigation_NeverSkipsMonths(t *testing.T) {
	t.Parallel()

	// Navigating from Jan 31 must land in February, not March.
	jan31 := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.Local)
	next := NextMonth(jan31)
	assert.Equal(t, time.February, next.Month())
	assert.Equal(t, 1, next.Day())

	// And from Mar 31 back to February.
	mar31 := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.Local)
	prev := PrevMonth(mar31)
	assert.Equal(t, time.February, prev.Month())
	assert.Equal(t, 1, prev.Day())
}

func TestMonthNavigation_YearBoundaries(t *testing.T) {
	t.Parallel()

	dec := time.Date(2024, time.December, 15, 0, 0, 0, 0, time.Local)
	next := NextMonth(dec)
	assert.Equal(t, 2025, next.Year())
	assert.Equal(t, time.January, next.Month())

	jan := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.Local)
	prev := PrevMonth(jan)
	assert.Equal(t, 2023, prev.Year())
	assert.Equal(t, time.December, prev.Month())
}

func TestMonthNavigation_RoundTrip(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)
	month := start
	for i := 0; i < 24; i++ {
		month = NextMonth(month)
	}
	for i := 0; i < 24; i++ {
		month = PrevMonth(month)
	}
	assert.Equal(t, start.Year(), month.Year())
	assert.Equal(t, start.Month(), month.Month())
}
