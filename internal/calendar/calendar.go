// Package calendar projects the flat saved-events collection onto a
// navigable month grid. Everything here is a pure function of
// (events, viewed month); the grid is recomputed on every render and
// never cached, so it cannot drift from the store.
package calendar

import (
	"time"

	"eventdeck/internal/model"
)

// MaxVisibleEvents is the per-cell display cap. Events beyond it are
// summarized as an overflow count.
const MaxVisibleEvents = 3

// GridCells is the fixed cell count: 6 weeks of 7 days, enough to
// cover any month. The constant size keeps the layout from reflowing
// between months.
const GridCells = 42

// dayKeyLayout formats a local date at day granularity.
const dayKeyLayout = "2006-01-02"

// Cell is one slot in the month grid. Blank padding cells have Day 0
// and an empty DateKey.
type Cell struct {
	// Day is the day-of-month number, or 0 for a blank cell.
	Day int

	// DateKey is the local calendar-day key, e.g. "2024-03-05".
	DateKey string

	// Events holds at most MaxVisibleEvents events for this day, in
	// store order.
	Events []model.Event

	// Overflow is how many further events this day has beyond the cap.
	Overflow int

	// Total is the full day-bucket size, independent of the cap.
	Total int
}

// Blank reports whether this is a padding cell.
func (c Cell) Blank() bool {
	return c.Day == 0
}

// Grid is a month of cells plus the month it was built for.
type Grid struct {
	Month time.Time
	Cells []Cell
}

// DayKey returns the local calendar-day key for a point in time.
func DayKey(t time.Time) string {
	return t.Local().Format(dayKeyLayout)
}

// Bucket groups events by local calendar day. Events without a start
// time are never placed; events sharing a day keep their input order.
func Bucket(events []model.Event) map[string][]model.Event {
	buckets := make(map[string][]model.Event)
	for _, ev := range events {
		if !ev.HasStart() {
			continue
		}
		key := DayKey(*ev.StartTime)
		buckets[key] = append(buckets[key], ev)
	}
	return buckets
}

// MonthGrid builds the 42-cell grid for the month containing the given
// time: blank cells up to the weekday of day 1 (Sunday-first), one
// cell per day of the month, then blank cells out to exactly 42.
func MonthGrid(events []model.Event, month time.Time) Grid {
	buckets := Bucket(events)

	year, m, _ := month.Date()
	first := time.Date(year, m, 1, 0, 0, 0, 0, time.Local)
	days := daysInMonth(year, m)
	lead := int(first.Weekday())

	cells := make([]Cell, 0, GridCells)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{})
	}

	for day := 1; day <= days; day++ {
		date := time.Date(year, m, day, 0, 0, 0, 0, time.Local)
		key := date.Format(dayKeyLayout)
		bucket := buckets[key]

		visible := bucket
		overflow := 0
		if len(bucket) > MaxVisibleEvents {
			visible = bucket[:MaxVisibleEvents]
			overflow = len(bucket) - MaxVisibleEvents
		}

		cells = append(cells, Cell{
			Day:      day,
			DateKey:  key,
			Events:   visible,
			Overflow: overflow,
			Total:    len(bucket),
		})
	}

	for len(cells) < GridCells {
		cells = append(cells, Cell{})
	}

	return Grid{Month: first, Cells: cells}
}

// DayEvents returns the full bucket for a day key, independent of the
// per-cell display cap. Used when a day is expanded for detail.
func DayEvents(events []model.Event, dateKey string) []model.Event {
	return Bucket(events)[dateKey]
}

// PrevMonth returns the month before the given one, with the day
// clamped to the 1st so end-of-month overflow can never skip a month.
func PrevMonth(month time.Time) time.Time {
	year, m, _ := month.Date()
	return time.Date(year, m-1, 1, 0, 0, 0, 0, time.Local)
}

// NextMonth returns the month after the given one, day clamped to the 1st.
func NextMonth(month time.Time) time.Time {
	year, m, _ := month.Date()
	return time.Date(year, m+1, 1, 0, 0, 0, 0, time.Local)
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, m time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.Local).Day()
}
