package reports

import (
	"time"

	pkgerrors "github.com/jmoralesv/turnia-backend/pkg/errors"
)

// Window is an inclusive calendar date range. Times are normalized to
// midnight; containment checks ignore the clock part entirely.
type Window struct {
	From time.Time
	To   time.Time
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the single-day window around now.
func Today(now time.Time) Window {
	day := dateOf(now)
	return Window{From: day, To: day}
}

// ThisWeek is the Monday-to-Sunday window containing now.
func ThisWeek(now time.Time) Window {
	day := dateOf(now)
	weekday := int(day.Weekday())
	// time.Weekday puts Sunday at 0; shift so the week starts Monday.
	offset := (weekday + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return Window{From: monday, To: monday.AddDate(0, 0, 6)}
}

// ThisMonth is the first-to-last-day window of now's month.
func ThisMonth(now time.Time) Window {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return Window{From: first, To: last}
}

// Range builds an explicit window, rejecting inverted bounds.
func Range(from, to time.Time) (Window, error) {
	f := dateOf(from)
	t := dateOf(to)
	if t.Before(f) {
		return Window{}, pkgerrors.New(pkgerrors.CodeValidation, "window end precedes start")
	}
	return Window{From: f, To: t}, nil
}

// Contains reports whether the given date falls inside the window.
func (w Window) Contains(day time.Time) bool {
	d := dateOf(day)
	return !d.Before(w.From) && !d.After(w.To)
}

// Days iterates the calendar dates covered by the window, oldest first.
func (w Window) Days() []time.Time {
	days := []time.Time{}
	for day := w.From; !day.After(w.To); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}
