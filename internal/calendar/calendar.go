// Package calendar computes the planning window of the team.
package calendar

import (
	"time"

	"github.com/mauv0809/team-planner/internal/availability"
)

// WindowDays is the length of the planning window.
const WindowDays = 14

const displayLayout = "Monday, Jan 2"

// NextFriday returns the date of the coming Friday, or t's date if t is a Friday.
func NextFriday(t time.Time) time.Time {
	day := dateOf(t)
	offset := (int(time.Friday) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}

// Window returns the WindowDays dates starting at start.
func Window(start time.Time) []time.Time {
	start = dateOf(start)
	dates := make([]time.Time, 0, WindowDays)
	for i := 0; i < WindowDays; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

// CurrentWindow returns the storage dates of the window starting at the
// next Friday after now.
func CurrentWindow(now time.Time) []string {
	return FormatAll(Window(NextFriday(now)))
}

// Format renders t as a storage date.
func Format(t time.Time) string {
	return t.Format(availability.DateLayout)
}

// FormatAll renders every date as a storage date.
func FormatAll(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, Format(d))
	}
	return out
}

// Parse reads a storage date.
func Parse(date string) (time.Time, error) {
	if err := availability.ValidateDate(date); err != nil {
		return time.Time{}, err
	}
	return time.Parse(availability.DateLayout, date)
}

// Display renders a storage date for people, e.g. "Friday, Oct 23". Invalid
// dates are returned unchanged.
func Display(date string) string {
	t, err := Parse(date)
	if err != nil {
		return date
	}
	return t.Format(displayLayout)
}

// IndexOf returns the position of today's date in dates, or 0.
func IndexOf(dates []string, today time.Time) int {
	want := Format(today)
	for i, d := range dates {
		if d == want {
			return i
		}
	}
	return 0
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
