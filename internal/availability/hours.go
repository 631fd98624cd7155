package availability

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// DateLayout is the storage format of calendar dates.
const DateLayout = "2006-01-02"

// DefaultHours are always shown in the grid.
var DefaultHours = []string{"19", "20", "21", "22", "23"}

// EarlyHours can be added to a day one at a time, latest first.
var EarlyHours = []string{"10", "11", "12", "13", "14", "15", "16", "17", "18"}

const firstDefaultHour = 19

// ValidateDate checks that date is a YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// ValidateHour checks that hour is an integer label between 0 and 23.
func ValidateHour(hour string) error {
	h, err := strconv.Atoi(hour)
	if err != nil || h < 0 || h > 23 || strconv.Itoa(h) != hour {
		return fmt.Errorf("%w: %q", ErrInvalidHour, hour)
	}
	return nil
}

// SortHours sorts hour labels by their integer value.
func SortHours(hours []string) {
	slices.SortFunc(hours, func(a, b string) int {
		ai, _ := strconv.Atoi(a)
		bi, _ := strconv.Atoi(b)
		return ai - bi
	})
}

// AllHours is the displayed hour set: extra hours, the defaults and any hour
// present in the matrix, de-duplicated and sorted.
func AllHours(extra []string, matrix []PlayerAvailability) []string {
	seen := make(map[string]struct{})
	hours := make([]string, 0, len(DefaultHours)+len(extra))
	add := func(h string) {
		if _, ok := seen[h]; ok {
			return
		}
		seen[h] = struct{}{}
		hours = append(hours, h)
	}
	for _, h := range extra {
		add(h)
	}
	for _, h := range DefaultHours {
		add(h)
	}
	for _, pa := range matrix {
		for h := range pa.Hours {
			add(h)
		}
	}
	SortHours(hours)
	return hours
}

// NextEarlyHour returns the latest early hour not yet displayed.
func NextEarlyHour(displayed []string) (string, bool) {
	for i := len(EarlyHours) - 1; i >= 0; i-- {
		if !slices.Contains(displayed, EarlyHours[i]) {
			return EarlyHours[i], true
		}
	}
	return "", false
}

// CanAddEarlyHour reports whether another early hour can be shown.
func CanAddEarlyHour(displayed []string) bool {
	early := 0
	for _, h := range displayed {
		if n, err := strconv.Atoi(h); err == nil && n < firstDefaultHour {
			early++
		}
	}
	return early < len(EarlyHours)
}
