package store

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/yralfoods/donut-shop/internal/domain"
)

var ErrStoreClosed = errors.New("store is currently closed")

// IsOpen reports whether the store accepts orders at the given moment.
// Missing work-hours data defaults to open; an unchecked day is closed; an
// in-slot time on a checked day is open. Slot bounds are inclusive.
func IsOpen(hours domain.WorkHours, now time.Time) bool {
	if len(hours) == 0 {
		return true // default to open if data hasn't loaded
	}

	day, ok := hours[now.Weekday().String()]
	if !ok || !day.Checked || len(day.Slots) == 0 {
		return false
	}

	minutes := now.Hour()*60 + now.Minute()
	for _, slot := range day.Slots {
		start, okStart := parseClock(slot.Start)
		end, okEnd := parseClock(slot.End)
		if !okStart || !okEnd {
			continue
		}
		if minutes >= start && minutes <= end {
			return true
		}
	}
	return false
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	mins, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return hours*60 + mins, true
}
