package calendar

import "time"

const (
	// SlotMinutes is the grid granularity.
	SlotMinutes = 30

	openingHour         = 9
	weekdayClosingHour  = 18
	saturdayClosingHour = 16
)

// ClosingHour returns the closing hour for d and false when the business is closed all day.
func ClosingHour(d Date) (int, bool) {
	switch d.Weekday() {
	case time.Sunday:
		return 0, false
	case time.Saturday:
		return saturdayClosingHour, true
	default:
		return weekdayClosingHour, true
	}
}

// SlotsForDay returns the ordered slot start times for d.
//
// The closing instant itself is emitted as the final slot so the grid can draw its last row;
// it is not a bookable start.
func SlotsForDay(d Date) []TimeOfDay {
	closing, open := ClosingHour(d)
	if !open {
		return []TimeOfDay{}
	}

	first := openingHour * 60
	last := closing * 60

	slots := make([]TimeOfDay, 0, (last-first)/SlotMinutes+1)
	for m := first; m <= last; m += SlotMinutes {
		slots = append(slots, FromMinutes(m))
	}
	return slots
}

// SlotKeys renders slots as HH:MM strings.
func SlotKeys(slots []TimeOfDay) []string {
	keys := make([]string, len(slots))
	for i, s := range slots {
		keys[i] = s.String()
	}
	return keys
}
