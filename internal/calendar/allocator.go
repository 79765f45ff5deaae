package calendar

import (
	"fmt"
	"sort"
)

const (
	// SlotHeightPx is the rendered height of one grid row.
	SlotHeightPx = 70
	// CardInsetPx is trimmed from a booking card so adjacent cards do not touch.
	CardInsetPx = 8
)

// SpanSlots is the number of grid rows every booking card covers.
const SpanSlots = BookingDurationMinutes / SlotMinutes

// CellKey addresses one grid cell.
type CellKey struct {
	ProfessionalID string
	Slot           TimeOfDay
}

// Placement is a booking anchored in the cell it owns.
type Placement struct {
	Booking   Booking
	SpanSlots int
	HeightPx  int
}

// Cell lists the bookings covering one (professional, slot) pair and the ones anchored there.
type Cell struct {
	Occupants []string
	Owned     []Placement
}

// Empty reports whether nothing covers the cell.
func (c Cell) Empty() bool {
	return len(c.Occupants) == 0 && len(c.Owned) == 0
}

// Allocation is the grid layout for one day.
type Allocation struct {
	Slots         []TimeOfDay
	Professionals []Professional
	Cells         map[CellKey]Cell
	Issues        []DataQualityIssue
}

// Cell returns the cell for a professional and slot; unknown pairs yield an empty cell.
func (a Allocation) Cell(professionalID string, slot TimeOfDay) Cell {
	return a.Cells[CellKey{ProfessionalID: professionalID, Slot: slot}]
}

// Occupies reports whether b covers the slot starting at slot.
func Occupies(b Booking, slot TimeOfDay) bool {
	start := ToMinutes(b.Start)
	s := ToMinutes(slot)
	return s >= start && s < start+b.DurationMinutes()
}

// Owns reports whether slot is b's anchor cell.
func Owns(b Booking, slot TimeOfDay) bool {
	return b.Start == slot
}

// CardHeightPx is the pixel height of a card spanning span rows.
func CardHeightPx(span int) int {
	return span*SlotHeightPx - CardInsetPx
}

// Allocate lays bookings out on the grid formed by slots × professionals.
//
// It does not reconcile overlapping bookings; they are laid out as given and reported in Issues.
// The result depends only on its arguments.
func Allocate(bookings []Booking, slots []TimeOfDay, professionals []Professional) Allocation {
	alloc := Allocation{
		Slots:         slots,
		Professionals: professionals,
		Cells:         make(map[CellKey]Cell, len(slots)*len(professionals)),
	}

	columns := make(map[string]bool, len(professionals))
	for _, p := range professionals {
		columns[p.ID] = true
		for _, s := range slots {
			alloc.Cells[CellKey{ProfessionalID: p.ID, Slot: s}] = Cell{}
		}
	}

	slotSet := make(map[TimeOfDay]bool, len(slots))
	for _, s := range slots {
		slotSet[s] = true
	}

	for _, b := range bookings {
		if !columns[b.ProfessionalID] {
			alloc.Issues = append(alloc.Issues, DataQualityIssue{
				Kind:      IssueUnknownProfessional,
				BookingID: b.ID,
				Detail:    fmt.Sprintf("professional %q has no column", b.ProfessionalID),
			})
			continue
		}

		switch {
		case !b.Aligned():
			alloc.Issues = append(alloc.Issues, DataQualityIssue{
				Kind:      IssueMisaligned,
				BookingID: b.ID,
				Detail:    fmt.Sprintf("start %s is not on a %d-minute boundary", b.Start, SlotMinutes),
			})
		case !slotSet[b.Start]:
			alloc.Issues = append(alloc.Issues, DataQualityIssue{
				Kind:      IssueOutsideHours,
				BookingID: b.ID,
				Detail:    fmt.Sprintf("start %s is outside business hours", b.Start),
			})
		}

		for _, s := range slots {
			if !Occupies(b, s) {
				continue
			}
			key := CellKey{ProfessionalID: b.ProfessionalID, Slot: s}
			cell := alloc.Cells[key]
			cell.Occupants = append(cell.Occupants, b.ID)
			if Owns(b, s) {
				cell.Owned = append(cell.Owned, Placement{
					Booking:   b,
					SpanSlots: SpanSlots,
					HeightPx:  CardHeightPx(SpanSlots),
				})
			}
			alloc.Cells[key] = cell
		}
	}

	alloc.Issues = append(alloc.Issues, findOverlaps(bookings)...)
	return alloc
}

// findOverlaps reports, per professional, bookings that start before the previous one ends.
// Cancelled bookings are ignored since their slot is free to rebook.
func findOverlaps(bookings []Booking) []DataQualityIssue {
	byProfessional := make(map[string][]Booking)
	var order []string
	for _, b := range bookings {
		if b.Status == StatusCancelled {
			continue
		}
		if _, seen := byProfessional[b.ProfessionalID]; !seen {
			order = append(order, b.ProfessionalID)
		}
		byProfessional[b.ProfessionalID] = append(byProfessional[b.ProfessionalID], b)
	}

	var issues []DataQualityIssue
	for _, id := range order {
		list := byProfessional[id]
		sort.SliceStable(list, func(i, j int) bool {
			return ToMinutes(list[i].Start) < ToMinutes(list[j].Start)
		})
		for i := 1; i < len(list); i++ {
			prev, cur := list[i-1], list[i]
			if ToMinutes(cur.Start) < ToMinutes(prev.Start)+prev.DurationMinutes() {
				issues = append(issues, DataQualityIssue{
					Kind:      IssueOverlap,
					BookingID: cur.ID,
					Detail:    fmt.Sprintf("overlaps booking %s (%s-%s)", prev.ID, prev.Start, prev.End()),
				})
			}
		}
	}
	return issues
}
