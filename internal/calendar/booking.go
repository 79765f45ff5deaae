package calendar

import (
	"fmt"
	"strings"
)

// BookingDurationMinutes is applied to every booking regardless of the service's own duration.
const BookingDurationMinutes = 120

// AllProfessionals is the professional filter value that selects every column.
const AllProfessionals = "all"

// UnknownLabel replaces display names whose reference could not be resolved.
const UnknownLabel = "Unknown"

// placeholderProfessional is a sentinel row in the professionals table, not a real person.
const placeholderProfessional = "any professional"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a raw status value.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("invalid booking status %q", s)
	}
}

type Professional struct {
	ID   string
	Name string
}

// IsPlaceholder reports whether p is the "Any professional" sentinel.
func (p Professional) IsPlaceholder() bool {
	return strings.EqualFold(p.Name, placeholderProfessional)
}

type Booking struct {
	ID             string
	Date           Date
	Start          TimeOfDay
	ProfessionalID string
	Status         Status

	CustomerName     string
	ServiceName      string
	ProfessionalName string

	// ServiceDurationMinutes is the service's configured length. Layout ignores it.
	ServiceDurationMinutes int
}

// DurationMinutes is the duration used for layout.
func (b Booking) DurationMinutes() int {
	return BookingDurationMinutes
}

// End returns the start time plus the layout duration.
func (b Booking) End() TimeOfDay {
	return FromMinutes(ToMinutes(b.Start) + b.DurationMinutes())
}

// Aligned reports whether the booking starts on a slot boundary.
func (b Booking) Aligned() bool {
	return ToMinutes(b.Start)%SlotMinutes == 0
}

// ViewState identifies the grid currently on screen.
type ViewState struct {
	Day                Date
	ProfessionalFilter string
}

// NewViewState normalizes an empty filter to AllProfessionals.
func NewViewState(day Date, professionalFilter string) ViewState {
	professionalFilter = strings.TrimSpace(professionalFilter)
	if professionalFilter == "" {
		professionalFilter = AllProfessionals
	}
	return ViewState{Day: day, ProfessionalFilter: professionalFilter}
}

// AllProfessionals reports whether the view is unfiltered.
func (v ViewState) AllProfessionals() bool {
	return v.ProfessionalFilter == "" || strings.EqualFold(v.ProfessionalFilter, AllProfessionals)
}

// DateKey returns the canonical key of the viewed day.
func (v ViewState) DateKey() string {
	return ToDateKey(v.Day)
}

// ChangeEvent is an opaque notification that some booking changed. It carries no usable diff.
type ChangeEvent struct {
	Source    string
	Operation string
	BookingID string
}
