package entity

import (
	"github.com/google/uuid"
)

// Booking is a raw bookings row. Date and time are scanned as text so the calendar can parse
// them as civil values without any timezone conversion.
type Booking struct {
	Base
	BookingDate    string     `db:"booking_date"`
	BookingTime    string     `db:"booking_time"`
	ProfessionalID *uuid.UUID `db:"professional_id"`
	ServiceID      *uuid.UUID `db:"service_id"`
	UserID         *uuid.UUID `db:"user_id"`
	Status         string     `db:"status"`
}
