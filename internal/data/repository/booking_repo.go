package repository

import (
	"context"
	"fmt"

	"salon-calendar/internal/data/entity"
	"salon-calendar/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// FindByDate returns the bookings of exactly one day. A nil professionalID means every professional.
	FindByDate(ctx context.Context, date string, professionalID *uuid.UUID) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) FindByDate(ctx context.Context, date string, professionalID *uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT id, booking_date::text, booking_time::text, professional_id, service_id, user_id,
		       status, created_at, updated_at
		FROM bookings
		WHERE booking_date = $1::date
	`
	args := []any{date}
	if professionalID != nil {
		query += ` AND professional_id = $2`
		args = append(args, *professionalID)
	}
	query += ` ORDER BY booking_time, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find bookings by date",
			zap.Error(err),
			zap.String("date", date),
			zap.Stringer("professional_id", professionalID),
		)
		return nil, fmt.Errorf("find bookings by date %s: %w", date, err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.BookingDate,
			&booking.BookingTime,
			&booking.ProfessionalID,
			&booking.ServiceID,
			&booking.UserID,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Failed to iterate booking rows", zap.Error(err), zap.String("date", date))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}
