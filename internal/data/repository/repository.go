package repository

import (
	"salon-calendar/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Booking      BookingRepository
	Professional ProfessionalRepository
	Service      ServiceRepository
	Profile      ProfileRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Booking:      NewBookingRepository(db, log),
		Professional: NewProfessionalRepository(db, log),
		Service:      NewServiceRepository(db, log),
		Profile:      NewProfileRepository(db, log),
	}
}
