package adaptor

import (
	"salon-calendar/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Calendar *CalendarHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Calendar: NewCalendarHandler(service.Calendar, log),
	}
}
