package wire

import (
	"salon-calendar/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCalendar(r chi.Router, calendarHandler *adaptor.CalendarHandler) {
	r.Route("/api/calendar", func(r chi.Router) {
		// GET  /api/calendar/professionals - grid columns
		r.Get("/professionals", calendarHandler.GetProfessionals)
		// POST /api/calendar/professionals/reload - retry after a failed load
		r.Post("/professionals/reload", calendarHandler.ReloadProfessionals)

		// Live view
		r.Get("/view", calendarHandler.GetView)
		r.Put("/view", calendarHandler.SelectView)
		r.Post("/view/refresh", calendarHandler.Refresh)
		r.Post("/view/{direction}", calendarHandler.Navigate)

		// Stateless lookups
		r.Get("/day", calendarHandler.GetDay)
		r.Get("/week", calendarHandler.GetWeek)
	})
}
