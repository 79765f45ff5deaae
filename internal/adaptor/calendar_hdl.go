package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"salon-calendar/internal/calendar"
	"salon-calendar/internal/dto/request"
	"salon-calendar/internal/usecase"
	"salon-calendar/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CalendarHandler struct {
	service usecase.CalendarService
	log     *zap.Logger
}

func NewCalendarHandler(service usecase.CalendarService, log *zap.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		log:     log.With(zap.String("handler", "calendar")),
	}
}

// GetProfessionals handles GET /api/calendar/professionals
func (h *CalendarHandler) GetProfessionals(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Professionals(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get professionals")
		return
	}

	utils.ResponseSuccess(w, "Professionals retrieved successfully", list)
}

// ReloadProfessionals handles POST /api/calendar/professionals/reload
func (h *CalendarHandler) ReloadProfessionals(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ReloadProfessionals(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "reload professionals")
		return
	}

	utils.ResponseSuccess(w, "Professionals reloaded successfully", list)
}

// GetView handles GET /api/calendar/view
func (h *CalendarHandler) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.CurrentView(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get view")
		return
	}

	utils.ResponseSuccess(w, "View retrieved successfully", view)
}

// SelectView handles PUT /api/calendar/view
func (h *CalendarHandler) SelectView(w http.ResponseWriter, r *http.Request) {
	var req request.SelectViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	view, err := h.service.SelectView(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "select view")
		return
	}

	utils.ResponseSuccess(w, "View selected successfully", view)
}

// Navigate handles POST /api/calendar/view/{direction}
func (h *CalendarHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	req := request.NavigateRequest{Direction: chi.URLParam(r, "direction")}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	view, err := h.service.Navigate(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "navigate")
		return
	}

	utils.ResponseSuccess(w, "View moved successfully", view)
}

// Refresh handles POST /api/calendar/view/refresh
func (h *CalendarHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Refresh(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "refresh view")
		return
	}

	if view.State == string(calendar.StateLoading) {
		utils.ResponseAccepted(w, "Refresh still in progress", view)
		return
	}
	utils.ResponseSuccess(w, "View refreshed successfully", view)
}

// GetDay handles GET /api/calendar/day?date=YYYY-MM-DD&professional_id=
func (h *CalendarHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.DayViewRequest{
		Date:           query.Get("date"),
		ProfessionalID: query.Get("professional_id"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	view, err := h.service.DayView(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "get day")
		return
	}

	utils.ResponseSuccess(w, "Day retrieved successfully", view)
}

// GetWeek handles GET /api/calendar/week?date=YYYY-MM-DD
func (h *CalendarHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	req := request.WeekRequest{Date: r.URL.Query().Get("date")}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	week, err := h.service.Week(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "get week")
		return
	}

	utils.ResponseSuccess(w, "Week retrieved successfully", week)
}

func (h *CalendarHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, calendar.ErrFetchFailure):
		h.log.Error(operation+" failed - backend unavailable",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseUnavailable(w, "Failed to load calendar data", errMsg)

	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
