package usecase

import (
	"context"
	"fmt"
	"strings"

	"salon-calendar/internal/calendar"
	"salon-calendar/internal/data/entity"
	"salon-calendar/internal/data/repository"
	"salon-calendar/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CalendarSource adapts the repositories to the calendar core. It fetches one day of bookings,
// joins the display names and parses every row at the boundary.
type CalendarSource interface {
	calendar.BookingFetcher
	calendar.ProfessionalFetcher

	// LoadDay fetches and enriches the bookings of view. Malformed rows are skipped and reported.
	LoadDay(ctx context.Context, view calendar.ViewState) (calendar.DayLoad, error)
}

// bookingRecord is a bookings row before it is trusted.
type bookingRecord struct {
	ID             string `validate:"required,uuid"`
	Date           string `validate:"required,datetime=2006-01-02"`
	Time           string `validate:"required"`
	ProfessionalID string `validate:"omitempty,uuid"`
}

type lookups struct {
	professionals map[uuid.UUID]*entity.Professional
	services      map[uuid.UUID]*entity.Service
	profiles      map[uuid.UUID]*entity.Profile
}

type calendarSource struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCalendarSource(repo *repository.Repository, log *zap.Logger) CalendarSource {
	return &calendarSource{
		repo: repo,
		log:  log.With(zap.String("service", "calendar_source")),
	}
}

func (s *calendarSource) FetchProfessionals(ctx context.Context) ([]calendar.Professional, error) {
	rows, err := s.repo.Professional.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch professionals: %w", err)
	}

	professionals := make([]calendar.Professional, 0, len(rows))
	for _, row := range rows {
		professionals = append(professionals, calendar.Professional{
			ID:   row.ID.String(),
			Name: row.Name,
		})
	}
	return professionals, nil
}

func (s *calendarSource) FetchBookings(ctx context.Context, dateKey, professionalID string) (calendar.DayLoad, error) {
	view, err := parseView(dateKey, professionalID)
	if err != nil {
		return calendar.DayLoad{}, &calendar.FetchFailure{Op: "load bookings", Err: err}
	}

	day, err := s.LoadDay(ctx, view)
	if err != nil {
		return calendar.DayLoad{}, &calendar.FetchFailure{Op: "load bookings", Err: err}
	}
	return day, nil
}

func (s *calendarSource) LoadDay(ctx context.Context, view calendar.ViewState) (calendar.DayLoad, error) {
	var professionalID *uuid.UUID
	if !view.AllProfessionals() {
		id, err := uuid.Parse(view.ProfessionalFilter)
		if err != nil {
			return calendar.DayLoad{}, fmt.Errorf("invalid professional id %q: %w", view.ProfessionalFilter, err)
		}
		professionalID = &id
	}

	rows, err := s.repo.Booking.FindByDate(ctx, view.DateKey(), professionalID)
	if err != nil {
		return calendar.DayLoad{}, fmt.Errorf("load bookings for %s: %w", view.DateKey(), err)
	}

	names := s.lookup(ctx, rows)

	day := calendar.DayLoad{Bookings: make([]calendar.Booking, 0, len(rows))}
	for _, row := range rows {
		booking, issues, ok := s.toBooking(row, names)
		day.Issues = append(day.Issues, issues...)
		if ok {
			day.Bookings = append(day.Bookings, booking)
		}
	}

	s.log.Debug("Day loaded",
		zap.String("date", view.DateKey()),
		zap.String("professional", view.ProfessionalFilter),
		zap.Int("rows", len(rows)),
		zap.Int("bookings", len(day.Bookings)),
		zap.Int("issues", len(day.Issues)),
	)

	return day, nil
}

// lookup resolves professionals, services and customer profiles concurrently. A failed lookup
// leaves its map empty, so the affected names fall back to "Unknown".
func (s *calendarSource) lookup(ctx context.Context, rows []*entity.Booking) lookups {
	professionalIDs := newIDSet()
	serviceIDs := newIDSet()
	userIDs := newIDSet()
	for _, row := range rows {
		professionalIDs.add(row.ProfessionalID)
		serviceIDs.add(row.ServiceID)
		userIDs.add(row.UserID)
	}

	var l lookups
	var g errgroup.Group

	g.Go(func() error {
		list, err := s.repo.Professional.FindByIDs(ctx, professionalIDs.list())
		if err != nil {
			return fmt.Errorf("professionals: %w", err)
		}
		l.professionals = indexByID(list, func(p *entity.Professional) uuid.UUID { return p.ID })
		return nil
	})
	g.Go(func() error {
		list, err := s.repo.Service.FindByIDs(ctx, serviceIDs.list())
		if err != nil {
			return fmt.Errorf("services: %w", err)
		}
		l.services = indexByID(list, func(sv *entity.Service) uuid.UUID { return sv.ID })
		return nil
	})
	g.Go(func() error {
		list, err := s.repo.Profile.FindByIDs(ctx, userIDs.list())
		if err != nil {
			return fmt.Errorf("profiles: %w", err)
		}
		l.profiles = indexByID(list, func(p *entity.Profile) uuid.UUID { return p.ID })
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Warn("Booking enrichment incomplete, using fallbacks", zap.Error(err))
	}
	return l
}

func (s *calendarSource) toBooking(row *entity.Booking, l lookups) (calendar.Booking, []calendar.DataQualityIssue, bool) {
	rec := bookingRecord{
		Date:           strings.TrimSpace(row.BookingDate),
		Time:           strings.TrimSpace(row.BookingTime),
		ProfessionalID: uuidString(row.ProfessionalID),
	}
	if row.ID != uuid.Nil {
		rec.ID = row.ID.String()
	}

	malformed := func(detail string) (calendar.Booking, []calendar.DataQualityIssue, bool) {
		s.log.Warn("Skipping malformed booking",
			zap.String("booking_id", rec.ID),
			zap.String("detail", detail),
		)
		return calendar.Booking{}, []calendar.DataQualityIssue{{
			Kind:      calendar.IssueMalformed,
			BookingID: rec.ID,
			Detail:    detail,
		}}, false
	}

	if errs := utils.ValidateStruct(rec); len(errs) > 0 {
		return malformed(utils.FormatValidationErrors(errs))
	}
	date, err := calendar.ParseDateKey(rec.Date)
	if err != nil {
		return malformed(err.Error())
	}
	start, err := calendar.ParseTimeOfDay(rec.Time)
	if err != nil {
		return malformed(err.Error())
	}

	var issues []calendar.DataQualityIssue
	issue := func(kind calendar.IssueKind, detail string) {
		issues = append(issues, calendar.DataQualityIssue{Kind: kind, BookingID: rec.ID, Detail: detail})
	}

	b := calendar.Booking{
		ID:               rec.ID,
		Date:             date,
		Start:            start,
		ProfessionalID:   rec.ProfessionalID,
		ProfessionalName: calendar.UnknownLabel,
		ServiceName:      calendar.UnknownLabel,
		CustomerName:     calendar.UnknownLabel,
	}

	b.Status, err = calendar.ParseStatus(row.Status)
	if err != nil {
		b.Status = calendar.StatusPending
		issue(calendar.IssueUnknownStatus, err.Error())
	}

	switch {
	case row.ProfessionalID == nil:
		issue(calendar.IssueUnknownProfessional, "booking has no professional")
	case l.professionals[*row.ProfessionalID] == nil:
		issue(calendar.IssueUnknownProfessional, "professional "+rec.ProfessionalID+" not found")
	default:
		b.ProfessionalName = l.professionals[*row.ProfessionalID].Name
	}

	if row.ServiceID == nil {
		issue(calendar.IssueUnknownService, "booking has no service")
	} else if sv, ok := l.services[*row.ServiceID]; ok {
		b.ServiceName = sv.Name
		b.ServiceDurationMinutes = sv.DurationMinutes
	} else {
		issue(calendar.IssueUnknownService, "service "+row.ServiceID.String()+" not found")
	}

	switch {
	case row.UserID == nil:
		issue(calendar.IssueUnknownCustomer, "booking has no customer")
	case l.profiles[*row.UserID] == nil:
		issue(calendar.IssueUnknownCustomer, "profile "+row.UserID.String()+" not found")
	default:
		if name := fullName(l.profiles[*row.UserID]); name != "" {
			b.CustomerName = name
		} else {
			issue(calendar.IssueUnknownCustomer, "profile "+row.UserID.String()+" has no name")
		}
	}

	return b, issues, true
}

// parseView validates a date key and professional filter coming from outside the core.
func parseView(dateKey, professionalID string) (calendar.ViewState, error) {
	day, err := calendar.ParseDateKey(strings.TrimSpace(dateKey))
	if err != nil {
		return calendar.ViewState{}, fmt.Errorf("invalid date %q: %w", dateKey, err)
	}

	view := calendar.NewViewState(day, professionalID)
	if view.AllProfessionals() {
		view.ProfessionalFilter = calendar.AllProfessionals
		return view, nil
	}
	if _, err := uuid.Parse(view.ProfessionalFilter); err != nil {
		return calendar.ViewState{}, fmt.Errorf("invalid professional id %q: %w", view.ProfessionalFilter, err)
	}
	return view, nil
}

func fullName(p *entity.Profile) string {
	if p == nil || p.FullName == nil {
		return ""
	}
	return strings.TrimSpace(*p.FullName)
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func indexByID[T any](list []*T, id func(*T) uuid.UUID) map[uuid.UUID]*T {
	out := make(map[uuid.UUID]*T, len(list))
	for _, item := range list {
		out[id(item)] = item
	}
	return out
}

// idSet collects distinct non-nil IDs in first-seen order.
type idSet struct {
	seen map[uuid.UUID]struct{}
	ids  []uuid.UUID
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[uuid.UUID]struct{})}
}

func (s *idSet) add(id *uuid.UUID) {
	if id == nil {
		return
	}
	if _, ok := s.seen[*id]; ok {
		return
	}
	s.seen[*id] = struct{}{}
	s.ids = append(s.ids, *id)
}

func (s *idSet) list() []uuid.UUID {
	return s.ids
}
