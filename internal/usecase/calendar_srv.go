package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salon-calendar/internal/calendar"
	"salon-calendar/internal/dto/request"
	"salon-calendar/internal/dto/response"
	"salon-calendar/pkg/utils"

	"go.uber.org/zap"
)

// settleTimeout bounds how long a request waits for the reload it triggered.
const settleTimeout = 5 * time.Second

type CalendarService interface {
	// Start loads the professional directory and opens the live view on today.
	Start(ctx context.Context) error
	// Run feeds change events to the live view until ctx is done or events is closed.
	Run(ctx context.Context, events <-chan calendar.ChangeEvent)

	Professionals(ctx context.Context) (*response.ProfessionalListResponse, error)
	ReloadProfessionals(ctx context.Context) (*response.ProfessionalListResponse, error)

	CurrentView(ctx context.Context) (*response.DayViewResponse, error)
	SelectView(ctx context.Context, req *request.SelectViewRequest) (*response.DayViewResponse, error)
	Navigate(ctx context.Context, req *request.NavigateRequest) (*response.DayViewResponse, error)
	Refresh(ctx context.Context) (*response.DayViewResponse, error)

	DayView(ctx context.Context, req *request.DayViewRequest) (*response.DayViewResponse, error)
	Week(ctx context.Context, req *request.WeekRequest) (*response.WeekResponse, error)
}

type calendarService struct {
	source    CalendarSource
	directory *calendar.Directory
	store     *calendar.Store
	loc       *time.Location
	now       func() time.Time
	log       *zap.Logger
}

// NewCalendarService wires the live view. Background reloads run under ctx.
func NewCalendarService(ctx context.Context, source CalendarSource, config *utils.Config, log *zap.Logger) CalendarService {
	log = log.With(zap.String("service", "calendar"))
	return newCalendarService(ctx, source, loadLocation(config.App.Timezone, log), time.Now, log)
}

func newCalendarService(ctx context.Context, source CalendarSource, loc *time.Location, now func() time.Time, log *zap.Logger) *calendarService {
	s := &calendarService{
		source:    source,
		directory: calendar.NewDirectory(source, log),
		loc:       loc,
		now:       now,
		log:       log,
	}
	s.store = calendar.NewStore(ctx, source, log,
		calendar.WithClock(now),
		calendar.WithErrorHook(func(view calendar.ViewState, err error) {
			s.log.Warn("Failed to load bookings",
				zap.String("date", view.DateKey()),
				zap.String("professional", view.ProfessionalFilter),
				zap.Error(err),
			)
		}),
	)
	return s
}

func loadLocation(name string, log *zap.Logger) *time.Location {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("Unknown timezone, using local time", zap.String("timezone", name), zap.Error(err))
		return time.Local
	}
	return loc
}

func (s *calendarService) today() calendar.Date {
	return calendar.DateOf(s.now().In(s.loc))
}

func (s *calendarService) Start(ctx context.Context) error {
	err := s.directory.Load(ctx)
	s.store.SelectView(calendar.NewViewState(s.today(), calendar.AllProfessionals))
	if err != nil {
		return fmt.Errorf("start calendar: %w", err)
	}
	return nil
}

func (s *calendarService) Run(ctx context.Context, events <-chan calendar.ChangeEvent) {
	s.store.Run(ctx, events)
}

func (s *calendarService) Professionals(ctx context.Context) (*response.ProfessionalListResponse, error) {
	resp := &response.ProfessionalListResponse{
		Professionals: response.ProfessionalsToResponse(s.directory.List()),
	}
	if err := s.directory.Err(); err != nil {
		resp.Error = err.Error()
	}
	return resp, nil
}

func (s *calendarService) ReloadProfessionals(ctx context.Context) (*response.ProfessionalListResponse, error) {
	if err := s.directory.Load(ctx); err != nil {
		return nil, fmt.Errorf("reload professionals: %w", err)
	}

	s.log.Info("Professionals reloaded", zap.Int("count", len(s.directory.List())))
	return s.Professionals(ctx)
}

func (s *calendarService) CurrentView(ctx context.Context) (*response.DayViewResponse, error) {
	return s.liveView(s.store.Snapshot()), nil
}

func (s *calendarService) SelectView(ctx context.Context, req *request.SelectViewRequest) (*response.DayViewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Select view validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	view, err := parseView(req.Date, req.ProfessionalID)
	if err != nil {
		return nil, err
	}

	gen := s.store.SelectView(view)
	return s.settle(ctx, gen), nil
}

func (s *calendarService) Navigate(ctx context.Context, req *request.NavigateRequest) (*response.DayViewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("invalid direction %q: %s", req.Direction, utils.FormatValidationErrors(errs))
	}

	current := s.store.Snapshot().View.Day
	if current.IsZero() {
		current = s.today()
	}

	var day calendar.Date
	switch req.Direction {
	case "previous":
		day = current.AddDays(-1)
	case "next":
		day = current.AddDays(1)
	default:
		day = s.today()
	}

	gen := s.store.SelectDate(day)
	return s.settle(ctx, gen), nil
}

func (s *calendarService) Refresh(ctx context.Context) (*response.DayViewResponse, error) {
	gen := s.store.Refresh()
	return s.settle(ctx, gen), nil
}

// DayView renders one day without touching the live view.
func (s *calendarService) DayView(ctx context.Context, req *request.DayViewRequest) (*response.DayViewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Day view validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	view, err := parseView(req.Date, req.ProfessionalID)
	if err != nil {
		return nil, err
	}

	day, err := s.source.LoadDay(ctx, view)
	if err != nil {
		return nil, &calendar.FetchFailure{Op: "load bookings", Err: err}
	}

	return response.NewDayViewResponse(response.DayView{
		View:          view,
		State:         calendar.StateReady,
		UpdatedAt:     s.now(),
		Today:         s.today(),
		Professionals: s.directory.List(),
		Bookings:      day.Bookings,
		Issues:        day.Issues,
	}), nil
}

func (s *calendarService) Week(ctx context.Context, req *request.WeekRequest) (*response.WeekResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	today := s.today()
	day := today
	if req.Date != "" {
		parsed, err := calendar.ParseDateKey(req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
		}
		day = parsed
	}

	return response.NewWeekResponse(day, today), nil
}

// settle waits for reload gen to land and renders the live view as it is then.
func (s *calendarService) settle(ctx context.Context, gen uint64) *response.DayViewResponse {
	ctx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()

	snap, err := s.store.Await(ctx, gen)
	if err != nil {
		s.log.Debug("Returning view before reload settled", zap.Uint64("generation", gen), zap.Error(err))
	}
	return s.liveView(snap)
}

func (s *calendarService) liveView(snap calendar.Snapshot) *response.DayViewResponse {
	view := snap.View
	if view.Day.IsZero() {
		view = calendar.NewViewState(s.today(), calendar.AllProfessionals)
	}

	return response.NewDayViewResponse(response.DayView{
		View:          view,
		State:         snap.State,
		Generation:    snap.Generation,
		Err:           snap.Err,
		UpdatedAt:     snap.UpdatedAt,
		Today:         s.today(),
		Professionals: s.directory.List(),
		Bookings:      snap.Bookings,
		Issues:        snap.Issues,
	})
}
