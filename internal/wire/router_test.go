package wire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salon-calendar/internal/calendar"
	"salon-calendar/internal/dto/request"
	"salon-calendar/internal/dto/response"
	"salon-calendar/internal/usecase"
	"salon-calendar/pkg/utils"

	"go.uber.org/zap"
)

var monday = calendar.Date{Year: 2024, Month: 6, Day: 10}

type fakeCalendar struct {
	selected  *request.SelectViewRequest
	navigated string
	dayErr    error
	reloadErr error
}

func (f *fakeCalendar) Start(context.Context) error                       { return nil }
func (f *fakeCalendar) Run(context.Context, <-chan calendar.ChangeEvent) {}

func (f *fakeCalendar) Professionals(context.Context) (*response.ProfessionalListResponse, error) {
	return &response.ProfessionalListResponse{Professionals: []response.ProfessionalResponse{{ID: "p1", Name: "Alice"}}}, nil
}

func (f *fakeCalendar) ReloadProfessionals(context.Context) (*response.ProfessionalListResponse, error) {
	if f.reloadErr != nil {
		return nil, f.reloadErr
	}
	return f.Professionals(context.Background())
}

func (f *fakeCalendar) view(state calendar.State) *response.DayViewResponse {
	return response.NewDayViewResponse(response.DayView{
		View:          calendar.NewViewState(monday, ""),
		State:         state,
		Today:         monday,
		Professionals: []calendar.Professional{{ID: "p1", Name: "Alice"}},
		Bookings: []calendar.Booking{{
			ID: "b1", Date: monday, Start: calendar.TimeOfDay{Hour: 9}, ProfessionalID: "p1",
			Status: calendar.StatusPending, CustomerName: "Dana", ServiceName: "Cut", ProfessionalName: "Alice",
		}},
	})
}

func (f *fakeCalendar) CurrentView(context.Context) (*response.DayViewResponse, error) {
	return f.view(calendar.StateReady), nil
}

func (f *fakeCalendar) SelectView(_ context.Context, req *request.SelectViewRequest) (*response.DayViewResponse, error) {
	f.selected = req
	if req.ProfessionalID == "bob" {
		return nil, fmt.Errorf("invalid professional id %q", req.ProfessionalID)
	}
	return f.view(calendar.StateReady), nil
}

func (f *fakeCalendar) Navigate(_ context.Context, req *request.NavigateRequest) (*response.DayViewResponse, error) {
	f.navigated = req.Direction
	return f.view(calendar.StateReady), nil
}

func (f *fakeCalendar) Refresh(context.Context) (*response.DayViewResponse, error) {
	return f.view(calendar.StateLoading), nil
}

func (f *fakeCalendar) DayView(context.Context, *request.DayViewRequest) (*response.DayViewResponse, error) {
	if f.dayErr != nil {
		return nil, f.dayErr
	}
	return f.view(calendar.StateReady), nil
}

func (f *fakeCalendar) Week(context.Context, *request.WeekRequest) (*response.WeekResponse, error) {
	return response.NewWeekResponse(monday, monday), nil
}

var _ usecase.CalendarService = (*fakeCalendar)(nil)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func newTestRouter(t *testing.T, fake *fakeCalendar, checks ...ReadyCheck) http.Handler {
	t.Helper()
	cfg := &utils.Config{App: utils.AppConfig{CORSOrigins: []string{"*"}}}
	return NewRouter(&usecase.Service{Calendar: fake}, cfg, zap.NewNop(), checks...)
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, target, err, rec.Body.String())
		}
	}
	return rec, env
}

func TestRouter_GetViewReturnsGrid(t *testing.T) {
	h := newTestRouter(t, &fakeCalendar{})

	rec, env := do(t, h, http.MethodGet, "/api/calendar/view", "")
	if rec.Code != http.StatusOK || !env.Status {
		t.Fatalf("expected 200 success, got %d %s", rec.Code, rec.Body.String())
	}

	var view response.DayViewResponse
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Date != "2024-06-10" || len(view.Rows) != 19 {
		t.Fatalf("unexpected view: %s with %d rows", view.Date, len(view.Rows))
	}
	card := view.Rows[0].Cells[0].Cards[0]
	if card.HeightPx != 272 || card.TimeLabel != "09:00 - 11:00" {
		t.Fatalf("unexpected card: %+v", card)
	}
}

func TestRouter_SelectView(t *testing.T) {
	fake := &fakeCalendar{}
	h := newTestRouter(t, fake)

	rec, _ := do(t, h, http.MethodPut, "/api/calendar/view", `{"date":"2024-06-10","professional_id":"p1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	if fake.selected == nil || fake.selected.ProfessionalID != "p1" {
		t.Fatalf("request not passed through: %+v", fake.selected)
	}

	rec, env := do(t, h, http.MethodPut, "/api/calendar/view", `{"date":"June 10"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(string(env.Errors), "Date") {
		t.Fatalf("expected validation error on Date, got %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = do(t, h, http.MethodPut, "/api/calendar/view", `{"date":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", rec.Code)
	}

	rec, env = do(t, h, http.MethodPut, "/api/calendar/view", `{"date":"2024-06-10","professional_id":"bob"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(env.Message, "invalid professional id") {
		t.Fatalf("expected invalid id mapped to 400, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_NavigateAndRefresh(t *testing.T) {
	fake := &fakeCalendar{}
	h := newTestRouter(t, fake)

	for _, dir := range []string{"previous", "next", "today"} {
		rec, _ := do(t, h, http.MethodPost, "/api/calendar/view/"+dir, "")
		if rec.Code != http.StatusOK || fake.navigated != dir {
			t.Fatalf("%s: got %d, navigated %q", dir, rec.Code, fake.navigated)
		}
	}

	rec, _ := do(t, h, http.MethodPost, "/api/calendar/view/sideways", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown direction, got %d", rec.Code)
	}

	fake.navigated = ""
	rec, env := do(t, h, http.MethodPost, "/api/calendar/view/refresh", "")
	if rec.Code != http.StatusAccepted || !env.Status {
		t.Fatalf("expected 202 while loading, got %d", rec.Code)
	}
	if fake.navigated != "" {
		t.Fatal("refresh must not be routed as a navigation")
	}
}

func TestRouter_DayErrors(t *testing.T) {
	fake := &fakeCalendar{}
	h := newTestRouter(t, fake)

	rec, _ := do(t, h, http.MethodGet, "/api/calendar/day", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without date, got %d", rec.Code)
	}

	fake.dayErr = &calendar.FetchFailure{Op: "load bookings", Err: errors.New("connection refused")}
	rec, env := do(t, h, http.MethodGet, "/api/calendar/day?date=2024-06-10", "")
	if rec.Code != http.StatusServiceUnavailable || env.Status {
		t.Fatalf("expected 503 for a fetch failure, got %d %s", rec.Code, rec.Body.String())
	}

	fake.dayErr = errors.New("boom")
	rec, _ = do(t, h, http.MethodGet, "/api/calendar/day?date=2024-06-10", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRouter_ProfessionalsAndWeek(t *testing.T) {
	fake := &fakeCalendar{}
	h := newTestRouter(t, fake)

	rec, env := do(t, h, http.MethodGet, "/api/calendar/professionals", "")
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), "Alice") {
		t.Fatalf("unexpected professionals response: %d %s", rec.Code, rec.Body.String())
	}

	fake.reloadErr = fmt.Errorf("reload professionals: %w", &calendar.FetchFailure{Op: "load professionals", Err: errors.New("timeout")})
	rec, _ = do(t, h, http.MethodPost, "/api/calendar/professionals/reload", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	rec, env = do(t, h, http.MethodGet, "/api/calendar/week?date=2024-06-12", "")
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), `"start":"2024-06-10"`) {
		t.Fatalf("unexpected week response: %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = do(t, h, http.MethodGet, "/api/calendar/week?date=12/06/2024", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_HealthAndReady(t *testing.T) {
	healthy := newTestRouter(t, &fakeCalendar{}, ReadyCheck{Name: "db", Check: func(context.Context) error { return nil }})
	if rec, _ := do(t, healthy, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", rec.Code)
	}
	if rec, _ := do(t, healthy, http.MethodGet, "/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected ready 200, got %d", rec.Code)
	}

	down := newTestRouter(t, &fakeCalendar{},
		ReadyCheck{Name: "db", Check: func(context.Context) error { return nil }},
		ReadyCheck{Name: "feed", Check: func(context.Context) error { return errors.New("redis down") }},
	)
	rec, _ := do(t, down, http.MethodGet, "/ready", "")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "feed: redis down") {
		t.Fatalf("expected 503 naming the feed, got %d %s", rec.Code, rec.Body.String())
	}
}
