package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"salon-calendar/internal/calendar"
	"salon-calendar/internal/data/entity"
	"salon-calendar/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	alice    = uuid.MustParse("a1111111-1111-4111-8111-111111111111")
	bea      = uuid.MustParse("b2222222-2222-4222-8222-222222222222")
	anyone   = uuid.MustParse("c3333333-3333-4333-8333-333333333333")
	haircut  = uuid.MustParse("d4444444-4444-4444-8444-444444444444")
	dana     = uuid.MustParse("e5555555-5555-4555-8555-555555555555")
	nameless = uuid.MustParse("f6666666-6666-4666-8666-666666666666")
)

type findCall struct {
	date           string
	professionalID *uuid.UUID
}

type fakeBookingRepo struct {
	mu     sync.Mutex
	calls  []findCall
	byDate map[string][]*entity.Booking
	err    error
}

func (f *fakeBookingRepo) FindByDate(_ context.Context, date string, professionalID *uuid.UUID) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, findCall{date: date, professionalID: professionalID})
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Booking
	for _, b := range f.byDate[date] {
		if professionalID == nil || (b.ProfessionalID != nil && *b.ProfessionalID == *professionalID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) lastCall() findCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type fakeProfessionalRepo struct {
	list []*entity.Professional
	err  error
}

func (f *fakeProfessionalRepo) FindAll(context.Context) ([]*entity.Professional, error) {
	return f.list, f.err
}

func (f *fakeProfessionalRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Professional, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Professional
	for _, p := range f.list {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type fakeServiceRepo struct {
	list []*entity.Service
	err  error
}

func (f *fakeServiceRepo) FindByIDs(context.Context, []uuid.UUID) ([]*entity.Service, error) {
	return f.list, f.err
}

type fakeProfileRepo struct {
	list []*entity.Profile
	err  error
}

func (f *fakeProfileRepo) FindByIDs(context.Context, []uuid.UUID) ([]*entity.Profile, error) {
	return f.list, f.err
}

type fakes struct {
	bookings      *fakeBookingRepo
	professionals *fakeProfessionalRepo
	services      *fakeServiceRepo
	profiles      *fakeProfileRepo
}

func (f fakes) repository() *repository.Repository {
	return &repository.Repository{
		Booking:      f.bookings,
		Professional: f.professionals,
		Service:      f.services,
		Profile:      f.profiles,
	}
}

func ptr[T any](v T) *T { return &v }

func row(id string, date, tm string, professional *uuid.UUID, status string) *entity.Booking {
	b := &entity.Booking{
		BookingDate:    date,
		BookingTime:    tm,
		ProfessionalID: professional,
		ServiceID:      ptr(haircut),
		UserID:         ptr(dana),
		Status:         status,
	}
	if id != "" {
		b.ID = uuid.MustParse(id)
	}
	return b
}

func newFakes() fakes {
	named := func(id uuid.UUID, name string) *entity.Professional {
		p := &entity.Professional{Name: name}
		p.ID = id
		return p
	}
	svc := &entity.Service{Name: "Haircut", DurationMinutes: 45}
	svc.ID = haircut
	customer := &entity.Profile{FullName: ptr("Dana Scully")}
	customer.ID = dana
	blank := &entity.Profile{FullName: ptr("  ")}
	blank.ID = nameless

	return fakes{
		bookings: &fakeBookingRepo{byDate: map[string][]*entity.Booking{
			"2024-06-10": {
				row("10000000-0000-4000-8000-000000000001", "2024-06-10", "09:00:00", ptr(alice), "confirmed"),
				row("10000000-0000-4000-8000-000000000002", "2024-06-10", "10:30:00", ptr(bea), "paid"),
			},
		}},
		professionals: &fakeProfessionalRepo{list: []*entity.Professional{
			named(alice, "Alice"),
			named(anyone, "Any Professional"),
			named(bea, "Bea"),
		}},
		services: &fakeServiceRepo{list: []*entity.Service{svc}},
		profiles: &fakeProfileRepo{list: []*entity.Profile{customer, blank}},
	}
}

func issueKinds(issues []calendar.DataQualityIssue) map[string][]calendar.IssueKind {
	out := map[string][]calendar.IssueKind{}
	for _, i := range issues {
		out[i.BookingID] = append(out[i.BookingID], i.Kind)
	}
	return out
}

func TestCalendarSource_LoadDayEnriches(t *testing.T) {
	f := newFakes()
	src := NewCalendarSource(f.repository(), zap.NewNop())

	day, err := src.LoadDay(context.Background(), calendar.NewViewState(monday, ""))
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if len(day.Bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(day.Bookings))
	}

	b := day.Bookings[0]
	if b.ProfessionalName != "Alice" || b.ServiceName != "Haircut" || b.CustomerName != "Dana Scully" {
		t.Fatalf("unexpected names: %+v", b)
	}
	if b.Start.String() != "09:00" || b.Date != monday || b.Status != calendar.StatusConfirmed {
		t.Fatalf("unexpected parsed fields: %+v", b)
	}
	if b.ServiceDurationMinutes != 45 || b.DurationMinutes() != calendar.BookingDurationMinutes {
		t.Fatalf("service duration must be carried but not used for layout: %+v", b)
	}

	unknown := day.Bookings[1]
	if unknown.Status != calendar.StatusPending {
		t.Fatalf("unknown status should fall back to pending, got %s", unknown.Status)
	}
	kinds := issueKinds(day.Issues)
	if got := kinds[unknown.ID]; len(got) != 1 || got[0] != calendar.IssueUnknownStatus {
		t.Fatalf("expected unknown_status issue, got %v", got)
	}

	if call := f.bookings.lastCall(); call.date != "2024-06-10" || call.professionalID != nil {
		t.Fatalf("expected unfiltered query for 2024-06-10, got %+v", call)
	}
}

func TestCalendarSource_UnknownReferencesFallBack(t *testing.T) {
	f := newFakes()
	orphan := row("20000000-0000-4000-8000-000000000001", "2024-06-10", "11:00", ptr(uuid.New()), "pending")
	orphan.ServiceID = nil
	orphan.UserID = ptr(nameless)
	f.bookings.byDate["2024-06-10"] = []*entity.Booking{orphan}

	day, err := NewCalendarSource(f.repository(), zap.NewNop()).LoadDay(context.Background(), calendar.NewViewState(monday, ""))
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	b := day.Bookings[0]
	if b.ProfessionalName != calendar.UnknownLabel || b.ServiceName != calendar.UnknownLabel || b.CustomerName != calendar.UnknownLabel {
		t.Fatalf("expected Unknown fallbacks, got %+v", b)
	}
	got := issueKinds(day.Issues)[b.ID]
	want := []calendar.IssueKind{calendar.IssueUnknownProfessional, calendar.IssueUnknownService, calendar.IssueUnknownCustomer}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestCalendarSource_MalformedRowsAreSkipped(t *testing.T) {
	f := newFakes()
	f.bookings.byDate["2024-06-10"] = []*entity.Booking{
		row("30000000-0000-4000-8000-000000000001", "2024-06-10", "25:00", ptr(alice), "pending"),
		row("30000000-0000-4000-8000-000000000002", "2024-06-10", "10:00", nil, "pending"),
		row("", "2024-06-10", "10:00", ptr(alice), "pending"),
		row("30000000-0000-4000-8000-000000000004", "2024-06-10", "12:00:00", ptr(alice), "completed"),
	}

	day, err := NewCalendarSource(f.repository(), zap.NewNop()).LoadDay(context.Background(), calendar.NewViewState(monday, ""))
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if len(day.Bookings) != 2 {
		t.Fatalf("expected the two placeable bookings, got %+v", day.Bookings)
	}

	malformed := 0
	for _, issue := range day.Issues {
		if issue.Kind == calendar.IssueMalformed {
			malformed++
		}
	}
	if malformed != 2 {
		t.Fatalf("expected 2 malformed issues, got %d: %+v", malformed, day.Issues)
	}
}

func TestCalendarSource_MissingProfessionalIsKept(t *testing.T) {
	f := newFakes()
	unassigned := row("30000000-0000-4000-8000-000000000002", "2024-06-10", "10:00", nil, "pending")
	f.bookings.byDate["2024-06-10"] = []*entity.Booking{unassigned}

	day, err := NewCalendarSource(f.repository(), zap.NewNop()).LoadDay(context.Background(), calendar.NewViewState(monday, ""))
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if len(day.Bookings) != 1 {
		t.Fatalf("a booking without a professional must not be discarded, got %+v", day.Bookings)
	}
	b := day.Bookings[0]
	if b.ProfessionalID != "" || b.ProfessionalName != calendar.UnknownLabel || b.CustomerName != "Dana Scully" {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if got := issueKinds(day.Issues)[b.ID]; len(got) != 1 || got[0] != calendar.IssueUnknownProfessional {
		t.Fatalf("expected unknown_professional, got %v", got)
	}
}

func TestCalendarSource_LookupFailureDegrades(t *testing.T) {
	f := newFakes()
	f.services.err = errors.New("services table locked")
	f.profiles.err = errors.New("profiles unavailable")

	day, err := NewCalendarSource(f.repository(), zap.NewNop()).LoadDay(context.Background(), calendar.NewViewState(monday, ""))
	if err != nil {
		t.Fatalf("enrichment failures must not fail the load: %v", err)
	}
	b := day.Bookings[0]
	if b.ProfessionalName != "Alice" || b.ServiceName != calendar.UnknownLabel || b.CustomerName != calendar.UnknownLabel {
		t.Fatalf("unexpected names: %+v", b)
	}
}

func TestCalendarSource_FetchBookings(t *testing.T) {
	f := newFakes()
	src := NewCalendarSource(f.repository(), zap.NewNop())

	day, err := src.FetchBookings(context.Background(), "2024-06-10", bea.String())
	if err != nil {
		t.Fatalf("FetchBookings: %v", err)
	}
	if len(day.Bookings) != 1 || day.Bookings[0].ProfessionalID != bea.String() {
		t.Fatalf("expected Bea's booking only, got %+v", day.Bookings)
	}
	if call := f.bookings.lastCall(); call.professionalID == nil || *call.professionalID != bea {
		t.Fatalf("expected query filtered on Bea, got %+v", call)
	}
	if len(day.Issues) != 1 || day.Issues[0].Kind != calendar.IssueUnknownStatus {
		t.Fatalf("expected the unknown_status issue with the bookings, got %+v", day.Issues)
	}

	if _, err := src.FetchBookings(context.Background(), "2024-06-10", "not-a-uuid"); !errors.Is(err, calendar.ErrFetchFailure) {
		t.Fatalf("expected fetch failure for a bad filter, got %v", err)
	}

	f.bookings.err = errors.New("connection refused")
	_, err = src.FetchBookings(context.Background(), "2024-06-10", calendar.AllProfessionals)
	if !errors.Is(err, calendar.ErrFetchFailure) || !errors.Is(err, f.bookings.err) {
		t.Fatalf("expected wrapped fetch failure, got %v", err)
	}
}

func TestCalendarSource_FetchProfessionals(t *testing.T) {
	f := newFakes()
	list, err := NewCalendarSource(f.repository(), zap.NewNop()).FetchProfessionals(context.Background())
	if err != nil {
		t.Fatalf("FetchProfessionals: %v", err)
	}
	if len(list) != 3 || list[0].ID != alice.String() || list[1].Name != "Any Professional" {
		t.Fatalf("unexpected professionals: %+v", list)
	}
}

func TestParseView(t *testing.T) {
	view, err := parseView(" 2024-06-10 ", "ALL")
	if err != nil {
		t.Fatalf("parseView: %v", err)
	}
	if view.ProfessionalFilter != calendar.AllProfessionals || view.Day != monday {
		t.Fatalf("unexpected view: %+v", view)
	}

	for _, tc := range []struct{ date, professional string }{
		{"2024-13-01", ""},
		{"yesterday", ""},
		{"2024-06-10", "alice"},
	} {
		if _, err := parseView(tc.date, tc.professional); err == nil {
			t.Errorf("expected error for %q/%q", tc.date, tc.professional)
		}
	}
}
