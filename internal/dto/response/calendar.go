package response

import (
	"time"

	"salon-calendar/internal/calendar"
)

type ProfessionalResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProfessionalListResponse struct {
	Professionals []ProfessionalResponse `json:"professionals"`
	Error         string                 `json:"error,omitempty"`
}

type BookingCardResponse struct {
	ID                     string `json:"id"`
	ProfessionalID         string `json:"professional_id"`
	ProfessionalName       string `json:"professional_name"`
	CustomerName           string `json:"customer_name"`
	ServiceName            string `json:"service_name"`
	ServiceDurationMinutes int    `json:"service_duration_minutes,omitempty"`
	Status                 string `json:"status"`
	StartTime              string `json:"start_time"`
	EndTime                string `json:"end_time"`
	TimeLabel              string `json:"time_label"`
	Title                  string `json:"title"`
	SpanSlots              int    `json:"span_slots,omitempty"`
	HeightPx               int    `json:"height_px,omitempty"`
}

type GridCellResponse struct {
	ProfessionalID string                `json:"professional_id"`
	Occupied       bool                  `json:"occupied"`
	Occupants      []string              `json:"occupants,omitempty"`
	Cards          []BookingCardResponse `json:"cards,omitempty"`
}

type GridRowResponse struct {
	Slot  string             `json:"slot"`
	Cells []GridCellResponse `json:"cells"`
}

type IssueResponse struct {
	Kind      string `json:"kind"`
	BookingID string `json:"booking_id,omitempty"`
	Detail    string `json:"detail"`
}

type DayViewResponse struct {
	Date               string                 `json:"date"`
	Weekday            string                 `json:"weekday"`
	IsToday            bool                   `json:"is_today"`
	Closed             bool                   `json:"closed"`
	ProfessionalFilter string                 `json:"professional_filter"`
	State              string                 `json:"state"`
	Generation         uint64                 `json:"generation,omitempty"`
	Error              string                 `json:"error,omitempty"`
	UpdatedAt          *time.Time             `json:"updated_at,omitempty"`
	Slots              []string               `json:"slots"`
	Professionals      []ProfessionalResponse `json:"professionals"`
	Rows               []GridRowResponse      `json:"rows"`
	Bookings           []BookingCardResponse  `json:"bookings"`
	Issues             []IssueResponse        `json:"issues"`
}

type WeekDayResponse struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	IsToday   bool   `json:"is_today"`
	Open      bool   `json:"open"`
	Opening   string `json:"opening,omitempty"`
	Closing   string `json:"closing,omitempty"`
	SlotCount int    `json:"slot_count"`
}

type WeekResponse struct {
	Start string            `json:"start"`
	End   string            `json:"end"`
	Days  []WeekDayResponse `json:"days"`
}

// DayView is everything needed to render one day.
type DayView struct {
	View          calendar.ViewState
	State         calendar.State
	Generation    uint64
	Err           error
	UpdatedAt     time.Time
	Today         calendar.Date
	Professionals []calendar.Professional
	Bookings      []calendar.Booking
	Issues        []calendar.DataQualityIssue
}

// NewDayViewResponse allocates the bookings into the day's slots and flattens the grid.
func NewDayViewResponse(in DayView) *DayViewResponse {
	slots := calendar.SlotsForDay(in.View.Day)
	alloc := calendar.Allocate(in.Bookings, slots, in.Professionals)

	filter := in.View.ProfessionalFilter
	if in.View.AllProfessionals() {
		filter = calendar.AllProfessionals
	}

	resp := &DayViewResponse{
		Date:               in.View.DateKey(),
		Weekday:            in.View.Day.Weekday().String(),
		IsToday:            in.View.Day == in.Today,
		Closed:             len(slots) == 0,
		ProfessionalFilter: filter,
		State:              string(in.State),
		Generation:         in.Generation,
		Slots:              calendar.SlotKeys(slots),
		Professionals:      ProfessionalsToResponse(in.Professionals),
		Rows:               make([]GridRowResponse, 0, len(slots)),
		Bookings:           make([]BookingCardResponse, 0, len(in.Bookings)),
		Issues:             make([]IssueResponse, 0, len(in.Issues)+len(alloc.Issues)),
	}
	if in.Err != nil {
		resp.Error = in.Err.Error()
	}
	if !in.UpdatedAt.IsZero() {
		updated := in.UpdatedAt
		resp.UpdatedAt = &updated
	}

	for _, slot := range slots {
		row := GridRowResponse{Slot: slot.String(), Cells: make([]GridCellResponse, 0, len(in.Professionals))}
		for _, p := range in.Professionals {
			cell := alloc.Cell(p.ID, slot)
			out := GridCellResponse{
				ProfessionalID: p.ID,
				Occupied:       len(cell.Occupants) > 0,
				Occupants:      cell.Occupants,
			}
			for _, placement := range cell.Owned {
				out.Cards = append(out.Cards, PlacementToResponse(placement))
			}
			row.Cells = append(row.Cells, out)
		}
		resp.Rows = append(resp.Rows, row)
	}

	for _, b := range in.Bookings {
		resp.Bookings = append(resp.Bookings, BookingToCard(b))
	}
	for _, issue := range in.Issues {
		resp.Issues = append(resp.Issues, IssueToResponse(issue))
	}
	for _, issue := range alloc.Issues {
		resp.Issues = append(resp.Issues, IssueToResponse(issue))
	}

	return resp
}

// Helper converters
func ProfessionalsToResponse(list []calendar.Professional) []ProfessionalResponse {
	out := make([]ProfessionalResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ProfessionalResponse{ID: p.ID, Name: p.Name})
	}
	return out
}

func BookingToCard(b calendar.Booking) BookingCardResponse {
	start := b.Start.String()
	end := b.End().String()
	return BookingCardResponse{
		ID:                     b.ID,
		ProfessionalID:         b.ProfessionalID,
		ProfessionalName:       b.ProfessionalName,
		CustomerName:           b.CustomerName,
		ServiceName:            b.ServiceName,
		ServiceDurationMinutes: b.ServiceDurationMinutes,
		Status:                 string(b.Status),
		StartTime:              start,
		EndTime:                end,
		TimeLabel:              start + " - " + end,
		Title:                  b.ServiceName + " - " + b.CustomerName + " (" + string(b.Status) + ")",
	}
}

func PlacementToResponse(p calendar.Placement) BookingCardResponse {
	card := BookingToCard(p.Booking)
	card.SpanSlots = p.SpanSlots
	card.HeightPx = p.HeightPx
	return card
}

func IssueToResponse(issue calendar.DataQualityIssue) IssueResponse {
	return IssueResponse{
		Kind:      string(issue.Kind),
		BookingID: issue.BookingID,
		Detail:    issue.Detail,
	}
}

// NewWeekResponse describes the Monday-first week containing day.
func NewWeekResponse(day, today calendar.Date) *WeekResponse {
	days := calendar.WeekDays(day)
	resp := &WeekResponse{
		Start: calendar.ToDateKey(days[0]),
		End:   calendar.ToDateKey(days[len(days)-1]),
		Days:  make([]WeekDayResponse, 0, len(days)),
	}

	for _, d := range days {
		slots := calendar.SlotsForDay(d)
		wd := WeekDayResponse{
			Date:      calendar.ToDateKey(d),
			Weekday:   d.Weekday().String(),
			IsToday:   d == today,
			Open:      len(slots) > 0,
			SlotCount: len(slots),
		}
		if wd.Open {
			wd.Opening = slots[0].String()
			wd.Closing = slots[len(slots)-1].String()
		}
		resp.Days = append(resp.Days, wd)
	}
	return resp
}
