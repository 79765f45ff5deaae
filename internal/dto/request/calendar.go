package request

// SelectViewRequest switches the live view to a day and professional filter.
type SelectViewRequest struct {
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	ProfessionalID string `json:"professional_id,omitempty" validate:"omitempty,max=64"`
}

type NavigateRequest struct {
	Direction string `json:"direction" validate:"required,oneof=previous next today"`
}

// DayViewRequest asks for a one-off grid without touching the live view.
type DayViewRequest struct {
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	ProfessionalID string `json:"professional_id,omitempty" validate:"omitempty,max=64"`
}

type WeekRequest struct {
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
