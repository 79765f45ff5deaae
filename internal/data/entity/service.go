package entity

type Service struct {
	BaseSimple
	Name            string `db:"name"`
	DurationMinutes int    `db:"duration_minutes"`
}
