package entity

type Professional struct {
	BaseSimple
	Name string `db:"name"`
}
