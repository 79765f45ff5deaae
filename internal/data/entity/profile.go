package entity

// Profile is a customer account. FullName is optional.
type Profile struct {
	BaseSimple
	FullName *string `db:"full_name"`
}
