package models

// Operator is a facility manager allowed to edit schedules.
type Operator struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never exposed
}
