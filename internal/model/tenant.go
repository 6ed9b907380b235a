package model

// Tenant is the masjid an admin token is scoped to.
type Tenant struct {
	ID string `json:"id"`
}
