package entity

import "time"

// Company representa una organización/tenant del sistema. Todos los datos se aíslan por CompanyID.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
