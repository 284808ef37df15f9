package entity

import "time"

// WalkInCustomerName nombre del cliente de mostrador (venta sin cliente registrado).
const WalkInCustomerName = "Cliente de mostrador"

// Customer representa un cliente. En el POS es un registro libre {Name, Contact, Email};
// los clientes registrados tienen además ID y CompanyID.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	Contact   string // teléfono u otro dato de contacto
	Email     string
	TaxID     string // NIT o cédula, opcional
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WalkInCustomer devuelve el cliente por defecto del POS.
func WalkInCustomer() Customer {
	return Customer{Name: WalkInCustomerName}
}

// IsWalkIn indica si el cliente es el de mostrador (sin ID y con el nombre por defecto o vacío).
func (c Customer) IsWalkIn() bool {
	return c.ID == "" && (c.Name == "" || c.Name == WalkInCustomerName)
}
