package entity

import (
	"strings"
	"time"
)

// LocationID identificador normalizado de una sede. Las referencias externas
// (objeto embebido o id plano) se convierten a este tipo antes de llegar al carrito.
type LocationID string

// NewLocationID normaliza un identificador crudo (espacios, mayúsculas en ObjectIDs hex).
func NewLocationID(raw string) LocationID {
	return LocationID(strings.ToLower(strings.TrimSpace(raw)))
}

// IsZero indica que no hay sede seleccionada.
func (id LocationID) IsZero() bool { return id == "" }

func (id LocationID) String() string { return string(id) }

// Location representa una sede (punto de venta o bodega) donde se vende y almacena inventario.
type Location struct {
	ID        LocationID
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
