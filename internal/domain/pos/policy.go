package pos

import (
	"fmt"
	"strings"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LocationChangePolicy define qué pasa con el carrito cuando cambia la sede seleccionada.
type LocationChangePolicy string

const (
	// PolicyClear vacía el carrito al cambiar de sede.
	PolicyClear LocationChangePolicy = "clear"
	// PolicyRevalidate conserva las líneas: elimina las que quedan sin stock y recorta las que lo superan.
	PolicyRevalidate LocationChangePolicy = "revalidate"
)

// ParseLocationChangePolicy interpreta el valor de configuración. Vacío equivale a PolicyClear.
func ParseLocationChangePolicy(s string) (LocationChangePolicy, error) {
	switch LocationChangePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyClear:
		return PolicyClear, nil
	case PolicyRevalidate:
		return PolicyRevalidate, nil
	}
	return "", fmt.Errorf("%w: política de cambio de sede %q", domain.ErrInvalidInput, s)
}

// Apply aplica la política sobre el carrito para la nueva sede y devuelve los ajustes hechos.
func (p LocationChangePolicy) Apply(c *Cart, loc entity.LocationID) []Adjustment {
	if p == PolicyRevalidate {
		return c.Revalidate(loc)
	}
	var adj []Adjustment
	for _, l := range c.lines {
		adj = append(adj, Adjustment{ProductID: l.ProductID, From: l.Quantity, To: 0})
	}
	c.Clear()
	return adj
}

var hundred = decimal.NewFromInt(100)

// ValidatePercent rechaza porcentajes fuera de [0,100].
func ValidatePercent(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(hundred) {
		return fmt.Errorf("%w: el porcentaje debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	return nil
}
