// Package pos contiene el modelo de carrito del punto de venta: consulta de stock por sede,
// carrito con techo de stock y motor de precios. No hace I/O.
package pos

import "github.com/jhoicas/pos-api/internal/domain/entity"

// AvailableStock devuelve el stock disponible de p en la sede loc (siempre >= 0).
// Si el producto trae desglose por sede y hay sede seleccionada, se usa la entrada de esa sede;
// si no existe la entrada o no hay desglose, se usa TotalStock. La ausencia de datos es stock cero.
func AvailableStock(p *entity.Product, loc entity.LocationID) int {
	if p == nil {
		return 0
	}
	if len(p.Inventory) > 0 && !loc.IsZero() {
		want := entity.NewLocationID(string(loc))
		for _, inv := range p.Inventory {
			if entity.NewLocationID(string(inv.LocationID)) == want {
				return nonNegative(inv.Quantity)
			}
		}
	}
	return nonNegative(p.TotalStock)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
