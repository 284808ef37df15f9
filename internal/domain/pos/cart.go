package pos

import (
	"fmt"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Line es la entrada de un producto en el carrito.
// UnitPrice se captura al agregar y no cambia aunque cambie el precio del catálogo.
type Line struct {
	ProductID       string
	Product         entity.Product // copia para mostrar y para consultar stock
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
}

// Adjustment describe un cambio de cantidad hecho por el sistema (revalidación o limpieza).
type Adjustment struct {
	ProductID string
	From      int
	To        int // 0 = línea eliminada
}

// Cart es la secuencia ordenada de líneas, a lo sumo una por producto.
// Invariantes: 0 < Quantity <= AvailableStock(producto, sede) tras cada mutación exitosa.
// No es seguro para uso concurrente; la sesión serializa las mutaciones.
type Cart struct {
	lines []Line
}

// NewCart crea un carrito vacío.
func NewCart() *Cart {
	return &Cart{}
}

// Lines devuelve una copia de las líneas en orden de inserción.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len número de líneas.
func (c *Cart) Len() int { return len(c.lines) }

// IsEmpty indica si el carrito no tiene líneas.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Line devuelve la línea del producto, si existe.
func (c *Cart) Line(productID string) (Line, bool) {
	if i := c.index(productID); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// Add agrega una unidad del producto. Si la línea existe incrementa en 1 solo si no supera el stock
// de la sede (ErrStockLimitExceeded); si no existe la crea con cantidad 1 y el precio actual,
// siempre que haya stock (ErrOutOfStock).
func (c *Cart) Add(p entity.Product, loc entity.LocationID) (Line, error) {
	available := AvailableStock(&p, loc)
	if i := c.index(p.ID); i >= 0 {
		line := &c.lines[i]
		if line.Quantity+1 > available {
			return *line, stockLimit(line.Quantity+1, available)
		}
		line.Quantity++
		line.Product = p
		return *line, nil
	}
	if available <= 0 {
		return Line{}, domain.ErrOutOfStock
	}
	line := Line{
		ProductID:       p.ID,
		Product:         p,
		Quantity:        1,
		UnitPrice:       p.Price,
		DiscountPercent: decimal.Zero,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// SetQuantity fija la cantidad de una línea. qty <= 0 elimina la línea.
// Si qty supera el stock disponible se rechaza y la cantidad previa se conserva.
func (c *Cart) SetQuantity(productID string, qty int, loc entity.LocationID) error {
	i := c.index(productID)
	if qty <= 0 {
		if i >= 0 {
			c.removeAt(i)
		}
		return nil
	}
	if i < 0 {
		return domain.ErrNotFound
	}
	line := &c.lines[i]
	if available := AvailableStock(&line.Product, loc); qty > available {
		return stockLimit(qty, available)
	}
	line.Quantity = qty
	return nil
}

// Remove elimina la línea del producto. Idempotente.
func (c *Cart) Remove(productID string) {
	if i := c.index(productID); i >= 0 {
		c.removeAt(i)
	}
}

// SetLineDiscount sobrescribe el descuento de la línea. Rechaza valores fuera de [0,100].
func (c *Cart) SetLineDiscount(productID string, percent decimal.Decimal) error {
	if err := ValidatePercent(percent); err != nil {
		return err
	}
	i := c.index(productID)
	if i < 0 {
		return domain.ErrNotFound
	}
	c.lines[i].DiscountPercent = percent
	return nil
}

// Clear vacía el carrito.
func (c *Cart) Clear() {
	c.lines = nil
}

// RefreshProduct actualiza la copia del producto (stock, nombre) de una línea existente
// sin tocar el precio capturado. Devuelve false si el producto no está en el carrito.
func (c *Cart) RefreshProduct(p entity.Product) bool {
	i := c.index(p.ID)
	if i < 0 {
		return false
	}
	c.lines[i].Product = p
	return true
}

// Revalidate vuelve a comprobar cada línea contra el stock de loc: elimina las que quedan en cero
// y recorta las que superan el disponible.
func (c *Cart) Revalidate(loc entity.LocationID) []Adjustment {
	var adj []Adjustment
	kept := c.lines[:0]
	for _, l := range c.lines {
		available := AvailableStock(&l.Product, loc)
		switch {
		case available <= 0:
			adj = append(adj, Adjustment{ProductID: l.ProductID, From: l.Quantity, To: 0})
			continue
		case l.Quantity > available:
			adj = append(adj, Adjustment{ProductID: l.ProductID, From: l.Quantity, To: available})
			l.Quantity = available
		}
		kept = append(kept, l)
	}
	c.lines = kept
	return adj
}

// Clone devuelve una copia independiente del carrito.
func (c *Cart) Clone() *Cart {
	return &Cart{lines: c.Lines()}
}

func (c *Cart) index(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func stockLimit(requested, available int) error {
	return fmt.Errorf("%w: solicitado %d, disponible %d", domain.ErrStockLimitExceeded, requested, available)
}
