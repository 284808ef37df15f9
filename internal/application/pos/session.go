package pos

import (
	"sync"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	domainpos "github.com/jhoicas/pos-api/internal/domain/pos"
	"github.com/shopspring/decimal"
)

// Session estado de una caja: carrito, sede, cliente, parámetros de precio, notas y método de pago.
// mu serializa todas las mutaciones; submitting bloquea el carrito mientras hay un envío en curso.
type Session struct {
	ID        string
	CompanyID string
	UserID    string

	mu            sync.Mutex
	cart          *domainpos.Cart
	location      *entity.Location
	customer      entity.Customer
	params        domainpos.Params
	notes         string
	paymentMethod string
	submitting    bool
	lastReceipt   *domainpos.Receipt
	lastActive    time.Time
}

func newSession(id, companyID, userID string, now time.Time) *Session {
	return &Session{
		ID:         id,
		CompanyID:  companyID,
		UserID:     userID,
		cart:       domainpos.NewCart(),
		customer:   entity.WalkInCustomer(),
		params:     domainpos.Params{TaxRatePercent: decimal.Zero, DiscountPercent: decimal.Zero},
		lastActive: now,
	}
}

func (s *Session) locationID() entity.LocationID {
	if s.location == nil {
		return ""
	}
	return s.location.ID
}

// resetAfterSale vuelve carrito, cliente, descuento, impuesto y notas a sus valores iniciales.
func (s *Session) resetAfterSale() {
	s.cart.Clear()
	s.customer = entity.WalkInCustomer()
	s.params = domainpos.Params{TaxRatePercent: decimal.Zero, DiscountPercent: decimal.Zero}
	s.notes = ""
}

// idleSince indica si la sesión lleva inactiva desde antes de t. No espera el candado: una sesión
// ocupada en otra operación o enviando una venta no está inactiva.
func (s *Session) idleSince(t time.Time) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	return !s.submitting && s.lastActive.Before(t)
}
