package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domainpos "github.com/jhoicas/pos-api/internal/domain/pos"
	"github.com/jhoicas/pos-api/pkg/metrics"
)

// LineView línea del carrito con el stock disponible en la sede actual.
type LineView struct {
	domainpos.Line
	LineTotal      decimal.Decimal
	AvailableStock int
}

// SessionView fotografía consistente de una sesión, tomada bajo su candado.
type SessionView struct {
	ID            string
	Location      *entity.Location
	Customer      entity.Customer
	PaymentMethod string
	Notes         string
	Params        domainpos.Params
	Lines         []LineView
	Totals        domainpos.Totals
	Submitting    bool
	Adjustments   []domainpos.Adjustment
	LastReceipt   *domainpos.Receipt
}

// Pricing cambios de impuesto y descuento general. nil deja el valor actual.
type Pricing struct {
	TaxRatePercent  *decimal.Decimal
	DiscountPercent *decimal.Decimal
}

// OrderDetails cambios de cliente, notas y método de pago. nil deja el valor actual.
type OrderDetails struct {
	Customer      *entity.Customer
	Notes         *string
	PaymentMethod *string
}

// TerminalUseCase opera las sesiones de caja: carrito, sede, precios y envío de la venta.
type TerminalUseCase struct {
	registry  *SessionRegistry
	catalog   CatalogReader
	locations LocationReader
	sales     SalesGateway
	policy    domainpos.LocationChangePolicy
	metrics   *metrics.POSMetrics
	log       zerolog.Logger
	now       func() time.Time
}

// NewTerminalUseCase construye el caso de uso. metrics puede ser nil.
func NewTerminalUseCase(
	registry *SessionRegistry,
	catalog CatalogReader,
	locations LocationReader,
	sales SalesGateway,
	policy domainpos.LocationChangePolicy,
	m *metrics.POSMetrics,
	log zerolog.Logger,
) *TerminalUseCase {
	if policy == "" {
		policy = domainpos.PolicyClear
	}
	return &TerminalUseCase{
		registry:  registry,
		catalog:   catalog,
		locations: locations,
		sales:     sales,
		policy:    policy,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// Policy política de cambio de sede en uso.
func (uc *TerminalUseCase) Policy() domainpos.LocationChangePolicy { return uc.policy }

// OpenSession abre una sesión vacía para el cajero.
func (uc *TerminalUseCase) OpenSession(companyID, userID string) *SessionView {
	s := uc.registry.Open(companyID, userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(nil)
}

// GetSession devuelve el estado actual de la sesión.
func (uc *TerminalUseCase) GetSession(companyID, sessionID string) (*SessionView, error) {
	s, err := uc.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(nil), nil
}

// CloseSession descarta la sesión y su carrito.
func (uc *TerminalUseCase) CloseSession(companyID, sessionID string) error {
	if !uc.registry.Close(companyID, sessionID) {
		return domain.ErrNotFound
	}
	return nil
}

// ListLocations sedes seleccionables para la caja.
func (uc *TerminalUseCase) ListLocations(ctx context.Context, companyID string) ([]*entity.Location, error) {
	return uc.locations.ListLocations(ctx, companyID)
}

// SearchProducts búsqueda rápida para agregar al carrito.
func (uc *TerminalUseCase) SearchProducts(ctx context.Context, companyID, query string, limit int) ([]*entity.Product, error) {
	return uc.catalog.SearchProducts(ctx, companyID, query, limit)
}

// SelectLocation cambia la sede de la sesión y aplica la política configurada al carrito.
// Con PolicyRevalidate se releen los productos para usar el stock vigente.
func (uc *TerminalUseCase) SelectLocation(ctx context.Context, companyID, sessionID, rawLocation string) (*SessionView, error) {
	locID := entity.NewLocationID(rawLocation)
	if locID.IsZero() {
		return nil, domain.ErrLocationRequired
	}
	s, err := uc.lockSession(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if s.locationID() == locID {
		return s.view(nil), nil
	}
	loc, err := uc.locations.GetLocation(ctx, companyID, locID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}

	if uc.policy == domainpos.PolicyRevalidate {
		if err := uc.refreshLines(ctx, s); err != nil {
			return nil, err
		}
	}
	adj := uc.policy.Apply(s.cart, loc.ID)
	s.location = loc
	s.touch(uc.now())

	if len(adj) > 0 {
		uc.log.Info().
			Str("session_id", s.ID).
			Str("location_id", loc.ID.String()).
			Str("policy", string(uc.policy)).
			Int("adjustments", len(adj)).
			Msg("carrito ajustado por cambio de sede")
	}
	return s.view(adj), nil
}

// AddItem agrega una unidad por ID de producto o por código de barras.
func (uc *TerminalUseCase) AddItem(ctx context.Context, companyID, sessionID, productID, barcode string) (*SessionView, error) {
	s, err := uc.lockSession(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	p, err := uc.lookupProduct(ctx, companyID, productID, barcode)
	if err != nil {
		return nil, err
	}
	if _, err := s.cart.Add(*p, s.locationID()); err != nil {
		uc.reject(err, s, p.ID)
		return nil, err
	}
	s.touch(uc.now())
	return s.view(nil), nil
}

// SetQuantity fija la cantidad de una línea. qty <= 0 elimina la línea.
// El stock se relee antes de validar el tope.
func (uc *TerminalUseCase) SetQuantity(ctx context.Context, companyID, sessionID, productID string, qty int) (*SessionView, error) {
	s, err := uc.lockSession(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if _, ok := s.cart.Line(productID); ok && qty > 0 {
		p, err := uc.catalog.GetProduct(ctx, companyID, productID)
		if err != nil {
			return nil, err
		}
		s.cart.RefreshProduct(*p)
	}
	if err := s.cart.SetQuantity(productID, qty, s.locationID()); err != nil {
		uc.reject(err, s, productID)
		return nil, err
	}
	s.touch(uc.now())
	return s.view(nil), nil
}

// RemoveItem elimina la línea. Eliminar una línea inexistente no es error.
func (uc *TerminalUseCase) RemoveItem(companyID, sessionID, productID string) (*SessionView, error) {
	s, err := uc.lockSession(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	s.cart.Remove(productID)
	s.touch(uc.now())
	return s.view(nil), nil
}

// SetLineDiscount fija el descuento porcentual de una línea.
func (uc *TerminalUseCase) SetLineDiscount(companyID, sessionID, productID string, percent decimal.Decimal) (*SessionView, error) {
	s, err := uc.lockSession(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if err := s.cart.SetLineDiscount(productID, percent); err != nil {
		uc.reject(err, s, productID)
		return nil, err
	}
	s.touch(uc.now())
	return s.view(nil), nil
}

// SetPricing fija impuesto y descuento general. Si uno es inválido no se aplica ninguno.
func (uc *TerminalUseCase) SetPricing(companyID, sessionID string, in Pricing) (*SessionView, error) {
	if in.TaxRatePercent != nil {
		if err := domainpos.ValidatePercent(*in.TaxRatePercent); err != nil {
			return nil, err
		}
	}
	if in.DiscountPercent != nil {
		if err := domainpos.ValidatePercent(*in.DiscountPercent); err != nil {
			return nil, err
		}
	}
	s, err := uc.lockSession(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if in.TaxRatePercent != nil {
		s.params.TaxRatePercent = *in.TaxRatePercent
	}
	if in.DiscountPercent != nil {
		s.params.DiscountPercent = *in.DiscountPercent
	}
	s.touch(uc.now())
	return s.view(nil), nil
}

// SetOrderDetails fija cliente, notas y método de pago. Un cliente sin nombre es cliente de mostrador.
func (uc *TerminalUseCase) SetOrderDetails(companyID, sessionID string, in OrderDetails) (*SessionView, error) {
	var method string
	if in.PaymentMethod != nil {
		method = strings.ToLower(strings.TrimSpace(*in.PaymentMethod))
		if method != "" && !entity.IsValidPaymentMethod(method) {
			return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, *in.PaymentMethod)
		}
	}
	s, err := uc.lockSession(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if in.Customer != nil {
		c := *in.Customer
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" && c.ID == "" {
			c = entity.WalkInCustomer()
		}
		s.customer = c
	}
	if in.Notes != nil {
		s.notes = *in.Notes
	}
	if in.PaymentMethod != nil {
		s.paymentMethod = method
	}
	s.touch(uc.now())
	return s.view(nil), nil
}

// ResetCart vacía el carrito. Cliente, precios y notas se conservan.
func (uc *TerminalUseCase) ResetCart(companyID, sessionID string) (*SessionView, error) {
	s, err := uc.lockSession(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	s.cart.Clear()
	s.touch(uc.now())
	return s.view(nil), nil
}

// Checkout envía la venta. Precondiciones, en orden: sede, carrito no vacío, método de pago.
// Hay una sola escritura externa. Solo si tiene éxito se reinician carrito, cliente, descuento,
// impuesto y notas; si falla el estado queda intacto y el error lleva el mensaje del servidor.
func (uc *TerminalUseCase) Checkout(ctx context.Context, companyID, sessionID string) (*domainpos.Receipt, *SessionView, error) {
	s, err := uc.lockSession(companyID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkPreconditions(); err != nil {
		s.mu.Unlock()
		uc.metrics.ObserveSubmission(metrics.ResultRejected, 0)
		return nil, nil, err
	}
	order := domainpos.SaleOrder{
		CompanyID:       s.CompanyID,
		UserID:          s.UserID,
		LocationID:      s.location.ID,
		Customer:        s.customer,
		PaymentMethod:   s.paymentMethod,
		Notes:           s.notes,
		TaxRatePercent:  s.params.TaxRatePercent,
		DiscountPercent: s.params.DiscountPercent,
		Items:           domainpos.OrderItems(s.cart.Lines()),
	}
	s.submitting = true
	s.mu.Unlock()

	start := uc.now()
	receipt, submitErr := uc.sales.SubmitSale(ctx, order)
	elapsed := uc.now().Sub(start)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	s.touch(uc.now())

	if submitErr != nil {
		uc.metrics.ObserveSubmission(metrics.ResultFailure, elapsed)
		uc.log.Warn().Err(submitErr).
			Str("session_id", s.ID).
			Str("location_id", order.LocationID.String()).
			Int("items", len(order.Items)).
			Msg("envío de venta fallido")
		var subErr *domain.SubmissionError
		if errors.As(submitErr, &subErr) {
			return nil, s.view(nil), subErr
		}
		return nil, s.view(nil), &domain.SubmissionError{Message: submitErr.Error(), Err: submitErr}
	}

	uc.metrics.ObserveSubmission(metrics.ResultSuccess, elapsed)
	if receipt == nil {
		uc.log.Warn().Str("session_id", s.ID).Msg("venta registrada sin recibo")
		receipt = &domainpos.Receipt{}
	}
	s.resetAfterSale()
	s.lastReceipt = receipt
	uc.log.Info().
		Str("session_id", s.ID).
		Str("sale_id", receipt.SaleID).
		Str("grand_total", receipt.GrandTotal.StringFixed(2)).
		Msg("venta registrada desde caja")
	return receipt, s.view(nil), nil
}

func (uc *TerminalUseCase) session(companyID, sessionID string) (*Session, error) {
	s, ok := uc.registry.Get(companyID, sessionID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// lockSession toma el candado de la sesión para mutarla. Falla si hay un envío en curso.
func (uc *TerminalUseCase) lockSession(companyID, sessionID string) (*Session, error) {
	s, err := uc.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, domain.ErrSubmissionInProgress
	}
	return s, nil
}

func (uc *TerminalUseCase) lookupProduct(ctx context.Context, companyID, productID, barcode string) (*entity.Product, error) {
	var (
		p   *entity.Product
		err error
	)
	switch {
	case strings.TrimSpace(productID) != "":
		p, err = uc.catalog.GetProduct(ctx, companyID, strings.TrimSpace(productID))
	case strings.TrimSpace(barcode) != "":
		p, err = uc.catalog.FindByBarcode(ctx, companyID, strings.TrimSpace(barcode))
	default:
		return nil, fmt.Errorf("%w: indique product_id o barcode", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// refreshLines relee cada producto del carrito. Un producto que ya no existe queda sin stock.
func (uc *TerminalUseCase) refreshLines(ctx context.Context, s *Session) error {
	for _, l := range s.cart.Lines() {
		p, err := uc.catalog.GetProduct(ctx, s.CompanyID, l.ProductID)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && p == nil) {
			gone := l.Product
			gone.Inventory = nil
			gone.TotalStock = 0
			s.cart.RefreshProduct(gone)
			continue
		}
		if err != nil {
			return err
		}
		s.cart.RefreshProduct(*p)
	}
	return nil
}

func (uc *TerminalUseCase) reject(err error, s *Session, productID string) {
	reason := "validation"
	switch {
	case errors.Is(err, domain.ErrStockLimitExceeded):
		reason = "stock_limit"
	case errors.Is(err, domain.ErrOutOfStock):
		reason = "out_of_stock"
	case errors.Is(err, domain.ErrNotFound):
		reason = "not_found"
	}
	uc.metrics.IncRejection(reason)
	uc.log.Debug().Err(err).
		Str("session_id", s.ID).
		Str("product_id", productID).
		Str("reason", reason).
		Msg("operación de carrito rechazada")
}

func (s *Session) checkPreconditions() error {
	if s.location == nil || s.location.ID.IsZero() {
		return domain.ErrLocationRequired
	}
	if s.cart.IsEmpty() {
		return domain.ErrCartEmpty
	}
	if s.paymentMethod == "" {
		return domain.ErrPaymentMethodRequired
	}
	return nil
}

func (s *Session) touch(t time.Time) { s.lastActive = t }

// view debe llamarse con el candado tomado.
func (s *Session) view(adj []domainpos.Adjustment) *SessionView {
	lines := s.cart.Lines()
	loc := s.locationID()
	out := make([]LineView, 0, len(lines))
	for _, l := range lines {
		p := l.Product
		out = append(out, LineView{
			Line:           l,
			LineTotal:      domainpos.LineTotal(l),
			AvailableStock: domainpos.AvailableStock(&p, loc),
		})
	}
	var location *entity.Location
	if s.location != nil {
		cp := *s.location
		location = &cp
	}
	return &SessionView{
		ID:            s.ID,
		Location:      location,
		Customer:      s.customer,
		PaymentMethod: s.paymentMethod,
		Notes:         s.notes,
		Params:        s.params,
		Lines:         out,
		Totals:        domainpos.Compute(lines, s.params),
		Submitting:    s.submitting,
		Adjustments:   adj,
		LastReceipt:   s.lastReceipt,
	}
}
