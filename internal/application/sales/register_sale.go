// Package sales implementa el registro de ventas POS: validación del pedido, totales calculados
// por el servidor, descuento de stock por sede y comprobante.
package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domainpos "github.com/jhoicas/pos-api/internal/domain/pos"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// SaleDetail venta con sus líneas.
type SaleDetail struct {
	Sale  *entity.Sale
	Items []*entity.SaleItem
}

// Receipt resume la venta para la caja.
func (d *SaleDetail) Receipt() *domainpos.Receipt {
	return &domainpos.Receipt{
		SaleID:         d.Sale.ID,
		Number:         d.Sale.Number,
		Subtotal:       d.Sale.Subtotal,
		TaxAmount:      d.Sale.TaxAmount,
		DiscountAmount: d.Sale.DiscountAmount,
		GrandTotal:     d.Sale.GrandTotal,
		CreatedAt:      d.Sale.CreatedAt,
	}
}

// RegisterSaleUseCase registra una venta y descuenta el inventario en una sola transacción.
type RegisterSaleUseCase struct {
	txRunner     TxRunner
	stockIssuer  StockIssuer
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	publisher    EventPublisher
	log          zerolog.Logger
	now          func() time.Time
}

// NewRegisterSaleUseCase construye el caso de uso. publisher puede ser nil.
func NewRegisterSaleUseCase(
	txRunner TxRunner,
	stockIssuer StockIssuer,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	publisher EventPublisher,
	log zerolog.Logger,
) *RegisterSaleUseCase {
	return &RegisterSaleUseCase{
		txRunner:     txRunner,
		stockIssuer:  stockIssuer,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		publisher:    publisher,
		log:          log,
		now:          time.Now,
	}
}

// RegisterSale valida el pedido, recalcula los totales con el motor de precios, descuenta el stock
// de la sede por cada línea, guarda cabecera y líneas y publica la notificación tras el commit.
func (uc *RegisterSaleUseCase) RegisterSale(ctx context.Context, order domainpos.SaleOrder) (*SaleDetail, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	loc, err := uc.locationRepo.GetByID(ctx, order.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.CompanyID != order.CompanyID {
		return nil, fmt.Errorf("%w: sede %s", domain.ErrNotFound, order.LocationID)
	}

	customer, err := uc.resolveCustomer(ctx, order)
	if err != nil {
		return nil, err
	}

	// Productos y precios (fuera de la tx, solo lectura)
	productsByID := make(map[string]*entity.Product, len(order.Items))
	lines := make([]domainpos.Line, 0, len(order.Items))
	for _, item := range order.Items {
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.CompanyID != order.CompanyID {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
		}
		productsByID[item.ProductID] = product
		price := item.UnitPrice
		if price.IsZero() {
			price = product.Price
		}
		lines = append(lines, domainpos.Line{
			ProductID:       item.ProductID,
			Product:         *product,
			Quantity:        item.Quantity,
			UnitPrice:       price,
			DiscountPercent: item.DiscountPercent,
		})
	}

	totals := domainpos.Compute(lines, domainpos.Params{
		TaxRatePercent:  order.TaxRatePercent,
		DiscountPercent: order.DiscountPercent,
	})

	now := uc.now()
	saleID := uuid.New().String()
	sale := &entity.Sale{
		ID:              saleID,
		CompanyID:       order.CompanyID,
		Number:          saleNumber(now, saleID),
		LocationID:      loc.ID,
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		CustomerContact: customer.Contact,
		CustomerEmail:   customer.Email,
		PaymentMethod:   order.PaymentMethod,
		Notes:           strings.TrimSpace(order.Notes),
		TaxRatePercent:  order.TaxRatePercent,
		DiscountPercent: order.DiscountPercent,
		Subtotal:        totals.Subtotal.Round(2),
		TaxAmount:       totals.TaxAmount.Round(2),
		DiscountAmount:  totals.DiscountAmount.Round(2),
		GrandTotal:      totals.GrandTotal,
		Status:          entity.SaleStatusCompleted,
		CreatedBy:       order.UserID,
		CreatedAt:       now,
	}
	items := make([]*entity.SaleItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, &entity.SaleItem{
			ID:              uuid.New().String(),
			SaleID:          saleID,
			ProductID:       l.ProductID,
			ProductName:     l.Product.Name,
			SKU:             l.Product.SKU,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			LineTotal:       domainpos.LineTotal(l).Round(2),
		})
	}

	err = uc.txRunner.RunSale(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Una salida SALE por línea; sin stock se aborta toda la venta.
		for _, item := range items {
			if err := uc.stockIssuer.RegisterOUTInTx(ctx, movRepo, stockRepo, inventory.StockOut{
				CompanyID:     order.CompanyID,
				UserID:        order.UserID,
				Product:       productsByID[item.ProductID],
				LocationID:    loc.ID,
				Quantity:      item.Quantity,
				Type:          entity.MovementTypeSALE,
				TransactionID: saleID,
				Reference:     sale.Number,
				Date:          now,
			}); err != nil {
				return err
			}
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		for _, item := range items {
			if err := saleRepo.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("company_id", order.CompanyID).
			Str("location_id", loc.ID.String()).
			Msg("venta rechazada")
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("number", sale.Number).
		Str("location_id", loc.ID.String()).
		Str("grand_total", sale.GrandTotal.StringFixed(2)).
		Int("items", len(items)).
		Msg("venta registrada")
	uc.publish(ctx, sale)
	return &SaleDetail{Sale: sale, Items: items}, nil
}

func validateOrder(order domainpos.SaleOrder) error {
	if order.LocationID.IsZero() {
		return domain.ErrLocationRequired
	}
	if len(order.Items) == 0 {
		return domain.ErrCartEmpty
	}
	if order.PaymentMethod == "" {
		return domain.ErrPaymentMethodRequired
	}
	if !entity.IsValidPaymentMethod(order.PaymentMethod) {
		return fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, order.PaymentMethod)
	}
	if err := domainpos.ValidatePercent(order.TaxRatePercent); err != nil {
		return err
	}
	if err := domainpos.ValidatePercent(order.DiscountPercent); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(order.Items))
	for _, item := range order.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return fmt.Errorf("%w: cada línea requiere producto y cantidad mayor a cero", domain.ErrInvalidInput)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: precio unitario negativo", domain.ErrInvalidInput)
		}
		if err := domainpos.ValidatePercent(item.DiscountPercent); err != nil {
			return err
		}
		if _, dup := seen[item.ProductID]; dup {
			return fmt.Errorf("%w: producto %s repetido", domain.ErrInvalidInput, item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}

// resolveCustomer completa el cliente registrado o devuelve el cliente libre del pedido.
func (uc *RegisterSaleUseCase) resolveCustomer(ctx context.Context, order domainpos.SaleOrder) (entity.Customer, error) {
	c := order.Customer
	c.Name = strings.TrimSpace(c.Name)
	if c.ID == "" {
		if c.Name == "" {
			return entity.WalkInCustomer(), nil
		}
		return c, nil
	}
	registered, err := uc.customerRepo.GetByID(ctx, c.ID)
	if err != nil {
		return entity.Customer{}, err
	}
	if registered == nil || registered.CompanyID != order.CompanyID {
		return entity.Customer{}, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, c.ID)
	}
	out := *registered
	if c.Contact != "" {
		out.Contact = c.Contact
	}
	if c.Email != "" {
		out.Email = c.Email
	}
	return out, nil
}

// saleNumber consecutivo legible: V-AAAAMMDD-<6 primeros del id>.
func saleNumber(t time.Time, id string) string {
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(short) > 6 {
		short = short[:6]
	}
	return fmt.Sprintf("V-%s-%s", t.Format("20060102"), short)
}

func (uc *RegisterSaleUseCase) publish(ctx context.Context, sale *entity.Sale) {
	if uc.publisher == nil {
		return
	}
	n := &entity.Notification{
		ID:        sale.ID,
		CompanyID: sale.CompanyID,
		Type:      entity.NotificationSale,
		Title:     "Nueva venta " + sale.Number,
		Message:   fmt.Sprintf("%s · $%s · %s", sale.CustomerName, sale.GrandTotal.StringFixed(2), sale.PaymentMethod),
		RefID:     sale.ID,
		CreatedAt: sale.CreatedAt,
	}
	if err := uc.publisher.Publish(ctx, n); err != nil {
		uc.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("no se pudo publicar la notificación")
	}
}

