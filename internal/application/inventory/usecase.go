package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/inventory"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (IN, OUT, ADJUSTMENT, TRANSFER) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	movRepo      repository.InventoryMovementRepository
	publisher    EventPublisher
	log          zerolog.Logger
	now          func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. publisher puede ser nil.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	movRepo repository.InventoryMovementRepository,
	publisher EventPublisher,
	log zerolog.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		movRepo:      movRepo,
		publisher:    publisher,
		log:          log,
		now:          time.Now,
	}
}

// MovementInputDTO entrada para registrar un movimiento de inventario.
// Para IN/OUT/ADJUSTMENT: ProductID, LocationID, Type, Quantity; UnitCost obligatorio en IN.
// Para TRANSFER: ProductID, FromLocationID, ToLocationID, Type=TRANSFER, Quantity.
type MovementInputDTO struct {
	CompanyID      string
	UserID         string
	ProductID      string
	LocationID     entity.LocationID
	FromLocationID entity.LocationID
	ToLocationID   entity.LocationID
	Type           string
	Quantity       int
	UnitCost       *decimal.Decimal
	Reference      string
}

// StockOut salida de stock ejecutada dentro de la transacción del caller (ventas u OUT manual).
type StockOut struct {
	CompanyID     string
	UserID        string
	Product       *entity.Product
	LocationID    entity.LocationID
	Quantity      int
	Type          string // OUT o SALE
	TransactionID string
	Reference     string
	Date          time.Time
}

// RegisterMovement inicia una transacción, bloquea la fila de stock (SELECT FOR UPDATE),
// aplica la lógica según tipo (IN/OUT/TRANSFER/ADJUSTMENT) y hace Commit o Rollback.
// Devuelve el ID de transacción que agrupa los movimientos creados.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (string, error) {
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT, entity.MovementTypeADJUSTMENT:
		if input.ProductID == "" || input.LocationID.IsZero() || input.Quantity == 0 {
			return "", domain.ErrInvalidInput
		}
		if input.Type == entity.MovementTypeIN && (input.UnitCost == nil || input.UnitCost.IsNegative()) {
			return "", domain.ErrInvalidInput
		}
		if input.Type != entity.MovementTypeADJUSTMENT && input.Quantity < 0 {
			return "", domain.ErrInvalidInput
		}
	case entity.MovementTypeTRANSFER:
		if input.ProductID == "" || input.FromLocationID.IsZero() || input.ToLocationID.IsZero() {
			return "", domain.ErrInvalidInput
		}
		if input.FromLocationID == input.ToLocationID || input.Quantity <= 0 {
			return "", domain.ErrInvalidInput
		}
	default:
		return "", domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return "", err
	}
	if product == nil {
		return "", domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return "", domain.ErrForbidden
	}

	locs := []entity.LocationID{input.LocationID}
	if input.Type == entity.MovementTypeTRANSFER {
		locs = []entity.LocationID{input.FromLocationID, input.ToLocationID}
	}
	for _, id := range locs {
		loc, err := uc.locationRepo.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		if loc == nil || loc.CompanyID != input.CompanyID {
			return "", domain.ErrNotFound
		}
	}

	now := uc.now()
	txID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		switch input.Type {
		case entity.MovementTypeIN:
			return uc.doIN(ctx, movRepo, stockRepo, productRepo, product, input, now, txID)
		case entity.MovementTypeOUT:
			return uc.RegisterOUTInTx(ctx, movRepo, stockRepo, uc.outFromInput(product, input, now, txID))
		case entity.MovementTypeADJUSTMENT:
			return uc.doADJUSTMENT(ctx, movRepo, stockRepo, productRepo, product, input, now, txID)
		case entity.MovementTypeTRANSFER:
			return uc.doTRANSFER(ctx, movRepo, stockRepo, product, input, now, txID)
		}
		return domain.ErrInvalidInput
	})
	if err != nil {
		return "", err
	}

	uc.log.Info().
		Str("transaction_id", txID).
		Str("type", input.Type).
		Str("product_id", input.ProductID).
		Int("quantity", input.Quantity).
		Msg("movimiento de inventario registrado")
	uc.publish(ctx, product, input, txID, now)
	return txID, nil
}

// RegisterOUTInTx ejecuta una salida usando los repositorios proporcionados (misma transacción del caller).
// Si el stock de la sede no alcanza devuelve ErrInsufficientStock con el detalle y el caller hace rollback.
func (uc *RegisterMovementUseCase) RegisterOUTInTx(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	out StockOut,
) error {
	if out.Quantity <= 0 || out.Product == nil {
		return domain.ErrInvalidInput
	}
	stock, err := stockRepo.GetForUpdate(ctx, out.Product.ID, out.LocationID)
	if err != nil {
		return err
	}
	if stock.Quantity < out.Quantity {
		return fmt.Errorf("%w: %s en sede %s (disponible %d, solicitado %d)",
			domain.ErrInsufficientStock, out.Product.Name, out.LocationID, stock.Quantity, out.Quantity)
	}
	stock.Quantity -= out.Quantity
	stock.UpdatedAt = out.Date
	if err := stockRepo.Upsert(ctx, stock); err != nil {
		return err
	}
	movType := out.Type
	if movType == "" {
		movType = entity.MovementTypeOUT
	}
	unitCost := out.Product.Cost
	qty := -out.Quantity
	return movRepo.Create(ctx, &entity.InventoryMovement{
		ID:            uuid.New().String(),
		CompanyID:     out.CompanyID,
		TransactionID: out.TransactionID,
		ProductID:     out.Product.ID,
		LocationID:    out.LocationID,
		Type:          movType,
		Quantity:      qty,
		UnitCost:      unitCost,
		TotalCost:     decimal.NewFromInt(int64(qty)).Mul(unitCost),
		Reference:     out.Reference,
		Date:          out.Date,
		CreatedAt:     out.Date,
		CreatedBy:     out.UserID,
	})
}

func (uc *RegisterMovementUseCase) outFromInput(product *entity.Product, input MovementInputDTO, now time.Time, txID string) StockOut {
	return StockOut{
		CompanyID:     input.CompanyID,
		UserID:        input.UserID,
		Product:       product,
		LocationID:    input.LocationID,
		Quantity:      input.Quantity,
		Type:          entity.MovementTypeOUT,
		TransactionID: txID,
		Reference:     input.Reference,
		Date:          now,
	}
}

// doIN: bloquea fila (GetForUpdate), CostCalculator, actualiza costo producto, suma stock, guarda movimiento.
func (uc *RegisterMovementUseCase) doIN(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	input MovementInputDTO,
	now time.Time, txID string,
) error {
	stock, err := stockRepo.GetForUpdate(ctx, input.ProductID, input.LocationID)
	if err != nil {
		return err
	}
	unitCost := *input.UnitCost
	newCost := inventory.CostCalculator(stock.Quantity, product.Cost, input.Quantity, unitCost)
	if err := productRepo.UpdateCost(ctx, input.ProductID, newCost); err != nil {
		return err
	}
	stock.Quantity += input.Quantity
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(ctx, stock); err != nil {
		return err
	}
	return movRepo.Create(ctx, &entity.InventoryMovement{
		ID:            uuid.New().String(),
		CompanyID:     input.CompanyID,
		TransactionID: txID,
		ProductID:     input.ProductID,
		LocationID:    input.LocationID,
		Type:          input.Type,
		Quantity:      input.Quantity,
		UnitCost:      unitCost,
		TotalCost:     decimal.NewFromInt(int64(input.Quantity)).Mul(unitCost),
		Reference:     input.Reference,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	})
}

// doADJUSTMENT: positivo como IN (costo 0 si no se indica), negativo como salida.
func (uc *RegisterMovementUseCase) doADJUSTMENT(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	input MovementInputDTO,
	now time.Time, txID string,
) error {
	if input.Quantity > 0 {
		unitCost := product.Cost
		if input.UnitCost != nil {
			unitCost = *input.UnitCost
		}
		input.UnitCost = &unitCost
		return uc.doIN(ctx, movRepo, stockRepo, productRepo, product, input, now, txID)
	}
	out := uc.outFromInput(product, input, now, txID)
	out.Quantity = -input.Quantity
	out.Type = entity.MovementTypeADJUSTMENT
	return uc.RegisterOUTInTx(ctx, movRepo, stockRepo, out)
}

// doTRANSFER: resta de la sede origen y suma en la destino en la misma transacción; guarda dos movimientos.
func (uc *RegisterMovementUseCase) doTRANSFER(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	product *entity.Product,
	input MovementInputDTO,
	now time.Time, txID string,
) error {
	out := uc.outFromInput(product, input, now, txID)
	out.LocationID = input.FromLocationID
	out.Type = entity.MovementTypeTRANSFER
	if err := uc.RegisterOUTInTx(ctx, movRepo, stockRepo, out); err != nil {
		return err
	}

	dest, err := stockRepo.GetForUpdate(ctx, input.ProductID, input.ToLocationID)
	if err != nil {
		return err
	}
	dest.Quantity += input.Quantity
	dest.UpdatedAt = now
	if err := stockRepo.Upsert(ctx, dest); err != nil {
		return err
	}
	return movRepo.Create(ctx, &entity.InventoryMovement{
		ID:            uuid.New().String(),
		CompanyID:     input.CompanyID,
		TransactionID: txID,
		ProductID:     input.ProductID,
		LocationID:    input.ToLocationID,
		Type:          entity.MovementTypeTRANSFER,
		Quantity:      input.Quantity,
		UnitCost:      product.Cost,
		TotalCost:     decimal.NewFromInt(int64(input.Quantity)).Mul(product.Cost),
		Reference:     input.Reference,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	})
}

func (uc *RegisterMovementUseCase) publish(ctx context.Context, product *entity.Product, input MovementInputDTO, txID string, now time.Time) {
	if uc.publisher == nil {
		return
	}
	n := &entity.Notification{
		ID:        txID,
		CompanyID: input.CompanyID,
		Type:      entity.NotificationInventory,
		Title:     "Movimiento de inventario",
		Message:   fmt.Sprintf("%s %+d %s en %s", input.Type, input.Quantity, product.Name, input.LocationID),
		RefID:     product.ID,
		CreatedAt: now,
	}
	if input.Type == entity.MovementTypeTRANSFER {
		n.Type = entity.NotificationTransfer
		n.Title = "Traslado entre sedes"
		n.Message = fmt.Sprintf("%d %s de %s a %s", input.Quantity, product.Name, input.FromLocationID, input.ToLocationID)
	}
	if err := uc.publisher.Publish(ctx, n); err != nil {
		uc.log.Warn().Err(err).Str("transaction_id", txID).Msg("no se pudo publicar la notificación")
	}
}

// ListMovements lista los movimientos de un producto o de una sede (uno de los dos es obligatorio).
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, companyID, productID string, locationID entity.LocationID, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	var (
		list []*entity.InventoryMovement
		err  error
	)
	switch {
	case productID != "":
		p, perr := uc.productRepo.GetByID(ctx, productID)
		if perr != nil {
			return nil, perr
		}
		if p == nil || p.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		list, err = uc.movRepo.ListByProduct(ctx, productID, from, to, limit, offset)
	case !locationID.IsZero():
		loc, lerr := uc.locationRepo.GetByID(ctx, locationID)
		if lerr != nil {
			return nil, lerr
		}
		if loc == nil || loc.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		list, err = uc.movRepo.ListByLocation(ctx, locationID, from, to, limit, offset)
	default:
		return nil, fmt.Errorf("%w: indique product_id o location_id", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}
