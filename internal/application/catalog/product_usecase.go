package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Cost y stock se manejan vía movimientos.
type ProductUseCase struct {
	repo      repository.ProductRepository
	publisher EventPublisher
	log       zerolog.Logger
}

// NewProductUseCase construye el caso de uso. publisher puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, publisher EventPublisher, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, publisher: publisher, log: log}
}

// Create crea un nuevo producto. Cost inicia en 0; SKU y código de barras son únicos por empresa.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	in.SKU = strings.TrimSpace(in.SKU)
	in.Barcode = strings.TrimSpace(in.Barcode)
	if err := uc.checkUnique(ctx, companyID, "", in.SKU, in.Barcode); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SKU:         in.SKU,
		Barcode:     in.Barcode,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Brand:       in.Brand,
		Category:    in.Category,
		Price:       in.Price,
		Cost:        decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.publish(ctx, product, "Producto creado")
	return ToProductResponse(product), nil
}

func (uc *ProductUseCase) checkUnique(ctx context.Context, companyID, selfID, sku, barcode string) error {
	if sku != "" {
		existing, err := uc.repo.GetByCompanyAndSKU(ctx, companyID, sku)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return fmt.Errorf("%w: SKU %s", domain.ErrDuplicate, sku)
		}
	}
	if barcode != "" {
		existing, err := uc.repo.GetByCompanyAndBarcode(ctx, companyID, barcode)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return fmt.Errorf("%w: código de barras %s", domain.ErrDuplicate, barcode)
		}
	}
	return nil
}

// Get obtiene un producto de la empresa con su inventario por sede.
func (uc *ProductUseCase) Get(ctx context.Context, companyID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// FindByBarcode busca un producto por código de barras (lector de la caja).
func (uc *ProductUseCase) FindByBarcode(ctx context.Context, companyID, barcode string) (*entity.Product, error) {
	product, err := uc.repo.GetByCompanyAndBarcode(ctx, companyID, strings.TrimSpace(barcode))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// GetByID obtiene un producto como DTO.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar Cost ni stock (se manejan vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Barcode != nil {
		code := strings.TrimSpace(*in.Barcode)
		if err := uc.checkUnique(ctx, companyID, product.ID, "", code); err != nil {
			return nil, err
		}
		product.Barcode = code
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
		product.Price = *in.Price
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.publish(ctx, product, "Producto actualizado")
	return ToProductResponse(product), nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toProductList(list, page), nil
}

// Search búsqueda rápida por nombre, SKU o código de barras, sin distinguir tildes.
func (uc *ProductUseCase) Search(ctx context.Context, companyID, query string, limit int) ([]*entity.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*entity.Product{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return uc.repo.Search(ctx, companyID, query, limit)
}

// Delete elimina un producto de la empresa.
func (uc *ProductUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.Get(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) publish(ctx context.Context, p *entity.Product, title string) {
	if uc.publisher == nil {
		return
	}
	n := &entity.Notification{
		ID:        uuid.New().String(),
		CompanyID: p.CompanyID,
		Type:      entity.NotificationProduct,
		Title:     title,
		Message:   fmt.Sprintf("%s (%s)", p.Name, p.SKU),
		RefID:     p.ID,
		CreatedAt: p.UpdatedAt,
	}
	if err := uc.publisher.Publish(ctx, n); err != nil {
		uc.log.Warn().Err(err).Str("product_id", p.ID).Msg("no se pudo publicar la notificación")
	}
}

func toProductList(list []*entity.Product, page dto.PageRequest) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
}

// ToProductResponse mapea un producto a DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	inv := make([]dto.LocationStockDTO, 0, len(p.Inventory))
	for _, s := range p.Inventory {
		inv = append(inv, dto.LocationStockDTO{LocationID: s.LocationID.String(), Quantity: s.Quantity})
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Category:    p.Category,
		Price:       p.Price,
		Cost:        p.Cost,
		Inventory:   inv,
		TotalStock:  p.TotalStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
