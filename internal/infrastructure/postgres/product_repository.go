package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/textnorm"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, company_id, sku, barcode, name, description, brand, category, price, cost, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// searchText columna indexable de la búsqueda rápida.
func searchText(p *entity.Product) string {
	return textnorm.Join(p.Name, p.SKU, p.Barcode, p.Brand)
}

// Create persiste un nuevo producto. Cost inicia en 0.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `, search_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.SKU, nullIfEmpty(p.Barcode), p.Name, p.Description, p.Brand, p.Category,
		p.Price, p.Cost, p.CreatedAt, p.UpdatedAt, searchText(p),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p       entity.Product
		barcode *string
	)
	if err := row.Scan(&p.ID, &p.CompanyID, &p.SKU, &barcode, &p.Name, &p.Description, &p.Brand, &p.Category,
		&p.Price, &p.Cost, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Barcode = derefString(barcode)
	return &p, nil
}

func (r *ProductRepo) getOne(ctx context.Context, what, where string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	if err := r.attachInventory(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID obtiene un producto por ID con su stock por sede.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product", `id = $1`, id)
}

// GetByCompanyAndSKU obtiene un producto por empresa y SKU.
func (r *ProductRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by sku", `company_id = $1 AND sku = $2`, companyID, sku)
}

// GetByCompanyAndBarcode obtiene un producto por empresa y código de barras.
func (r *ProductRepo) GetByCompanyAndBarcode(ctx context.Context, companyID, barcode string) (*entity.Product, error) {
	if barcode == "" {
		return nil, nil
	}
	return r.getOne(ctx, "get product by barcode", `company_id = $1 AND barcode = $2`, companyID, barcode)
}

// Update actualiza un producto existente. No permite modificar Cost ni Stock (se manejan vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, barcode = $3, name = $4, description = $5, brand = $6, category = $7,
			price = $8, search_text = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, nullIfEmpty(p.Barcode), p.Name, p.Description, p.Brand, p.Category,
		p.Price, searchText(p), p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateCost actualiza solo el costo del producto (usado por el motor de inventario).
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`, productID, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

func (r *ProductRepo) list(ctx context.Context, what, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	if err := r.attachInventory(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListByCompany lista productos por empresa ordenados por nombre.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	return r.list(ctx, "list products",
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 ORDER BY name, id LIMIT $2 OFFSET $3`,
		companyID, limitArg(limit), offset)
}

// Search busca sobre search_text (nombre, SKU, código de barras y marca sin tildes).
func (r *ProductRepo) Search(ctx context.Context, companyID, query string, limit int) ([]*entity.Product, error) {
	pattern := "%" + escapeLike(textnorm.Fold(query)) + "%"
	return r.list(ctx, "search products",
		`SELECT `+productColumns+` FROM products
		WHERE company_id = $1 AND search_text LIKE $2 ESCAPE '\'
		ORDER BY name, id LIMIT $3`,
		companyID, pattern, limitArg(limit))
}

// Delete elimina un producto por ID (el stock se borra en cascada).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// attachInventory completa Inventory y TotalStock con una sola consulta a stock.
func (r *ProductRepo) attachInventory(ctx context.Context, list []*entity.Product) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	byProduct, err := NewStockRepository(r.q).ListByProducts(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range list {
		p.Inventory = byProduct[p.ID]
		p.TotalStock = 0
		for _, ls := range p.Inventory {
			p.TotalStock += ls.Quantity
		}
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
