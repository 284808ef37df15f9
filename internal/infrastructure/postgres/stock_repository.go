package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func (r *StockRepo) get(ctx context.Context, query, what, productID string, locationID entity.LocationID) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID, locationID.String()).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return &s, nil
}

// Get obtiene el stock actual de un producto en una sede. Sin fila devuelve cantidad 0.
func (r *StockRepo) Get(ctx context.Context, productID string, locationID entity.LocationID) (*entity.Stock, error) {
	return r.get(ctx, `
		SELECT product_id, location_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND location_id = $2`,
		"get stock", productID, locationID)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string, locationID entity.LocationID) (*entity.Stock, error) {
	return r.get(ctx, `
		SELECT product_id, location_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`,
		"get stock for update", productID, locationID)
}

// Upsert inserta o actualiza la cantidad en stock (por producto y sede).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.ProductID, stock.LocationID.String(), stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByProducts devuelve el desglose por sede de varios productos, ordenado por sede.
// Incluye todas las sedes de la empresa del producto; sin fila de stock la cantidad es 0.
func (r *StockRepo) ListByProducts(ctx context.Context, productIDs []string) (map[string][]entity.LocationStock, error) {
	out := make(map[string][]entity.LocationStock, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT p.id, l.id, COALESCE(s.quantity, 0)
		FROM products p
		JOIN locations l ON l.company_id = p.company_id
		LEFT JOIN stock s ON s.product_id = p.id AND s.location_id = l.id
		WHERE p.id = ANY($1)
		ORDER BY p.id, l.id`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			productID string
			ls        entity.LocationStock
		)
		if err := rows.Scan(&productID, &ls.LocationID, &ls.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out[productID] = append(out[productID], ls)
	}
	return out, rows.Err()
}
