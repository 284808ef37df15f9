package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre ventas completadas.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetSalesMetrics suma grand_total y cuenta las ventas COMPLETED en [startDate, endDate).
// COALESCE devuelve cero en un período sin ventas.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, companyID string, startDate, endDate time.Time) (decimal.Decimal, int, error) {
	const query = `
	SELECT COALESCE(SUM(grand_total), 0), COUNT(*)
	FROM sales
	WHERE company_id = $1
	  AND status = 'COMPLETED'
	  AND created_at >= $2 AND created_at < $3`

	var (
		revenue decimal.Decimal
		count   int
	)
	if err := r.pool.QueryRow(ctx, query, companyID, startDate, endDate).Scan(&revenue, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return revenue, count, nil
}

// GetTopProducts ranking de productos por ingreso (suma de line_total).
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, companyID string, startDate, endDate time.Time, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    si.product_id,
	    MAX(si.sku)           AS sku,
	    MAX(si.product_name)  AS product_name,
	    SUM(si.quantity)      AS units_sold,
	    SUM(si.line_total)    AS total_revenue
	FROM sales s
	JOIN sale_items si ON si.sale_id = s.id
	WHERE s.company_id = $1
	  AND s.status = 'COMPLETED'
	  AND s.created_at >= $2 AND s.created_at < $3
	GROUP BY si.product_id
	ORDER BY total_revenue DESC, si.product_id
	LIMIT $4`

	rows, err := r.pool.Query(ctx, query, companyID, startDate, endDate, limitArg(limit))
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.TopProductResult
	for rows.Next() {
		var row repository.TopProductResult
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.ProductName, &row.UnitsSold, &row.TotalRevenue); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetTopCustomers ranking de clientes por gasto. Los clientes libres se agrupan por nombre;
// el cliente de mostrador queda fuera.
func (r *AnalyticsRepo) GetTopCustomers(ctx context.Context, companyID string, startDate, endDate time.Time, limit int) ([]repository.TopCustomerResult, error) {
	const query = `
	SELECT
	    COALESCE(customer_id::TEXT, '')  AS customer_id,
	    MAX(customer_name)               AS customer_name,
	    COUNT(*)                         AS sale_count,
	    SUM(grand_total)                 AS total_spent
	FROM sales
	WHERE company_id = $1
	  AND status = 'COMPLETED'
	  AND created_at >= $2 AND created_at < $3
	  AND NOT (customer_id IS NULL AND customer_name IN ('', $5))
	GROUP BY customer_id, CASE WHEN customer_id IS NULL THEN customer_name END
	ORDER BY total_spent DESC, customer_name
	LIMIT $4`

	rows, err := r.pool.Query(ctx, query, companyID, startDate, endDate, limitArg(limit), entity.WalkInCustomerName)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopCustomers: %w", err)
	}
	defer rows.Close()

	var results []repository.TopCustomerResult
	for rows.Next() {
		var row repository.TopCustomerResult
		if err := rows.Scan(&row.CustomerID, &row.CustomerName, &row.SaleCount, &row.TotalSpent); err != nil {
			return nil, fmt.Errorf("analytics.GetTopCustomers scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
