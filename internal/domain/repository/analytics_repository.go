package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopProductResult resultado crudo del ranking de productos por ingreso.
type TopProductResult struct {
	ProductID    string
	SKU          string
	ProductName  string
	UnitsSold    int
	TotalRevenue decimal.Decimal
}

// TopCustomerResult resultado crudo del ranking de clientes por compras.
type TopCustomerResult struct {
	CustomerID   string // vacío si el cliente no está registrado
	CustomerName string
	SaleCount    int
	TotalSpent   decimal.Decimal
}

// AnalyticsRepository consultas read-only para el dashboard de ventas.
type AnalyticsRepository interface {
	// GetSalesMetrics devuelve ingresos (suma de grand_total) y número de ventas completadas en el rango.
	GetSalesMetrics(ctx context.Context, companyID string, startDate, endDate time.Time) (revenue decimal.Decimal, count int, err error)
	GetTopProducts(ctx context.Context, companyID string, startDate, endDate time.Time, limit int) ([]TopProductResult, error)
	// GetTopCustomers excluye las ventas de cliente de mostrador.
	GetTopCustomers(ctx context.Context, companyID string, startDate, endDate time.Time, limit int) ([]TopCustomerResult, error)
}
