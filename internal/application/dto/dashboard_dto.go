package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TodaySales    decimal.Decimal  `json:"today_sales"`
	TodayCount    int              `json:"today_count"`
	MonthlySales  decimal.Decimal  `json:"monthly_sales"`
	MonthlyCount  int              `json:"monthly_count"`
	AverageTicket decimal.Decimal  `json:"average_ticket"` // ventas del mes / número de ventas
	TopProducts   []TopProductDTO  `json:"top_products"`
	TopCustomers  []TopCustomerDTO `json:"top_customers"`
	DateLabel     string           `json:"date_label"` // ej: "Febrero 2026"
}

// TopProductDTO producto del ranking por ingreso.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	UnitsSold    int             `json:"units_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// TopCustomerDTO cliente del ranking por compras.
type TopCustomerDTO struct {
	CustomerID   string          `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	SaleCount    int             `json:"sale_count"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
}
