// Package analytics contiene el resumen de ventas del dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

const dashboardTopN = 5 // número de productos y clientes en los rankings

// DashboardUseCase genera el resumen de ventas del día y del mes en curso.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// WithClock fija el reloj usado para calcular los rangos (pruebas).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO para la empresa indicada.
//
// Tres consultas en paralelo:
//  1. GetSalesMetrics(hoy)
//  2. GetSalesMetrics(mes)
//  3. GetTopProducts + GetTopCustomers(mes)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, companyID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// ── Rangos de fecha [inicio, fin) ─────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type metricsResult struct {
		revenue decimal.Decimal
		count   int
		err     error
	}
	type rankingResult struct {
		products  []repository.TopProductResult
		customers []repository.TopCustomerResult
		err       error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	rankCh := make(chan rankingResult, 1)

	go func() {
		rev, n, err := uc.analyticsRepo.GetSalesMetrics(ctx, companyID, todayStart, todayEnd)
		todayCh <- metricsResult{rev, n, err}
	}()
	go func() {
		rev, n, err := uc.analyticsRepo.GetSalesMetrics(ctx, companyID, monthStart, todayEnd)
		monthCh <- metricsResult{rev, n, err}
	}()
	go func() {
		products, err := uc.analyticsRepo.GetTopProducts(ctx, companyID, monthStart, todayEnd, dashboardTopN)
		if err != nil {
			rankCh <- rankingResult{err: fmt.Errorf("top productos: %w", err)}
			return
		}
		customers, err := uc.analyticsRepo.GetTopCustomers(ctx, companyID, monthStart, todayEnd, dashboardTopN)
		if err != nil {
			rankCh <- rankingResult{err: fmt.Errorf("top clientes: %w", err)}
			return
		}
		rankCh <- rankingResult{products: products, customers: customers}
	}()

	today := <-todayCh
	month := <-monthCh
	rank := <-rankCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if rank.err != nil {
		return nil, fmt.Errorf("dashboard: %w", rank.err)
	}

	avg := decimal.Zero
	if month.count > 0 {
		avg = month.revenue.Div(decimal.NewFromInt(int64(month.count))).Round(2)
	}

	out := &dto.DashboardSummaryDTO{
		TodaySales:    today.revenue.Round(2),
		TodayCount:    today.count,
		MonthlySales:  month.revenue.Round(2),
		MonthlyCount:  month.count,
		AverageTicket: avg,
		TopProducts:   make([]dto.TopProductDTO, 0, len(rank.products)),
		TopCustomers:  make([]dto.TopCustomerDTO, 0, len(rank.customers)),
		DateLabel:     monthLabel(now),
	}
	for _, p := range rank.products {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID:    p.ProductID,
			SKU:          p.SKU,
			ProductName:  p.ProductName,
			UnitsSold:    p.UnitsSold,
			TotalRevenue: p.TotalRevenue.Round(2),
		})
	}
	for _, c := range rank.customers {
		out.TopCustomers = append(out.TopCustomers, dto.TopCustomerDTO{
			CustomerID:   c.CustomerID,
			CustomerName: c.CustomerName,
			SaleCount:    c.SaleCount,
			TotalSpent:   c.TotalSpent.Round(2),
		})
	}
	return out, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
