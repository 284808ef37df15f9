package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agrega las ventas completadas en memoria.
type AnalyticsRepo struct{ a access }

func (r *AnalyticsRepo) sales(st *state, companyID string, start, end time.Time) []entity.Sale {
	var out []entity.Sale
	for _, s := range st.sales {
		if s.CompanyID == companyID && s.Status == entity.SaleStatusCompleted &&
			!s.CreatedAt.Before(start) && s.CreatedAt.Before(end) {
			out = append(out, s)
		}
	}
	return out
}

func (r *AnalyticsRepo) GetSalesMetrics(_ context.Context, companyID string, start, end time.Time) (decimal.Decimal, int, error) {
	revenue := decimal.Zero
	count := 0
	err := r.a.do(func(st *state) error {
		for _, s := range r.sales(st, companyID, start, end) {
			revenue = revenue.Add(s.GrandTotal)
			count++
		}
		return nil
	})
	return revenue, count, err
}

func (r *AnalyticsRepo) GetTopProducts(_ context.Context, companyID string, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	byID := map[string]*repository.TopProductResult{}
	err := r.a.do(func(st *state) error {
		for _, s := range r.sales(st, companyID, start, end) {
			for _, it := range st.saleItems[s.ID] {
				row, ok := byID[it.ProductID]
				if !ok {
					row = &repository.TopProductResult{ProductID: it.ProductID, SKU: it.SKU, ProductName: it.ProductName}
					byID[it.ProductID] = row
				}
				row.UnitsSold += it.Quantity
				row.TotalRevenue = row.TotalRevenue.Add(it.LineTotal)
			}
		}
		return nil
	})
	out := make([]repository.TopProductResult, 0, len(byID))
	for _, row := range byID {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	return page(out, limit, 0), err
}

func (r *AnalyticsRepo) GetTopCustomers(_ context.Context, companyID string, start, end time.Time, limit int) ([]repository.TopCustomerResult, error) {
	byKey := map[string]*repository.TopCustomerResult{}
	err := r.a.do(func(st *state) error {
		for _, s := range r.sales(st, companyID, start, end) {
			c := entity.Customer{ID: s.CustomerID, Name: s.CustomerName}
			if c.IsWalkIn() {
				continue
			}
			key := s.CustomerID
			if key == "" {
				key = "name:" + s.CustomerName
			}
			row, ok := byKey[key]
			if !ok {
				row = &repository.TopCustomerResult{CustomerID: s.CustomerID, CustomerName: s.CustomerName}
				byKey[key] = row
			}
			row.SaleCount++
			row.TotalSpent = row.TotalSpent.Add(s.GrandTotal)
		}
		return nil
	})
	out := make([]repository.TopCustomerResult, 0, len(byKey))
	for _, row := range byKey {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalSpent.Cmp(out[j].TotalSpent); c != 0 {
			return c > 0
		}
		return out[i].CustomerName < out[j].CustomerName
	})
	return page(out, limit, 0), err
}
