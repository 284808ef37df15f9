package sales

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domainpos "github.com/jhoicas/pos-api/internal/domain/pos"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// RegisterSaleFromRequest adapta el body de POST /api/sales al caso de uso.
func (uc *RegisterSaleUseCase) RegisterSaleFromRequest(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	order := domainpos.SaleOrder{
		CompanyID:  companyID,
		UserID:     userID,
		LocationID: entity.NewLocationID(in.LocationID),
		Customer: entity.Customer{
			ID:      in.Customer.ID,
			Name:    in.Customer.Name,
			Contact: in.Customer.Contact,
			Email:   in.Customer.Email,
		},
		PaymentMethod:   in.PaymentMethod,
		Notes:           in.Notes,
		TaxRatePercent:  in.TaxRatePercent,
		DiscountPercent: in.DiscountPercent,
		Items:           make([]domainpos.OrderItem, 0, len(in.Items)),
	}
	for _, it := range in.Items {
		order.Items = append(order.Items, domainpos.OrderItem{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
		})
	}
	detail, err := uc.RegisterSale(ctx, order)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(detail.Sale, detail.Items)
	return &resp, nil
}

// GetSale obtiene una venta de la empresa con sus líneas.
func (uc *RegisterSaleUseCase) GetSale(ctx context.Context, companyID, id string) (*SaleDetail, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItemsBySaleID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleDetail{Sale: sale, Items: items}, nil
}

// ListSales lista las ventas de la empresa, de la más reciente a la más antigua.
func (uc *RegisterSaleUseCase) ListSales(ctx context.Context, companyID string, locationID entity.LocationID, from, to *time.Time, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.saleRepo.List(ctx, repository.SaleFilter{
		CompanyID:  companyID,
		LocationID: locationID,
		From:       from,
		To:         to,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, s := range list {
		out.Items = append(out.Items, ToSaleResponse(s, nil))
	}
	return out, nil
}

// ToSaleResponse mapea cabecera y líneas a DTO.
func ToSaleResponse(s *entity.Sale, items []*entity.SaleItem) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:         s.ID,
		Number:     s.Number,
		LocationID: s.LocationID.String(),
		Customer: dto.SaleCustomerDTO{
			ID:      s.CustomerID,
			Name:    s.CustomerName,
			Contact: s.CustomerContact,
			Email:   s.CustomerEmail,
		},
		PaymentMethod:   s.PaymentMethod,
		Notes:           s.Notes,
		TaxRatePercent:  s.TaxRatePercent,
		DiscountPercent: s.DiscountPercent,
		Subtotal:        s.Subtotal,
		TaxAmount:       s.TaxAmount,
		DiscountAmount:  s.DiscountAmount,
		GrandTotal:      s.GrandTotal,
		Status:          s.Status,
		CreatedAt:       s.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			SKU:             it.SKU,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			LineTotal:       it.LineTotal,
		})
	}
	return resp
}
