package pos

import (
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domainpos "github.com/jhoicas/pos-api/internal/domain/pos"
)

// ToSessionResponse mapea la vista de una sesión a DTO.
func ToSessionResponse(v *SessionView) *dto.POSSessionResponse {
	if v == nil {
		return nil
	}
	out := &dto.POSSessionResponse{
		ID: v.ID,
		Customer: dto.SaleCustomerDTO{
			ID:      v.Customer.ID,
			Name:    v.Customer.Name,
			Contact: v.Customer.Contact,
			Email:   v.Customer.Email,
		},
		PaymentMethod:   v.PaymentMethod,
		Notes:           v.Notes,
		TaxRatePercent:  v.Params.TaxRatePercent,
		DiscountPercent: v.Params.DiscountPercent,
		Lines:           make([]dto.POSLineDTO, 0, len(v.Lines)),
		Totals: dto.POSTotalsDTO{
			Subtotal:       v.Totals.Subtotal,
			TaxAmount:      v.Totals.TaxAmount,
			DiscountAmount: v.Totals.DiscountAmount,
			GrandTotal:     v.Totals.GrandTotal,
		},
		Submitting:  v.Submitting,
		LastReceipt: ToReceiptDTO(v.LastReceipt),
	}
	if v.Location != nil {
		out.LocationID = v.Location.ID.String()
		out.LocationName = v.Location.Name
	}
	for _, l := range v.Lines {
		out.Lines = append(out.Lines, dto.POSLineDTO{
			ProductID:       l.ProductID,
			Name:            l.Product.Name,
			SKU:             l.Product.SKU,
			Barcode:         l.Product.Barcode,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			LineTotal:       l.LineTotal,
			AvailableStock:  l.AvailableStock,
		})
	}
	for _, a := range v.Adjustments {
		out.Adjustments = append(out.Adjustments, dto.POSAdjustmentDTO{ProductID: a.ProductID, From: a.From, To: a.To})
	}
	return out
}

// ToReceiptDTO mapea el comprobante de la caja a DTO.
func ToReceiptDTO(r *domainpos.Receipt) *dto.SaleReceiptDTO {
	if r == nil {
		return nil
	}
	return &dto.SaleReceiptDTO{
		SaleID:         r.SaleID,
		Number:         r.Number,
		Subtotal:       r.Subtotal,
		TaxAmount:      r.TaxAmount,
		DiscountAmount: r.DiscountAmount,
		GrandTotal:     r.GrandTotal,
		CreatedAt:      r.CreatedAt,
	}
}

// CustomerFromDTO convierte el cliente del body en entidad.
func CustomerFromDTO(c dto.SaleCustomerDTO) *entity.Customer {
	return &entity.Customer{ID: c.ID, Name: c.Name, Contact: c.Contact, Email: c.Email}
}
