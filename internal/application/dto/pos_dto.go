package dto

import "github.com/shopspring/decimal"

// POSLineDTO línea del carrito de una sesión de caja.
type POSLineDTO struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku"`
	Barcode         string          `json:"barcode,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
	AvailableStock  int             `json:"available_stock"`
}

// POSTotalsDTO totales calculados localmente (solo informativos; el servidor de ventas es la fuente de verdad).
type POSTotalsDTO struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// POSAdjustmentDTO cambio de cantidad hecho por el sistema al cambiar de sede.
type POSAdjustmentDTO struct {
	ProductID string `json:"product_id"`
	From      int    `json:"from"`
	To        int    `json:"to"`
}

// POSSessionResponse estado completo de una sesión de caja.
type POSSessionResponse struct {
	ID              string             `json:"id"`
	LocationID      string             `json:"location_id,omitempty"`
	LocationName    string             `json:"location_name,omitempty"`
	Customer        SaleCustomerDTO    `json:"customer"`
	PaymentMethod   string             `json:"payment_method,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	TaxRatePercent  decimal.Decimal    `json:"tax_rate_percent"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
	Lines           []POSLineDTO       `json:"lines"`
	Totals          POSTotalsDTO       `json:"totals"`
	Submitting      bool               `json:"submitting"`
	Adjustments     []POSAdjustmentDTO `json:"adjustments,omitempty"`
	LastReceipt     *SaleReceiptDTO    `json:"last_receipt,omitempty"`
}

// POSSelectLocationRequest body de PUT /api/pos/sessions/:id/location.
type POSSelectLocationRequest struct {
	LocationID string `json:"location_id" validate:"required"`
}

// POSAddItemRequest body de POST /api/pos/sessions/:id/items (por id o por código de barras).
type POSAddItemRequest struct {
	ProductID string `json:"product_id" validate:"required_without=Barcode"`
	Barcode   string `json:"barcode" validate:"required_without=ProductID"`
}

// POSSetQuantityRequest body de PUT /api/pos/sessions/:id/items/:productId. quantity <= 0 elimina la línea;
// un body sin quantity se rechaza.
type POSSetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// POSLineDiscountRequest body de PUT /api/pos/sessions/:id/items/:productId/discount.
type POSLineDiscountRequest struct {
	DiscountPercent *decimal.Decimal `json:"discount_percent" validate:"required"`
}

// POSPricingRequest body de PUT /api/pos/sessions/:id/pricing. Los campos nil no se modifican.
type POSPricingRequest struct {
	TaxRatePercent  *decimal.Decimal `json:"tax_rate_percent"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
}

// POSOrderDetailsRequest body de PUT /api/pos/sessions/:id/details. Los campos nil no se modifican.
type POSOrderDetailsRequest struct {
	Customer      *SaleCustomerDTO `json:"customer"`
	Notes         *string          `json:"notes" validate:"omitempty,max=500"`
	PaymentMethod *string          `json:"payment_method" validate:"omitempty,oneof=cash card transfer mobile"`
}

// POSCheckoutResponse salida de un checkout exitoso: comprobante y sesión ya reiniciada.
type POSCheckoutResponse struct {
	Receipt SaleReceiptDTO     `json:"receipt"`
	Session POSSessionResponse `json:"session"`
}
