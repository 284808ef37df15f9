package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta registrada.
type ReceiptUseCase struct {
	sales        *RegisterSaleUseCase
	companyRepo  repository.CompanyRepository
	locationRepo repository.LocationRepository
	renderer     ReceiptRenderer
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	sales *RegisterSaleUseCase,
	companyRepo repository.CompanyRepository,
	locationRepo repository.LocationRepository,
	renderer ReceiptRenderer,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		sales:        sales,
		companyRepo:  companyRepo,
		locationRepo: locationRepo,
		renderer:     renderer,
	}
}

// DownloadReceiptPDF devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *ReceiptUseCase) DownloadReceiptPDF(ctx context.Context, companyID, saleID string) (pdfBytes []byte, filename string, err error) {
	detail, err := uc.sales.GetSale(ctx, companyID, saleID)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	location, err := uc.locationRepo.GetByID(ctx, detail.Sale.LocationID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener sede: %w", err)
	}

	pdfBytes, err = uc.renderer.RenderSaleReceipt(ctx, detail, company, location)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("venta_%s.pdf", detail.Sale.Number), nil
}
