package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (tenant).
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.Company, error)
}
