package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/textnorm"
)

// LocationUseCase casos de uso CRUD para sedes.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una sede. Si no llega ID se deriva del nombre.
func (uc *LocationUseCase) Create(ctx context.Context, companyID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	id := entity.NewLocationID(in.ID)
	if id.IsZero() {
		id = slugID(in.Name)
	}
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	loc := &entity.Location{
		ID:        id,
		CompanyID: companyID,
		Name:      strings.TrimSpace(in.Name),
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return ToLocationResponse(loc), nil
}

// slugID "Sede Norte" → "sede-norte-1a2b".
func slugID(name string) entity.LocationID {
	slug := strings.ReplaceAll(textnorm.Fold(name), " ", "-")
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:4]
	if slug == "" {
		return entity.NewLocationID("sede-" + suffix)
	}
	return entity.NewLocationID(slug + "-" + suffix)
}

// Get obtiene una sede de la empresa.
func (uc *LocationUseCase) Get(ctx context.Context, companyID string, id entity.LocationID) (*entity.Location, error) {
	loc, err := uc.repo.GetByID(ctx, entity.NewLocationID(id.String()))
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return loc, nil
}

// Update actualiza nombre y dirección.
func (uc *LocationUseCase) Update(ctx context.Context, companyID string, id entity.LocationID, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		loc.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		loc.Address = *in.Address
	}
	loc.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, loc); err != nil {
		return nil, err
	}
	return ToLocationResponse(loc), nil
}

// List lista las sedes de la empresa.
func (uc *LocationUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.LocationListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.LocationListResponse{
		Items: make([]dto.LocationResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, l := range list {
		out.Items = append(out.Items, *ToLocationResponse(l))
	}
	return out, nil
}

// All lista todas las sedes de la empresa (selector de la caja).
func (uc *LocationUseCase) All(ctx context.Context, companyID string) ([]*entity.Location, error) {
	return uc.repo.ListByCompany(ctx, companyID, 0, 0)
}

// Delete elimina una sede de la empresa.
func (uc *LocationUseCase) Delete(ctx context.Context, companyID string, id entity.LocationID) error {
	loc, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, loc.ID)
}

// ToLocationResponse mapea una sede a DTO.
func ToLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID.String(),
		CompanyID: l.CompanyID,
		Name:      l.Name,
		Address:   l.Address,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
