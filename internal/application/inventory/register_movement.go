package inventory

import (
	"context"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, companyID, userID string, in dto.RegisterMovementRequest) (*dto.RegisterMovementResponse, error) {
	txID, err := uc.RegisterMovement(ctx, MovementInputDTO{
		CompanyID:      companyID,
		UserID:         userID,
		ProductID:      in.ProductID,
		LocationID:     entity.NewLocationID(in.LocationID),
		FromLocationID: entity.NewLocationID(in.FromLocationID),
		ToLocationID:   entity.NewLocationID(in.ToLocationID),
		Type:           in.Type,
		Quantity:       in.Quantity,
		UnitCost:       in.UnitCost,
		Reference:      in.Reference,
	})
	if err != nil {
		return nil, err
	}
	return &dto.RegisterMovementResponse{TransactionID: txID}, nil
}

// ToMovementResponse mapea un movimiento a su DTO.
func ToMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		LocationID:    m.LocationID.String(),
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		Reference:     m.Reference,
		Date:          m.Date,
	}
}
