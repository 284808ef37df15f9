package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, company_id, transaction_id, product_id, location_id, type, quantity, unit_cost, total_cost, reference, date, created_at, created_by`

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.TransactionID, m.ProductID, m.LocationID.String(),
		m.Type, m.Quantity, m.UnitCost, m.TotalCost, m.Reference,
		m.Date, m.CreatedAt, nullIfEmpty(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var (
		m         entity.InventoryMovement
		createdBy *string
	)
	if err := row.Scan(&m.ID, &m.CompanyID, &m.TransactionID, &m.ProductID, &m.LocationID, &m.Type,
		&m.Quantity, &m.UnitCost, &m.TotalCost, &m.Reference, &m.Date, &m.CreatedAt, &createdBy); err != nil {
		return nil, err
	}
	m.CreatedBy = derefString(createdBy)
	return &m, nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// listFiltered arma la consulta con el filtro principal y el rango de fechas opcional.
func (r *InventoryMovementRepo) listFiltered(ctx context.Context, column, value string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE ` + column + ` = $1`
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limitArg(limit), offset)
	return r.query(ctx, query, args...)
}

func (r *InventoryMovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByLocation lista movimientos de una sede en un rango de fechas.
func (r *InventoryMovementRepo) ListByLocation(ctx context.Context, locationID entity.LocationID, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	return r.listFiltered(ctx, "location_id", locationID.String(), from, to, limit, offset)
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	return r.listFiltered(ctx, "product_id", productID, from, to, limit, offset)
}

// ListRecentByCompany últimos movimientos manuales de la empresa (excluye ventas).
func (r *InventoryMovementRepo) ListRecentByCompany(ctx context.Context, companyID string, limit int) ([]*entity.InventoryMovement, error) {
	return r.query(ctx, `
		SELECT `+movementColumns+` FROM inventory_movements
		WHERE company_id = $1 AND type <> 'SALE'
		ORDER BY created_at DESC LIMIT $2`, companyID, limitArg(limit))
}
