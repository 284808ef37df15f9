package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/textnorm"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, company_id, name, contact, email, tax_id, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func customerSearchText(c *entity.Customer) string {
	return textnorm.Join(c.Name, c.Email, c.Contact)
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`, search_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.CompanyID, c.Name, c.Contact, c.Email, nullIfEmpty(c.TaxID),
		c.CreatedAt, c.UpdatedAt, customerSearchText(c),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var (
		c     entity.Customer
		taxID *string
	)
	if err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Contact, &c.Email, &taxID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.TaxID = derefString(taxID)
	return &c, nil
}

func (r *CustomerRepo) getOne(ctx context.Context, what, where string, args ...any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return c, nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.getOne(ctx, "get customer", `id = $1`, id)
}

// GetByCompanyAndTaxID obtiene un cliente por empresa y documento.
func (r *CustomerRepo) GetByCompanyAndTaxID(ctx context.Context, companyID, taxID string) (*entity.Customer, error) {
	return r.getOne(ctx, "get customer by tax id", `company_id = $1 AND tax_id = $2`, companyID, taxID)
}

// ListByCompany lista clientes por nombre; search filtra por nombre, email o contacto sin tildes.
func (r *CustomerRepo) ListByCompany(ctx context.Context, companyID, search string, limit, offset int) ([]*entity.Customer, error) {
	pattern := "%" + escapeLike(textnorm.Fold(search)) + "%"
	rows, err := r.q.Query(ctx, `
		SELECT `+customerColumns+` FROM customers
		WHERE company_id = $1 AND search_text LIKE $2 ESCAPE '\'
		ORDER BY name, id LIMIT $3 OFFSET $4`,
		companyID, pattern, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos del cliente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		UPDATE customers SET name = $2, contact = $3, email = $4, tax_id = $5, search_text = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Name, c.Contact, c.Email, nullIfEmpty(c.TaxID), customerSearchText(c), c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}
