// Package memory implementa los puertos de repositorio en memoria para las pruebas de los casos de uso.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/textnorm"
)

type stockKey struct {
	productID  string
	locationID entity.LocationID
}

type state struct {
	companies map[string]entity.Company
	users     map[string]entity.User
	products  map[string]entity.Product
	locations map[entity.LocationID]entity.Location
	stock     map[stockKey]entity.Stock
	movements []entity.InventoryMovement
	customers map[string]entity.Customer
	sales     map[string]entity.Sale
	saleItems map[string][]entity.SaleItem
}

func newState() state {
	return state{
		companies: map[string]entity.Company{},
		users:     map[string]entity.User{},
		products:  map[string]entity.Product{},
		locations: map[entity.LocationID]entity.Location{},
		stock:     map[stockKey]entity.Stock{},
		customers: map[string]entity.Customer{},
		sales:     map[string]entity.Sale{},
		saleItems: map[string][]entity.SaleItem{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	c.movements = append([]entity.InventoryMovement(nil), s.movements...)
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.saleItems {
		c.saleItems[k] = append([]entity.SaleItem(nil), v...)
	}
	return c
}

// Store guarda todas las tablas. Las transacciones toman el candado completo y restauran
// la copia previa si la función falla.
type Store struct {
	mu sync.Mutex
	st state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// access entrega el estado con el candado tomado; inTx indica que el llamador ya lo tiene.
type access struct {
	store *Store
	inTx  bool
}

func (a access) do(fn func(st *state) error) error {
	if !a.inTx {
		a.store.mu.Lock()
		defer a.store.mu.Unlock()
	}
	return fn(&a.store.st)
}

func (s *Store) direct() access { return access{store: s} }

// Products y los demás accesores devuelven repositorios sin transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s.direct()} }
func (s *Store) Locations() *LocationRepo { return &LocationRepo{s.direct()} }
func (s *Store) Stock() *StockRepo { return &StockRepo{s.direct()} }
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s.direct()} }
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s.direct()} }
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s.direct()} }
func (s *Store) Users() *UserRepo { return &UserRepo{s.direct()} }
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s.direct()} }
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s.direct()} }
func (s *Store) TxRunner() *TxRunner { return &TxRunner{store: s} }

// TxRunner ejecuta funciones con repos atados a una transacción en memoria.
type TxRunner struct {
	store *Store
}

func (r *TxRunner) run(fn func(a access) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snapshot := r.store.st.clone()
	if err := fn(access{store: r.store, inTx: true}); err != nil {
		r.store.st = snapshot
		return err
	}
	return nil
}

// Run transacción del motor de inventario.
func (r *TxRunner) Run(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(func(a access) error {
		return fn(&MovementRepo{a}, &StockRepo{a}, &ProductRepo{a})
	})
}

// RunSale transacción de registro de venta.
func (r *TxRunner) RunSale(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.run(func(a access) error {
		return fn(&MovementRepo{a}, &StockRepo{a}, &ProductRepo{a}, &SaleRepo{a})
	})
}

// ─── Productos ───────────────────────────────────────────────────────────────

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo repositorio de productos en memoria.
type ProductRepo struct{ a access }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.a.do(func(st *state) error {
		cp := *p
		cp.Inventory = nil
		st.products[p.ID] = cp
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = st.withStock(p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) find(match func(entity.Product) bool) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.do(func(st *state) error {
		for _, p := range st.products {
			if match(p) {
				out = st.withStock(p)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	return r.find(func(p entity.Product) bool { return p.CompanyID == companyID && p.SKU == sku })
}

func (r *ProductRepo) GetByCompanyAndBarcode(_ context.Context, companyID, barcode string) (*entity.Product, error) {
	return r.find(func(p entity.Product) bool {
		return p.CompanyID == companyID && barcode != "" && p.Barcode == barcode
	})
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.a.do(func(st *state) error {
		cp := *p
		cp.Inventory = nil
		st.products[p.ID] = cp
		return nil
	})
}

func (r *ProductRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	return r.a.do(func(st *state) error {
		p := st.products[productID]
		p.Cost = cost
		st.products[productID] = p
		return nil
	})
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.a.do(func(st *state) error {
		for _, p := range st.sortedProducts(companyID) {
			out = append(out, st.withStock(p))
		}
		return nil
	})
	return page(out, limit, offset), err
}

func (r *ProductRepo) Search(_ context.Context, companyID, query string, limit int) ([]*entity.Product, error) {
	q := textnorm.Fold(query)
	var out []*entity.Product
	err := r.a.do(func(st *state) error {
		for _, p := range st.sortedProducts(companyID) {
			if strings.Contains(textnorm.Join(p.Name, p.SKU, p.Barcode, p.Brand), q) {
				out = append(out, st.withStock(p))
			}
		}
		return nil
	})
	return page(out, limit, 0), err
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.a.do(func(st *state) error {
		delete(st.products, id)
		for k := range st.stock {
			if k.productID == id {
				delete(st.stock, k)
			}
		}
		return nil
	})
}

func (st *state) sortedProducts(companyID string) []entity.Product {
	var list []entity.Product
	for _, p := range st.products {
		if p.CompanyID == companyID {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (st *state) withStock(p entity.Product) *entity.Product {
	p.Inventory = nil
	p.TotalStock = 0
	for id, loc := range st.locations {
		if loc.CompanyID != p.CompanyID {
			continue
		}
		qty := st.stock[stockKey{productID: p.ID, locationID: id}].Quantity
		p.Inventory = append(p.Inventory, entity.LocationStock{LocationID: id, Quantity: qty})
		p.TotalStock += qty
	}
	sort.Slice(p.Inventory, func(i, j int) bool { return p.Inventory[i].LocationID < p.Inventory[j].LocationID })
	return &p
}

// ─── Sedes ───────────────────────────────────────────────────────────────────

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo repositorio de sedes en memoria.
type LocationRepo struct{ a access }

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.a.do(func(st *state) error {
		st.locations[l.ID] = *l
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id entity.LocationID) (*entity.Location, error) {
	var out *entity.Location
	err := r.a.do(func(st *state) error {
		if l, ok := st.locations[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	return r.Create(ctx, l)
}

func (r *LocationRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.a.do(func(st *state) error {
		for _, l := range st.locations {
			if l.CompanyID == companyID {
				l := l
				out = append(out, &l)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

func (r *LocationRepo) Delete(_ context.Context, id entity.LocationID) error {
	return r.a.do(func(st *state) error {
		delete(st.locations, id)
		return nil
	})
}

// ─── Stock ───────────────────────────────────────────────────────────────────

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo repositorio de stock por sede en memoria.
type StockRepo struct{ a access }

func (r *StockRepo) Get(_ context.Context, productID string, locationID entity.LocationID) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.a.do(func(st *state) error {
		s, ok := st.stock[stockKey{productID, locationID}]
		if !ok {
			s = entity.Stock{ProductID: productID, LocationID: locationID}
		}
		out = &s
		return nil
	})
	return out, err
}

// GetForUpdate igual que Get: el candado del almacén ya serializa la transacción.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string, locationID entity.LocationID) (*entity.Stock, error) {
	return r.Get(ctx, productID, locationID)
}

func (r *StockRepo) Upsert(_ context.Context, s *entity.Stock) error {
	return r.a.do(func(st *state) error {
		st.stock[stockKey{s.ProductID, s.LocationID}] = *s
		return nil
	})
}

func (r *StockRepo) ListByProducts(_ context.Context, productIDs []string) (map[string][]entity.LocationStock, error) {
	out := make(map[string][]entity.LocationStock, len(productIDs))
	err := r.a.do(func(st *state) error {
		for _, id := range productIDs {
			if p, ok := st.products[id]; ok {
				out[id] = st.withStock(p).Inventory
			}
		}
		return nil
	})
	return out, err
}

// ─── Movimientos ─────────────────────────────────────────────────────────────

var _ repository.InventoryMovementRepository = (*MovementRepo)(nil)

// MovementRepo repositorio de movimientos en memoria.
type MovementRepo struct{ a access }

func (r *MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	return r.a.do(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	return r.first(func(m entity.InventoryMovement) bool { return m.ID == id })
}

func (r *MovementRepo) first(match func(entity.InventoryMovement) bool) (*entity.InventoryMovement, error) {
	list, err := r.filter(match)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// filter devuelve los movimientos que cumplen match, del más reciente al más antiguo.
func (r *MovementRepo) filter(match func(entity.InventoryMovement) bool) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	err := r.a.do(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			if m := st.movements[i]; match(m) {
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func inRange(t time.Time, from, to *time.Time) bool {
	return (from == nil || !t.Before(*from)) && (to == nil || !t.After(*to))
}

func (r *MovementRepo) ListByLocation(_ context.Context, locationID entity.LocationID, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	list, err := r.filter(func(m entity.InventoryMovement) bool {
		return m.LocationID == locationID && inRange(m.Date, from, to)
	})
	return page(list, limit, offset), err
}

func (r *MovementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	list, err := r.filter(func(m entity.InventoryMovement) bool {
		return m.ProductID == productID && inRange(m.Date, from, to)
	})
	return page(list, limit, offset), err
}

func (r *MovementRepo) ListRecentByCompany(_ context.Context, companyID string, limit int) ([]*entity.InventoryMovement, error) {
	list, err := r.filter(func(m entity.InventoryMovement) bool {
		return m.CompanyID == companyID && m.Type != entity.MovementTypeSALE
	})
	return page(list, limit, 0), err
}

// ─── Ventas ──────────────────────────────────────────────────────────────────

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo repositorio de ventas en memoria.
type SaleRepo struct{ a access }

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.a.do(func(st *state) error {
		for _, other := range st.sales {
			if other.CompanyID == s.CompanyID && other.Number == s.Number {
				return domain.ErrDuplicate
			}
		}
		st.sales[s.ID] = *s
		return nil
	})
}

func (r *SaleRepo) CreateItem(_ context.Context, it *entity.SaleItem) error {
	return r.a.do(func(st *state) error {
		st.saleItems[it.SaleID] = append(st.saleItems[it.SaleID], *it)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.a.do(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetItemsBySaleID(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	err := r.a.do(func(st *state) error {
		for _, it := range st.saleItems[saleID] {
			it := it
			out = append(out, &it)
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	var out []*entity.Sale
	err := r.a.do(func(st *state) error {
		for _, s := range st.sales {
			if s.CompanyID != f.CompanyID || !inRange(s.CreatedAt, f.From, f.To) {
				continue
			}
			if !f.LocationID.IsZero() && s.LocationID != f.LocationID {
				continue
			}
			s := s
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Limit, f.Offset), len(out), err
}

// ─── Clientes ────────────────────────────────────────────────────────────────

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo repositorio de clientes en memoria.
type CustomerRepo struct{ a access }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.a.do(func(st *state) error {
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.a.do(func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.a.do(func(st *state) error {
		for _, c := range st.customers {
			if c.CompanyID == companyID && taxID != "" && c.TaxID == taxID {
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) ListByCompany(_ context.Context, companyID, search string, limit, offset int) ([]*entity.Customer, error) {
	q := textnorm.Fold(search)
	var out []*entity.Customer
	err := r.a.do(func(st *state) error {
		for _, c := range st.customers {
			if c.CompanyID != companyID {
				continue
			}
			if q != "" && !strings.Contains(textnorm.Join(c.Name, c.Email, c.Contact), q) {
				continue
			}
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	return r.Create(ctx, c)
}

// ─── Usuarios y empresas ─────────────────────────────────────────────────────

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
)

// UserRepo repositorio de usuarios en memoria.
type UserRepo struct{ a access }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.a.do(func(st *state) error {
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepo) GetByEmailAndCompany(_ context.Context, email, companyID string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.CompanyID == companyID && strings.EqualFold(u.Email, email) })
}

func (r *UserRepo) find(match func(entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := r.a.do(func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

// CompanyRepo repositorio de empresas en memoria.
type CompanyRepo struct{ a access }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.a.do(func(st *state) error {
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.a.do(func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Company, error) {
	var out *entity.Company
	err := r.a.do(func(st *state) error {
		for _, c := range st.companies {
			if c.TaxID == taxID {
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
