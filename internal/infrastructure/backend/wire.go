package backend

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// flexInt cantidad tolerante: null, ausente, string o número con decimales se decodifican
// sin error; lo que no se puede interpretar queda en 0.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	*n = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*n = flexInt(f)
	return nil
}

// locationRef referencia a una sede: objeto embebido ({_id, name}) o id plano.
type locationRef struct {
	ID   entity.LocationID
	Name string
}

func (r *locationRef) UnmarshalJSON(b []byte) error {
	*r = locationRef{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		r.ID = entity.NewLocationID(s)
		return nil
	}
	var obj locationJSON
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil
	}
	r.ID = entity.NewLocationID(obj.id())
	r.Name = obj.Name
	return nil
}

type locationJSON struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (l locationJSON) id() string {
	if l.MongoID != "" {
		return l.MongoID
	}
	return l.ID
}

func (l locationJSON) toEntity(companyID string) *entity.Location {
	return &entity.Location{ID: entity.NewLocationID(l.id()), CompanyID: companyID, Name: l.Name, Address: l.Address}
}

type inventoryJSON struct {
	Location locationRef `json:"location"`
	Quantity flexInt     `json:"quantity"`
}

type productJSON struct {
	MongoID      string           `json:"_id"`
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	SKU          string           `json:"sku"`
	Barcode      string           `json:"barcode"`
	Brand        string           `json:"brand"`
	Category     json.RawMessage  `json:"category"`
	Description  string           `json:"description"`
	SellingPrice *decimal.Decimal `json:"sellingPrice"`
	Price        *decimal.Decimal `json:"price"`
	Inventory    []inventoryJSON  `json:"inventory"`
	TotalStock   flexInt          `json:"totalStock"`
}

// toEntity convierte el producto remoto. sellingPrice tiene prioridad sobre price.
func (p productJSON) toEntity(companyID string) *entity.Product {
	id := p.MongoID
	if id == "" {
		id = p.ID
	}
	price := decimal.Zero
	switch {
	case p.SellingPrice != nil:
		price = *p.SellingPrice
	case p.Price != nil:
		price = *p.Price
	}
	out := &entity.Product{
		ID:          id,
		CompanyID:   companyID,
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Category:    categoryName(p.Category),
		Price:       price,
		TotalStock:  int(p.TotalStock),
	}
	for _, inv := range p.Inventory {
		if inv.Location.ID.IsZero() {
			continue
		}
		out.Inventory = append(out.Inventory, entity.LocationStock{LocationID: inv.Location.ID, Quantity: int(inv.Quantity)})
	}
	return out
}

// categoryName acepta la categoría como string o como objeto {name}.
func categoryName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(raw, &obj)
	return obj.Name
}

// ── Venta ─────────────────────────────────────────────────────────────────────

// Los montos de la venta viajan como números JSON (json.Number), no como strings.
type saleItemJSON struct {
	Product   string      `json:"product"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice"`
	Discount  json.Number `json:"discount"`
}

type customerJSON struct {
	ID      string `json:"_id,omitempty"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
}

type saleRequestJSON struct {
	Items         []saleItemJSON `json:"items"`
	Customer      customerJSON   `json:"customer"`
	PaymentMethod string         `json:"paymentMethod"`
	Location      string         `json:"location"`
	Notes         string         `json:"notes"`
	TaxRate       json.Number    `json:"taxRate"`
	Discount      json.Number    `json:"discount"`
}

func number(d decimal.Decimal) json.Number { return json.Number(d.String()) }

type saleResponseJSON struct {
	MongoID    string           `json:"_id"`
	ID         string           `json:"id"`
	SaleNumber string           `json:"saleNumber"`
	Number     string           `json:"number"`
	Subtotal   *decimal.Decimal `json:"subtotal"`
	Tax        *decimal.Decimal `json:"tax"`
	Discount   *decimal.Decimal `json:"discount"`
	Total      *decimal.Decimal `json:"total"`
	CreatedAt  string           `json:"createdAt"`
}

// errorJSON sobre de error del servidor: {message} o {error}.
type errorJSON struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e errorJSON) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// unwrapData devuelve el contenido de {data: ...} si la respuesta viene envuelta.
func unwrapData(body []byte, keys ...string) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return body
	}
	var env map[string]json.RawMessage
	if json.Unmarshal(trimmed, &env) != nil {
		return body
	}
	for _, k := range append([]string{"data"}, keys...) {
		if v, ok := env[k]; ok && len(v) > 0 && string(v) != "null" {
			return unwrapData(v, keys...)
		}
	}
	return body
}
