// Package backend implementa los puertos del POS contra una API REST externa
// (catálogo, sedes y registro de ventas).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apppos "github.com/jhoicas/pos-api/internal/application/pos"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domainpos "github.com/jhoicas/pos-api/internal/domain/pos"
)

var (
	_ apppos.CatalogReader  = (*Client)(nil)
	_ apppos.LocationReader = (*Client)(nil)
	_ apppos.SalesGateway   = (*Client)(nil)
)

const maxBodyBytes = 4 << 20

// Config parámetros del cliente. Timeout 0 deja el default del transporte.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client cliente REST tipado. Seguro para uso concurrente.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
	log   zerolog.Logger
}

// NewClient construye el cliente. El transporte propaga el contexto de traza (otelhttp).
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("backend: BACKEND_URL es requerido")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: url inválida: %w", err)
	}
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "backend " + r.Method + " " + r.URL.Path
		}),
	)
	return &Client{
		base:  base,
		token: cfg.Token,
		http:  &http.Client{Transport: transport, Timeout: cfg.Timeout},
		log:   log.With().Str("component", "backend").Logger(),
	}, nil
}

// httpError respuesta no 2xx con el mensaje del servidor.
type httpError struct {
	Status  int
	Message string
}

func (e *httpError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do ejecuta la petición y devuelve el cuerpo de una respuesta 2xx.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("backend: serializar petición: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("backend: crear petición: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("backend: leer respuesta: %w", err)
	}
	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env errorJSON
		_ = json.Unmarshal(raw, &env)
		return nil, &httpError{Status: resp.StatusCode, Message: env.text()}
	}
	return raw, nil
}

// readErr traduce 404 a domain.ErrNotFound.
func readErr(err error) error {
	var he *httpError
	if errors.As(err, &he) && he.Status == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return err
}

// ── CatalogReader ────────────────────────────────────────────────────────────

// GetProduct GET /api/products/:id.
func (c *Client) GetProduct(ctx context.Context, companyID, productID string) (*entity.Product, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID), nil, nil)
	if err != nil {
		return nil, readErr(err)
	}
	var p productJSON
	if err := json.Unmarshal(unwrapData(raw, "product"), &p); err != nil {
		return nil, fmt.Errorf("backend: decodificar producto: %w", err)
	}
	if p.MongoID == "" && p.ID == "" {
		return nil, domain.ErrNotFound
	}
	return p.toEntity(companyID), nil
}

func (c *Client) listProducts(ctx context.Context, companyID string, query url.Values) ([]*entity.Product, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/products", query, nil)
	if err != nil {
		return nil, readErr(err)
	}
	var list []productJSON
	if err := json.Unmarshal(unwrapData(raw, "products", "items"), &list); err != nil {
		return nil, fmt.Errorf("backend: decodificar productos: %w", err)
	}
	out := make([]*entity.Product, 0, len(list))
	for _, p := range list {
		out = append(out, p.toEntity(companyID))
	}
	return out, nil
}

// FindByBarcode GET /api/products?barcode=...; exige coincidencia exacta.
func (c *Client) FindByBarcode(ctx context.Context, companyID, barcode string) (*entity.Product, error) {
	list, err := c.listProducts(ctx, companyID, url.Values{"barcode": {barcode}})
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// SearchProducts GET /api/products?search=...&limit=...
func (c *Client) SearchProducts(ctx context.Context, companyID, query string, limit int) ([]*entity.Product, error) {
	q := url.Values{"search": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	list, err := c.listProducts(ctx, companyID, q)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// ── LocationReader ───────────────────────────────────────────────────────────

// ListLocations GET /api/locations.
func (c *Client) ListLocations(ctx context.Context, companyID string) ([]*entity.Location, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/locations", nil, nil)
	if err != nil {
		return nil, readErr(err)
	}
	var list []locationJSON
	if err := json.Unmarshal(unwrapData(raw, "locations", "items"), &list); err != nil {
		return nil, fmt.Errorf("backend: decodificar sedes: %w", err)
	}
	out := make([]*entity.Location, 0, len(list))
	for _, l := range list {
		if l.id() == "" {
			continue
		}
		out = append(out, l.toEntity(companyID))
	}
	return out, nil
}

// GetLocation busca la sede en el listado (la API de sedes no expone lectura individual).
func (c *Client) GetLocation(ctx context.Context, companyID string, id entity.LocationID) (*entity.Location, error) {
	list, err := c.ListLocations(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for _, l := range list {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ── SalesGateway ─────────────────────────────────────────────────────────────

// SubmitSale POST /api/sales. Se llama una sola vez; cualquier fallo se devuelve como
// *domain.SubmissionError con el mensaje del servidor.
func (c *Client) SubmitSale(ctx context.Context, order domainpos.SaleOrder) (*domainpos.Receipt, error) {
	payload := saleRequestJSON{
		Items:         make([]saleItemJSON, 0, len(order.Items)),
		Customer:      customerJSON{ID: order.Customer.ID, Name: order.Customer.Name, Contact: order.Customer.Contact, Email: order.Customer.Email},
		PaymentMethod: order.PaymentMethod,
		Location:      order.LocationID.String(),
		Notes:         order.Notes,
		TaxRate:       number(order.TaxRatePercent),
		Discount:      number(order.DiscountPercent),
	}
	for _, it := range order.Items {
		payload.Items = append(payload.Items, saleItemJSON{
			Product:   it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: number(it.UnitPrice),
			Discount:  number(it.DiscountPercent),
		})
	}

	raw, err := c.do(ctx, http.MethodPost, "/api/sales", nil, payload)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			return nil, &domain.SubmissionError{Message: he.Message, Err: err}
		}
		return nil, &domain.SubmissionError{Message: err.Error(), Err: err}
	}

	// Un 2xx significa venta registrada aunque el cuerpo no se pueda leer.
	var res saleResponseJSON
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(unwrapData(raw, "sale"), &res); err != nil {
			c.log.Warn().Err(err).Msg("respuesta de venta sin cuerpo legible, se asume registrada")
		}
	}
	return res.toReceipt(), nil
}

func (r saleResponseJSON) toReceipt() *domainpos.Receipt {
	out := &domainpos.Receipt{SaleID: r.MongoID, Number: r.SaleNumber}
	if out.SaleID == "" {
		out.SaleID = r.ID
	}
	if out.Number == "" {
		out.Number = r.Number
	}
	if r.Subtotal != nil {
		out.Subtotal = *r.Subtotal
	}
	if r.Tax != nil {
		out.TaxAmount = *r.Tax
	}
	if r.Discount != nil {
		out.DiscountAmount = *r.Discount
	}
	if r.Total != nil {
		out.GrandTotal = *r.Total
	}
	if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		out.CreatedAt = t
	}
	return out
}
