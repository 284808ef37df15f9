package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/catalog"
	"github.com/jhoicas/pos-api/internal/application/dto"
)

// CodeRenderer genera imágenes PNG de códigos de barras y QR.
type CodeRenderer interface {
	Barcode(content string, width, height int) ([]byte, string, error)
	QR(content string, size int) ([]byte, error)
}

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc    *catalog.ProductUseCase
	codes CodeRenderer
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase, codes CodeRenderer) *ProductHandler {
	return &ProductHandler{uc: uc, codes: codes}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	var in dto.CreateProductRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID con su stock por sede
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Description  Con ?barcode= devuelve solo el producto con ese código exacto.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit    query  int     false  "Límite"   default(20)
// @Param        offset   query  int     false  "Offset"   default(0)
// @Param        barcode  query  string  false  "Código de barras exacto"
// @Success      200      {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	if code := c.Query("barcode"); code != "" {
		p, err := h.uc.FindByBarcode(c.UserContext(), companyID, code)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.ProductListResponse{
			Items: []dto.ProductResponse{*catalog.ToProductResponse(p)},
			Page:  dto.PageResponse{Limit: 1, Total: 1},
		})
	}
	out, err := h.uc.List(c.UserContext(), companyID, pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Búsqueda rápida de productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  true   "Nombre, SKU o código de barras"
// @Param        limit  query  int     false  "Límite"  default(20)
// @Success      200    {array}  dto.ProductResponse
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	list, err := h.uc.Search(c.UserContext(), companyID, c.Query("q"), c.QueryInt("limit", 20))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *catalog.ToProductResponse(p))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	var in dto.UpdateProductRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), companyID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BarcodePNG godoc
// @Summary      Código de barras del producto
// @Description  EAN-13/EAN-8 si el código es numérico con dígito de control válido; si no, Code128. Sin código usa el SKU.
// @Tags         products
// @Security     Bearer
// @Produce      png
// @Param        id  path   string  true   "ID del producto"
// @Param        w   query  int     false  "Ancho en px"
// @Param        h   query  int     false  "Alto en px"
// @Success      200
// @Router       /api/products/{id}/barcode.png [get]
func (h *ProductHandler) BarcodePNG(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	p, err := h.uc.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	content := p.Barcode
	if content == "" {
		content = p.SKU
	}
	png, format, err := h.codes.Barcode(content, c.QueryInt("w", 0), c.QueryInt("h", 0))
	if err != nil {
		return writeError(c, err)
	}
	c.Set("X-Barcode-Format", format)
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// QRPNG GET /api/products/:id/qr.png?size=256. El QR codifica el ID del producto.
func (h *ProductHandler) QRPNG(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	p, err := h.uc.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	png, err := h.codes.QR(p.ID, c.QueryInt("size", 0))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
