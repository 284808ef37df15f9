package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/catalog"
	"github.com/jhoicas/pos-api/internal/application/dto"
	apppos "github.com/jhoicas/pos-api/internal/application/pos"
)

// POSHandler expone las sesiones de caja: sede, carrito, precios y checkout.
type POSHandler struct {
	uc *apppos.TerminalUseCase
}

// NewPOSHandler construye el handler.
func NewPOSHandler(uc *apppos.TerminalUseCase) *POSHandler {
	return &POSHandler{uc: uc}
}

func (h *POSHandler) respond(c *fiber.Ctx, v *apppos.SessionView, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(apppos.ToSessionResponse(v))
}

// Open godoc
// @Summary      Abrir sesión de caja
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.POSSessionResponse
// @Router       /api/pos/sessions [post]
func (h *POSHandler) Open(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	v := h.uc.OpenSession(companyID, GetUserID(c))
	return c.Status(fiber.StatusCreated).JSON(apppos.ToSessionResponse(v))
}

// Get GET /api/pos/sessions/:id
func (h *POSHandler) Get(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	v, err := h.uc.GetSession(companyID, c.Params("id"))
	return h.respond(c, v, err)
}

// Close DELETE /api/pos/sessions/:id
func (h *POSHandler) Close(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	if err := h.uc.CloseSession(companyID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Locations GET /api/pos/locations. Sedes disponibles en el backend de la caja.
func (h *POSHandler) Locations(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	list, err := h.uc.ListLocations(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *catalog.ToLocationResponse(l))
	}
	return c.JSON(out)
}

// Products GET /api/pos/products?q=&limit=. Búsqueda con stock por sede.
func (h *POSHandler) Products(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	list, err := h.uc.SearchProducts(c.UserContext(), companyID, c.Query("q"), c.QueryInt("limit", 20))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *catalog.ToProductResponse(p))
	}
	return c.JSON(out)
}

// SelectLocation godoc
// @Summary      Seleccionar sede de la sesión
// @Description  Según la política configurada el carrito se vacía o se revalida contra el stock de la nueva sede.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sesión"
// @Param        body  body  dto.POSSelectLocationRequest  true  "location_id"
// @Success      200   {object}  dto.POSSessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id}/location [put]
func (h *POSHandler) SelectLocation(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	var in dto.POSSelectLocationRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	v, err := h.uc.SelectLocation(c.UserContext(), companyID, c.Params("id"), in.LocationID)
	return h.respond(c, v, err)
}

// AddItem godoc
// @Summary      Agregar producto al carrito
// @Description  Por product_id o barcode. Si ya está en el carrito suma una unidad, sin superar el stock de la sede.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sesión"
// @Param        body  body  dto.POSAddItemRequest  true  "product_id o barcode"
// @Success      200   {object}  dto.POSSessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id}/items [post]
func (h *POSHandler) AddItem(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	var in dto.POSAddItemRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	v, err := h.uc.AddItem(c.UserContext(), companyID, c.Params("id"), in.ProductID, in.Barcode)
	return h.respond(c, v, err)
}

// SetQuantity PUT /api/pos/sessions/:id/items/:productId. quantity <= 0 elimina la línea.
func (h *POSHandler) SetQuantity(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	var in dto.POSSetQuantityRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	v, err := h.uc.SetQuantity(c.UserContext(), companyID, c.Params("id"), c.Params("productId"), *in.Quantity)
	return h.respond(c, v, err)
}

// RemoveItem DELETE /api/pos/sessions/:id/items/:productId
func (h *POSHandler) RemoveItem(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	v, err := h.uc.RemoveItem(companyID, c.Params("id"), c.Params("productId"))
	return h.respond(c, v, err)
}

// SetLineDiscount PUT /api/pos/sessions/:id/items/:productId/discount
func (h *POSHandler) SetLineDiscount(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	var in dto.POSLineDiscountRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	v, err := h.uc.SetLineDiscount(companyID, c.Params("id"), c.Params("productId"), *in.DiscountPercent)
	return h.respond(c, v, err)
}

// SetPricing PUT /api/pos/sessions/:id/pricing
func (h *POSHandler) SetPricing(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	var in dto.POSPricingRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	v, err := h.uc.SetPricing(companyID, c.Params("id"), apppos.Pricing{
		TaxRatePercent:  in.TaxRatePercent,
		DiscountPercent: in.DiscountPercent,
	})
	return h.respond(c, v, err)
}

// SetDetails PUT /api/pos/sessions/:id/details
func (h *POSHandler) SetDetails(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	var in dto.POSOrderDetailsRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	details := apppos.OrderDetails{Notes: in.Notes, PaymentMethod: in.PaymentMethod}
	if in.Customer != nil {
		details.Customer = apppos.CustomerFromDTO(*in.Customer)
	}
	v, err := h.uc.SetOrderDetails(companyID, c.Params("id"), details)
	return h.respond(c, v, err)
}

// Reset POST /api/pos/sessions/:id/reset. Vacía el carrito.
func (h *POSHandler) Reset(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	v, err := h.uc.ResetCart(companyID, c.Params("id"))
	return h.respond(c, v, err)
}

// Checkout godoc
// @Summary      Enviar la venta
// @Description  Requiere sede, carrito no vacío y método de pago. Si el envío falla la sesión queda intacta y el mensaje del servidor se devuelve tal cual.
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      201  {object}  dto.POSCheckoutResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id}/checkout [post]
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	receipt, v, err := h.uc.Checkout(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.POSCheckoutResponse{
		Receipt: *apppos.ToReceiptDTO(receipt),
		Session: *apppos.ToSessionResponse(v),
	})
}
