package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/pkg/validate"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Orden: los errores más específicos primero.
var errorMappings = []errorMapping{
	{domain.ErrSubmissionFailed, fiber.StatusBadGateway, "SUBMISSION_FAILED"},
	{domain.ErrStockLimitExceeded, fiber.StatusConflict, "STOCK_LIMIT_EXCEEDED"},
	{domain.ErrOutOfStock, fiber.StatusConflict, "OUT_OF_STOCK"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrSubmissionInProgress, fiber.StatusConflict, "SUBMISSION_IN_PROGRESS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrLocationRequired, fiber.StatusUnprocessableEntity, "LOCATION_REQUIRED"},
	{domain.ErrCartEmpty, fiber.StatusUnprocessableEntity, "CART_EMPTY"},
	{domain.ErrPaymentMethodRequired, fiber.StatusUnprocessableEntity, "PAYMENT_METHOD_REQUIRED"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
}

// writeError traduce un error de dominio a la respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var verr *validate.Error
	if errors.As(err, &verr) {
		fields := make(map[string]string, len(verr.Fields))
		for _, f := range verr.Fields {
			fields[f.Field] = f.Message
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error(), Fields: fields})
	}
	var subErr *domain.SubmissionError
	if errors.As(err, &subErr) {
		status := fiber.StatusBadGateway
		code := "SUBMISSION_FAILED"
		for _, m := range errorMappings[1:] {
			if errors.Is(subErr.Err, m.target) {
				status, code = m.status, m.code
				break
			}
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: subErr.Message})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// bind decodifica el JSON del body y lo valida. Si falla ya escribió la respuesta y ok es false.
func bind(c *fiber.Ctx, out any) (ok bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		return false, writeError(c, err)
	}
	return true, nil
}

// tenant devuelve la empresa del token. Si falta ya escribió 401 y ok es false.
func tenant(c *fiber.Ctx) (companyID string, ok bool, err error) {
	companyID = GetCompanyID(c)
	if companyID == "" {
		return "", false, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id no encontrado en el token"})
	}
	return companyID, true, nil
}
