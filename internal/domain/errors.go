package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// Errores del carrito POS. Ninguno es fatal: la operación se rechaza y el estado previo se conserva.
var (
	ErrStockLimitExceeded    = errors.New("la cantidad supera el stock disponible en la sede")
	ErrOutOfStock            = errors.New("producto sin stock en la sede seleccionada")
	ErrLocationRequired      = errors.New("debe seleccionar una sede")
	ErrCartEmpty             = errors.New("el carrito está vacío")
	ErrPaymentMethodRequired = errors.New("debe seleccionar un método de pago")
	ErrSubmissionInProgress  = errors.New("hay una venta en proceso de envío")
	ErrSubmissionFailed      = errors.New("no se pudo registrar la venta")
)

// SubmissionError envuelve el fallo del Sales API. Message es el texto del servidor y se muestra tal cual.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ErrSubmissionFailed.Error()
}

// Unwrap permite errors.Is(err, ErrSubmissionFailed) y llegar a la causa original.
func (e *SubmissionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSubmissionFailed, e.Err}
	}
	return []error{ErrSubmissionFailed}
}
