package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrItemNotFound       = errors.New("artículo no encontrado")
	ErrMovementNotFound   = errors.New("movimiento no encontrado")
	ErrSupplierNotFound   = errors.New("proveedor no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrItemReferenced     = errors.New("el artículo tiene movimientos asociados")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrRateUnavailable    = errors.New("cotización de moneda no disponible")
)

// InsufficientStockError indica que una salida solicitada excede las
// existencias actuales. Recuperable: el usuario ajusta la cantidad.
type InsufficientStockError struct {
	SKU       string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %s, solicitado %s",
		e.SKU, e.Available.String(), e.Requested.String())
}

// NegativeStockError indica que una edición o eliminación hipotética dejaría
// el stock negativo en algún punto del libro. FirstViolationID es el primer
// movimiento donde el saldo simulado se vuelve negativo.
type NegativeStockError struct {
	SKU              string
	FirstViolationID int64
	FinalBalance     decimal.Decimal
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("la operación dejaría stock negativo (%s) tras el movimiento %d",
		e.FinalBalance.String(), e.FirstViolationID)
}
