package kardex

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ValidateAvailability verifica que una salida propuesta no exceda la
// existencia actual (movimientos confirmados a hoy). Es una pre-validación
// de lectura para insertar salidas nuevas; NO sustituye a Simulate, que
// valida las consecuencias de editar o eliminar historia.
func ValidateAvailability(movs []entity.Movement, sku string, requested decimal.Decimal, today time.Time) error {
	available := QuantityOnHand(movs, today)
	if requested.GreaterThan(available) {
		return &domain.InsufficientStockError{
			SKU:       sku,
			Available: available,
			Requested: requested,
		}
	}
	return nil
}
