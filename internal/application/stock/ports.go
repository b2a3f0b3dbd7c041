package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateProvider entrega la cotización BRL→USD (PTAX) para una fecha dada.
// Devuelve domain.ErrRateUnavailable cuando el proveedor no tiene cotización
// (fin de semana, feriado o servicio caído).
type RateProvider interface {
	USDRate(date time.Time) (decimal.Decimal, error)
}
