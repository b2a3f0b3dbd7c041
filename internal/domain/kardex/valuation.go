// Package kardex implementa el motor de valuación a costo promedio ponderado:
// valuación a una fecha, estimación de consumo, simulación de mutaciones y
// cascada de recálculo de costos. Todas las funciones son puras sobre el libro
// de movimientos de UN SKU ordenado por ID ascendente; la persistencia queda
// en manos del caso de uso que las invoca.
package kardex

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// onOrBefore reporta si la fecha del movimiento es menor o igual a asOf
// comparando solo la parte de fecha (año, mes, día).
func onOrBefore(d, asOf time.Time) bool {
	dy, dm, dd := d.Date()
	ay, am, ad := asOf.Date()
	if dy != ay {
		return dy < ay
	}
	if dm != am {
		return dm < am
	}
	return dd <= ad
}

// QuantityOnHand calcula la existencia de un SKU a una fecha:
// suma de entradas menos suma de salidas con fecha <= asOf.
func QuantityOnHand(movs []entity.Movement, asOf time.Time) decimal.Decimal {
	qty := decimal.Zero
	for _, m := range movs {
		if !onOrBefore(m.OccurredOn, asOf) {
			continue
		}
		if m.IsEntry() {
			qty = qty.Add(m.Quantity)
		} else {
			qty = qty.Sub(m.Quantity)
		}
	}
	return qty
}

// WeightedAverageCost calcula el costo promedio ponderado a una fecha:
// (valor de entradas - valor de salidas) / existencia. Si la existencia es
// cero o negativa el promedio se define como 0.
func WeightedAverageCost(movs []entity.Movement, asOf time.Time) decimal.Decimal {
	qty := decimal.Zero
	value := decimal.Zero
	for _, m := range movs {
		if !onOrBefore(m.OccurredOn, asOf) {
			continue
		}
		if m.IsEntry() {
			qty = qty.Add(m.Quantity)
			value = value.Add(m.Quantity.Mul(m.UnitCost))
		} else {
			qty = qty.Sub(m.Quantity)
			value = value.Sub(m.Quantity.Mul(m.UnitCost))
		}
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return value.Div(qty)
}

// LastEntryCost devuelve el costo unitario de la última entrada (por ID) con
// fecha <= asOf, o 0 si no hay entradas en ese rango.
func LastEntryCost(movs []entity.Movement, asOf time.Time) decimal.Decimal {
	cost := decimal.Zero
	for _, m := range movs {
		if m.IsEntry() && onOrBefore(m.OccurredOn, asOf) {
			cost = m.UnitCost
		}
	}
	return cost
}
