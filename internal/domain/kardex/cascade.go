package kardex

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// CurrencyPrecision decimales de la moneda base al persistir costos.
const CurrencyPrecision = 2

// CostRewrite costo recalculado de una salida, listo para persistir.
type CostRewrite struct {
	MovementID int64
	UnitCost   decimal.Decimal // redondeado a CurrencyPrecision
}

// accumulator estado acumulado del replay. Valor inmutable por paso: cada
// aplicación devuelve un acumulador nuevo.
type accumulator struct {
	entryQty   decimal.Decimal
	entryValue decimal.Decimal
	exitQty    decimal.Decimal
	exitValue  decimal.Decimal
}

func newAccumulator() accumulator {
	return accumulator{
		entryQty:   decimal.Zero,
		entryValue: decimal.Zero,
		exitQty:    decimal.Zero,
		exitValue:  decimal.Zero,
	}
}

// stock existencia corriente (entradas - salidas).
func (a accumulator) stock() decimal.Decimal {
	return a.entryQty.Sub(a.exitQty)
}

// value valor corriente del inventario.
func (a accumulator) value() decimal.Decimal {
	return a.entryValue.Sub(a.exitValue)
}

// wac costo promedio ponderado corriente; 0 si no hay existencia.
func (a accumulator) wac() decimal.Decimal {
	s := a.stock()
	if s.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return a.value().Div(s)
}

func (a accumulator) addEntry(qty, unitCost decimal.Decimal) accumulator {
	a.entryQty = a.entryQty.Add(qty)
	a.entryValue = a.entryValue.Add(qty.Mul(unitCost))
	return a
}

func (a accumulator) addExit(qty, unitCost decimal.Decimal) accumulator {
	a.exitQty = a.exitQty.Add(qty)
	a.exitValue = a.exitValue.Add(qty.Mul(unitCost))
	return a
}

// Recalculate reconstruye el estado del libro hasta pivotID (inclusive) y
// rederiva el costo de cada salida posterior, en orden de ID ascendente.
//
// Prefijo (ID <= pivot): acumula cantidades y valores usando el costo
// almacenado de cada movimiento, tal cual está en el libro.
//
// Cascada (ID > pivot): una entrada suma su cantidad y valor declarados (su
// costo nunca se altera); una salida toma el promedio vigente, se reescribe
// redondeado a 2 decimales, y el acumulador avanza con el promedio SIN
// redondear. El redondeo existe solo en la frontera de persistencia: las
// salidas sucesivas componen sobre la precisión intermedia completa.
//
// Devuelve una reescritura por CADA salida posterior al pivote, incluso si el
// costo nuevo coincide con el almacenado; la escritura siempre ocurre. Con el
// mismo libro y pivote el resultado es idéntico en corridas sucesivas.
func Recalculate(movs []entity.Movement, pivotID int64) []CostRewrite {
	acc := newAccumulator()

	// Prefijo: estado exacto del libro al momento del pivote.
	for _, m := range movs {
		if m.ID > pivotID {
			continue
		}
		if m.IsEntry() {
			acc = acc.addEntry(m.Quantity, m.UnitCost)
		} else {
			acc = acc.addExit(m.Quantity, m.UnitCost)
		}
	}

	// Cascada hacia adelante.
	rewrites := []CostRewrite{}
	for _, m := range movs {
		if m.ID <= pivotID {
			continue
		}
		if m.IsEntry() {
			acc = acc.addEntry(m.Quantity, m.UnitCost)
			continue
		}
		wac := acc.wac()
		rewrites = append(rewrites, CostRewrite{
			MovementID: m.ID,
			UnitCost:   wac.Round(CurrencyPrecision),
		})
		acc = acc.addExit(m.Quantity, wac)
	}
	return rewrites
}
