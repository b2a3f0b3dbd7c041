package kardex

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Ventana para el cálculo de consumo promedio.
const (
	ConsumptionWindowDays   = 90
	ConsumptionWindowMonths = 3
)

// Categorías fijas de la estimación de consumo.
const (
	EstimateNoStock       = "Sin stock"
	EstimateNoConsumption = "Sin consumo reciente"
	EstimateLessThanDay   = "Menos de 1 día"
)

// EstimateConsumption estima cuánto durará la existencia actual de un SKU
// según la velocidad de salidas de los últimos 3 meses.
//
// daily = Σ salidas en [asOf - 3 meses, asOf] / 90. Con existencia <= 0 la
// categoría es "Sin stock"; con velocidad 0, "Sin consumo reciente". En el
// resto, días = existencia / daily y se clasifica por truncamiento entero:
// <1 día, <7 días en días, <30 en semanas (días/7), <365 en meses (días/30)
// y de ahí en adelante en años (días/365).
func EstimateConsumption(movs []entity.Movement, asOf time.Time) string {
	qty := QuantityOnHand(movs, asOf)
	if qty.LessThanOrEqual(decimal.Zero) {
		return EstimateNoStock
	}

	windowStart := asOf.AddDate(0, -ConsumptionWindowMonths, 0)
	consumed := decimal.Zero
	for _, m := range movs {
		if m.IsEntry() {
			continue
		}
		if onOrBefore(windowStart, m.OccurredOn) && onOrBefore(m.OccurredOn, asOf) {
			consumed = consumed.Add(m.Quantity)
		}
	}
	if consumed.LessThanOrEqual(decimal.Zero) {
		return EstimateNoConsumption
	}

	daily := consumed.Div(decimal.NewFromInt(ConsumptionWindowDays))
	days := qty.Div(daily)

	switch {
	case days.LessThan(decimal.NewFromInt(1)):
		return EstimateLessThanDay
	case days.LessThan(decimal.NewFromInt(7)):
		return plural(days.IntPart(), "día", "días")
	case days.LessThan(decimal.NewFromInt(30)):
		return plural(days.Div(decimal.NewFromInt(7)).IntPart(), "semana", "semanas")
	case days.LessThan(decimal.NewFromInt(365)):
		return plural(days.Div(decimal.NewFromInt(30)).IntPart(), "mes", "meses")
	default:
		return plural(days.Div(decimal.NewFromInt(365)).IntPart(), "año", "años")
	}
}

func plural(n int64, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}
