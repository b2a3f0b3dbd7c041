package kardex_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers compartidos por los tests del motor
// ──────────────────────────────────────────────────────────────────────────────

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// entrada construye una entrada de prueba para el SKU "MAT-001".
func entrada(id int64, qty, unitCost string, on time.Time) entity.Movement {
	return entity.Movement{
		ID:         id,
		SKU:        "MAT-001",
		Kind:       entity.KindEntrada,
		Quantity:   dec(qty),
		UnitCost:   dec(unitCost),
		OccurredOn: on,
	}
}

// salida construye una salida de prueba; unitCost es el costo almacenado
// (el que una cascada previa dejó persistido, o "0" recién insertada).
func salida(id int64, qty, unitCost string, on time.Time) entity.Movement {
	return entity.Movement{
		ID:         id,
		SKU:        "MAT-001",
		Kind:       entity.KindSalida,
		Quantity:   dec(qty),
		UnitCost:   dec(unitCost),
		OccurredOn: on,
	}
}

// libroEscenarioA dos entradas: 10 @ 2.00 y 5 @ 4.00 (existencia 15, WAC 40/15).
func libroEscenarioA() []entity.Movement {
	return []entity.Movement{
		entrada(1, "10", "2.00", d(2025, time.March, 1)),
		entrada(2, "5", "4.00", d(2025, time.March, 5)),
	}
}
