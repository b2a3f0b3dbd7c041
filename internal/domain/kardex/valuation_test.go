package kardex_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// Escenario A: Entrada(10 @ 2.00) + Entrada(5 @ 4.00) → existencia 15, WAC 40/15.
func TestQuantityOnHand_EscenarioA(t *testing.T) {
	movs := libroEscenarioA()
	qty := kardex.QuantityOnHand(movs, d(2025, time.March, 31))
	assert.True(t, qty.Equal(dec("15")), "existencia esperada 15, obtenida %s", qty)
}

func TestWeightedAverageCost_EscenarioA(t *testing.T) {
	movs := libroEscenarioA()
	wac := kardex.WeightedAverageCost(movs, d(2025, time.March, 31))
	assert.True(t, wac.Round(4).Equal(dec("2.6667")),
		"WAC esperado 2.6667 (40/15), obtenido %s", wac.Round(4))
}

// P1: la existencia a una fecha D solo considera movimientos con fecha <= D.
func TestQuantityOnHand_RespetaFechaDeCorte(t *testing.T) {
	movs := libroEscenarioA() // entradas el 1 y el 5 de marzo
	movs = append(movs, salida(3, "4", "2.67", d(2025, time.April, 10)))

	// Al 5 de marzo la salida de abril todavía no cuenta.
	qty := kardex.QuantityOnHand(movs, d(2025, time.March, 5))
	assert.True(t, qty.Equal(dec("15")), "al 5 de marzo deben contarse solo las entradas")

	// Al 1 de marzo solo cuenta la primera entrada (la comparación es inclusiva).
	qty = kardex.QuantityOnHand(movs, d(2025, time.March, 1))
	assert.True(t, qty.Equal(dec("10")))

	// Después de la salida la existencia baja.
	qty = kardex.QuantityOnHand(movs, d(2025, time.April, 30))
	assert.True(t, qty.Equal(dec("11")))
}

// P2: mezclar una entrada q @ c sobre estado (Q, W) da WAC = (Q·W + q·c)/(Q+q).
func TestWeightedAverageCost_MezclaDeEntradas(t *testing.T) {
	movs := libroEscenarioA()
	movs = append(movs, entrada(3, "15", "3.00", d(2025, time.March, 10)))

	// (15·2.6667 + 15·3) / 30 = (40 + 45) / 30 = 2.8333
	wac := kardex.WeightedAverageCost(movs, d(2025, time.March, 31))
	assert.True(t, wac.Round(4).Equal(dec("2.8333")),
		"WAC esperado 2.8333, obtenido %s", wac.Round(4))
}

// Con existencia cero o negativa el WAC se define como 0.
func TestWeightedAverageCost_SinExistencia(t *testing.T) {
	wac := kardex.WeightedAverageCost(nil, d(2025, time.March, 1))
	assert.True(t, wac.IsZero(), "sin movimientos el WAC debe ser 0")

	agotado := libroEscenarioA()
	agotado = append(agotado, salida(3, "15", "2.67", d(2025, time.March, 20)))
	wac = kardex.WeightedAverageCost(agotado, d(2025, time.March, 31))
	assert.True(t, wac.IsZero(), "con existencia 0 el WAC debe ser 0, obtenido %s", wac)
}

func TestLastEntryCost(t *testing.T) {
	movs := libroEscenarioA()
	movs = append(movs, salida(3, "6", "2.67", d(2025, time.March, 10)))

	cost := kardex.LastEntryCost(movs, d(2025, time.March, 31))
	assert.True(t, cost.Equal(dec("4.00")), "la última entrada cuesta 4.00")

	// Antes de la segunda entrada manda la primera.
	cost = kardex.LastEntryCost(movs, d(2025, time.March, 2))
	assert.True(t, cost.Equal(dec("2.00")))

	// Sin entradas en el rango el costo es 0.
	cost = kardex.LastEntryCost(movs, d(2025, time.February, 1))
	assert.True(t, cost.IsZero())
}
