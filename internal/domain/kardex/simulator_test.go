package kardex_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// Escenario E (primera parte): eliminar la salida id3 mantiene el saldo
// no negativo en todo el replay (10, 15, 12) → operación permitida.
func TestSimulate_DeleteSalidaPermitida(t *testing.T) {
	movs := libroEscenarioA()
	movs = append(movs,
		salida(3, "6", "2.67", d(2025, time.March, 10)),
		salida(4, "3", "2.67", d(2025, time.March, 15)),
	)

	res := kardex.Simulate(movs, kardex.Delete(3))
	assert.True(t, res.OK, "eliminar id3 no debe dejar saldo negativo")
	assert.True(t, res.FinalBalance.Equal(dec("12")), "saldo final esperado 12, obtenido %s", res.FinalBalance)
	assert.Zero(t, res.FirstViolationID)
}

// P5: eliminar una entrada de la que dependen salidas posteriores debe
// rechazarse reportando el primer movimiento que queda en negativo.
func TestSimulate_DeleteEntradaRompeNoNegatividad(t *testing.T) {
	movs := libroEscenarioA()
	movs = append(movs, salida(3, "12", "2.67", d(2025, time.March, 10)))

	// Sin id1 el replay es: +5, -12 → -7 en el movimiento 3.
	res := kardex.Simulate(movs, kardex.Delete(1))
	assert.False(t, res.OK)
	assert.Equal(t, int64(3), res.FirstViolationID, "la violación ocurre en la salida id3")
	assert.True(t, res.FinalBalance.Equal(dec("-7")), "saldo negativo esperado -7, obtenido %s", res.FinalBalance)
}

// Editar una salida aumentando su cantidad más allá de la existencia replays en negativo.
func TestSimulate_EditSalidaExcedeExistencia(t *testing.T) {
	movs := libroEscenarioA()
	movs = append(movs,
		salida(3, "6", "2.67", d(2025, time.March, 10)),
		salida(4, "3", "2.67", d(2025, time.March, 15)),
	)

	// id3 pasa de 6 a 16: replay 10, 15, -1.
	res := kardex.Simulate(movs, kardex.Edit(3, dec("16")))
	assert.False(t, res.OK)
	assert.Equal(t, int64(3), res.FirstViolationID)
	assert.True(t, res.FinalBalance.Equal(dec("-1")))
}

// Editar una entrada reduciéndola es válido mientras el saldo nunca baje de cero.
func TestSimulate_EditEntradaReducida(t *testing.T) {
	movs := libroEscenarioA()
	movs = append(movs, salida(3, "6", "2.67", d(2025, time.March, 10)))

	// id1 pasa de 10 a 2: replay 2, 7, 1 → válido.
	res := kardex.Simulate(movs, kardex.Edit(1, dec("2")))
	assert.True(t, res.OK)
	assert.True(t, res.FinalBalance.Equal(dec("1")))

	// id1 pasa de 10 a 0.5: replay 0.5, 5.5, -0.5 → inválido en id3.
	res = kardex.Simulate(movs, kardex.Edit(1, dec("0.5")))
	assert.False(t, res.OK)
	assert.Equal(t, int64(3), res.FirstViolationID)
}

// El saldo puede tocar exactamente cero sin que la operación se rechace.
func TestSimulate_SaldoCeroEsValido(t *testing.T) {
	movs := libroEscenarioA()
	movs = append(movs, salida(3, "6", "2.67", d(2025, time.March, 10)))

	// id3 pasa de 6 a 15: replay 10, 15, 0.
	res := kardex.Simulate(movs, kardex.Edit(3, dec("15")))
	assert.True(t, res.OK, "saldo exactamente cero no viola la invariante")
	assert.True(t, res.FinalBalance.IsZero())
}

// Un libro vacío siempre simula en cero.
func TestSimulate_LibroVacio(t *testing.T) {
	res := kardex.Simulate(nil, kardex.Delete(99))
	assert.True(t, res.OK)
	assert.True(t, res.FinalBalance.IsZero())
}
