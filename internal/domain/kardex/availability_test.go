package kardex_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// Escenario D: pedir 20 con existencia 6 → InsufficientStock{available:6, requested:20}.
func TestValidateAvailability_EscenarioD(t *testing.T) {
	movs := libroEscenarioA()
	movs = append(movs,
		salida(3, "6", "2.67", d(2025, time.March, 10)),
		salida(4, "3", "2.67", d(2025, time.March, 15)),
	)

	err := kardex.ValidateAvailability(movs, "MAT-001", dec("20"), d(2025, time.March, 31))
	require.Error(t, err)

	var insuf *domain.InsufficientStockError
	require.True(t, errors.As(err, &insuf), "el error debe ser InsufficientStockError")
	assert.True(t, insuf.Available.Equal(dec("6")), "disponible esperado 6, obtenido %s", insuf.Available)
	assert.True(t, insuf.Requested.Equal(dec("20")))
	assert.Equal(t, "MAT-001", insuf.SKU)
}

func TestValidateAvailability_ExactamenteLaExistencia(t *testing.T) {
	movs := libroEscenarioA()
	err := kardex.ValidateAvailability(movs, "MAT-001", dec("15"), d(2025, time.March, 31))
	assert.NoError(t, err, "solicitar exactamente la existencia es válido")
}
