package stock_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/stock"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeItems struct{ items []*entity.Item }

func (f *fakeItems) Create(*entity.Item) error { return nil }
func (f *fakeItems) GetBySKU(sku string) (*entity.Item, error) {
	for _, it := range f.items {
		if it.SKU == sku {
			return it, nil
		}
	}
	return nil, nil
}
func (f *fakeItems) Update(*entity.Item) error { return nil }
func (f *fakeItems) List(filter repository.ItemFilter) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range f.items {
		if filter.OnlyActive && !it.Active {
			continue
		}
		if filter.SKU != "" && it.SKU != filter.SKU {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}
func (f *fakeItems) Delete(string) error { return nil }

type fakeMovs struct{ movs []entity.Movement }

func (f *fakeMovs) Insert(*entity.Movement) (int64, error)       { return 0, nil }
func (f *fakeMovs) GetByID(int64) (*entity.Movement, error)      { return nil, nil }
func (f *fakeMovs) UpdateCost(int64, decimal.Decimal) error      { return nil }
func (f *fakeMovs) UpdateFields(int64, repository.MovementPatch) error { return nil }
func (f *fakeMovs) Delete(int64) error                           { return nil }
func (f *fakeMovs) CountBySKU(string) (int64, error)             { return 0, nil }
func (f *fakeMovs) ListBySKU(sku string) ([]entity.Movement, error) {
	var out []entity.Movement
	for _, m := range f.movs {
		if m.SKU == sku {
			out = append(out, m)
		}
	}
	return out, nil
}
func (f *fakeMovs) Search(repository.MovementFilter) ([]entity.Movement, error) {
	return f.movs, nil
}

// fakeRates cotización fija de 5.00 BRL por USD; las fechas en missing
// devuelven ErrRateUnavailable.
type fakeRates struct{ missing map[string]bool }

func (f *fakeRates) USDRate(date time.Time) (decimal.Decimal, error) {
	if f.missing[date.Format("2006-01-02")] {
		return decimal.Zero, domain.ErrRateUnavailable
	}
	return decimal.RequireFromString("5.00"), nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func mov(id int64, sku string, kind entity.MovementKind, qty, cost string, on time.Time) entity.Movement {
	return entity.Movement{ID: id, SKU: sku, Kind: kind, Quantity: dec(qty), UnitCost: dec(cost), OccurredOn: on}
}

func newUseCase(items []*entity.Item, movs []entity.Movement, rates stock.RateProvider) *stock.UseCase {
	if rates == nil {
		rates = &fakeRates{}
	}
	return stock.NewUseCase(&fakeItems{items: items}, &fakeMovs{movs: movs}, rates, zerolog.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestStockReport_SaldoALaFecha(t *testing.T) {
	items := []*entity.Item{
		{SKU: "A", Description: "Arandela", UnitOfMeasure: "un", Active: true},
		{SKU: "B", Description: "Buje", UnitOfMeasure: "un", Active: true},
	}
	movs := []entity.Movement{
		mov(1, "A", entity.KindEntrada, "10", "2.00", d(2025, time.March, 1)),
		mov(2, "A", entity.KindSalida, "4", "2.00", d(2025, time.March, 10)),
		mov(3, "B", entity.KindEntrada, "3", "1.00", d(2025, time.April, 1)),
	}
	uc := newUseCase(items, movs, nil)

	rows, err := uc.StockReport(dto.StockReportQuery{Date: "2025-03-31"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].SKU)
	assert.True(t, rows[0].Quantity.Equal(dec("6")))
	// La entrada de B es posterior a la fecha del reporte.
	assert.True(t, rows[1].Quantity.Equal(dec("0")))
}

func TestStockReport_SoloConStock(t *testing.T) {
	items := []*entity.Item{
		{SKU: "A", Active: true},
		{SKU: "B", Active: true},
	}
	movs := []entity.Movement{
		mov(1, "A", entity.KindEntrada, "5", "1.00", d(2025, time.March, 1)),
	}
	uc := newUseCase(items, movs, nil)

	rows, err := uc.StockReport(dto.StockReportQuery{Date: "2025-03-31", OnlyStock: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].SKU)
}

func TestStockReport_OrdenPorCantidadDescendente(t *testing.T) {
	items := []*entity.Item{
		{SKU: "A", Active: true},
		{SKU: "B", Active: true},
	}
	movs := []entity.Movement{
		mov(1, "A", entity.KindEntrada, "5", "1.00", d(2025, time.March, 1)),
		mov(2, "B", entity.KindEntrada, "9", "1.00", d(2025, time.March, 1)),
	}
	uc := newUseCase(items, movs, nil)

	rows, err := uc.StockReport(dto.StockReportQuery{Date: "2025-03-31", Ordering: "-quantity"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[0].SKU)
}

func TestStockReport_FechaInvalida(t *testing.T) {
	uc := newUseCase(nil, nil, nil)
	_, err := uc.StockReport(dto.StockReportQuery{Date: "31/03/2025"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Escenario A vía el caso de uso: 15 unidades, promedio 2.6667 → 2.67, valor 40.
func TestItemValuation_EscenarioA(t *testing.T) {
	items := []*entity.Item{{SKU: "MAT-001", Active: true}}
	movs := []entity.Movement{
		mov(1, "MAT-001", entity.KindEntrada, "10", "2.00", d(2025, time.March, 1)),
		mov(2, "MAT-001", entity.KindEntrada, "5", "4.00", d(2025, time.March, 5)),
	}
	uc := newUseCase(items, movs, nil)

	v, err := uc.ItemValuation("MAT-001", "2025-03-31")
	require.NoError(t, err)
	assert.True(t, v.Quantity.Equal(dec("15")))
	assert.True(t, v.WeightedAvgCost.Equal(dec("2.67")))
	assert.True(t, v.LastEntryCost.Equal(dec("4.00")))
	assert.True(t, v.StockValue.Equal(dec("40.00")), "valor obtenido %s", v.StockValue)
}

func TestItemValuation_SKUInexistente(t *testing.T) {
	uc := newUseCase(nil, nil, nil)
	_, err := uc.ItemValuation("NO-EXISTE", "")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestTransactions_ConversionUSD(t *testing.T) {
	items := []*entity.Item{{SKU: "A", Active: true}}
	movs := []entity.Movement{
		mov(1, "A", entity.KindEntrada, "10", "25.00", d(2025, time.March, 3)),
	}
	uc := newUseCase(items, movs, &fakeRates{})

	out, err := uc.Transactions(dto.TransactionsQuery{ShowInUSD: true})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "USD", out[0].Currency)
	assert.True(t, out[0].UnitCost.Equal(dec("5.00")), "25 BRL / 5.00 = 5 USD")
	assert.True(t, out[0].TotalCost.Equal(dec("50.00")))
}

// Sin cotización para la fecha el movimiento sale en BRL, sin error.
func TestTransactions_FallbackBRL(t *testing.T) {
	items := []*entity.Item{{SKU: "A", Active: true}}
	movs := []entity.Movement{
		mov(1, "A", entity.KindEntrada, "10", "25.00", d(2025, time.March, 2)), // domingo
	}
	rates := &fakeRates{missing: map[string]bool{"2025-03-02": true}}
	uc := newUseCase(items, movs, rates)

	out, err := uc.Transactions(dto.TransactionsQuery{ShowInUSD: true})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "BRL", out[0].Currency)
	assert.True(t, out[0].UnitCost.Equal(dec("25.00")))
}

func TestCheckAvailability(t *testing.T) {
	items := []*entity.Item{{SKU: "A", Active: true}}
	movs := []entity.Movement{
		mov(1, "A", entity.KindEntrada, "6", "2.00", d(2025, time.March, 1)),
	}
	uc := newUseCase(items, movs, nil)

	ok, err := uc.CheckAvailability("A", dec("6"))
	require.NoError(t, err)
	assert.True(t, ok.Valid, "consumir la existencia exacta es válido")

	bad, err := uc.CheckAvailability("A", dec("20"))
	require.NoError(t, err)
	assert.False(t, bad.Valid)
	assert.True(t, bad.Available.Equal(dec("6")))
	assert.True(t, bad.Requested.Equal(dec("20")))
}

func TestCheckAvailability_CantidadInvalida(t *testing.T) {
	uc := newUseCase(nil, nil, nil)
	_, err := uc.CheckAvailability("A", decimal.Zero)
	require.True(t, errors.Is(err, domain.ErrInvalidInput))
}
