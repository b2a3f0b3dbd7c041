// Package stock contiene los casos de uso de lectura del inventario: reporte
// de existencias, valuación puntual, listado unificado de transacciones y
// pre-validación de disponibilidad. Ninguna operación de este paquete escribe
// sobre el libro.
package stock

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// UseCase consultas de solo lectura sobre items y movimientos.
type UseCase struct {
	itemRepo repository.ItemRepository
	movRepo  repository.MovementRepository
	rates    RateProvider
	log      zerolog.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso de consultas.
func NewUseCase(itemRepo repository.ItemRepository, movRepo repository.MovementRepository, rates RateProvider, log zerolog.Logger) *UseCase {
	return &UseCase{
		itemRepo: itemRepo,
		movRepo:  movRepo,
		rates:    rates,
		log:      log,
		now:      time.Now,
	}
}

// StockReport arma el reporte de existencias a una fecha: por cada item
// filtrado, el saldo acumulado del libro hasta esa fecha y la estimación de
// tiempo de consumo.
func (uc *UseCase) StockReport(q dto.StockReportQuery) ([]dto.StockItemResponse, error) {
	asOf, err := uc.parseDateOrToday(q.Date)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()

	items, err := uc.itemRepo.List(repository.ItemFilter{
		SKU:         q.SKU,
		Description: q.Description,
		OnlyActive:  q.OnlyActive,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]dto.StockItemResponse, 0, len(items))
	for _, item := range items {
		movs, err := uc.movRepo.ListBySKU(item.SKU)
		if err != nil {
			return nil, err
		}
		qty := kardex.QuantityOnHand(movs, asOf)
		if q.OnlyStock && !qty.GreaterThan(decimal.Zero) {
			continue
		}
		rows = append(rows, dto.StockItemResponse{
			SKU:                      item.SKU,
			Description:              item.Description,
			UnitOfMeasure:            item.UnitOfMeasure,
			Active:                   item.Active,
			Quantity:                 qty,
			EstimatedConsumptionTime: kardex.EstimateConsumption(movs, asOf),
		})
	}

	sortStockRows(rows, q.Ordering)
	return paginate(rows, q.Offset, q.Limit), nil
}

// ItemValuation valuación puntual de un SKU: saldo, costo promedio ponderado,
// último costo de entrada y valor total a la fecha.
func (uc *UseCase) ItemValuation(sku, date string) (*dto.ItemValuationResponse, error) {
	asOf, err := uc.parseDateOrToday(date)
	if err != nil {
		return nil, err
	}
	item, err := uc.itemRepo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	movs, err := uc.movRepo.ListBySKU(sku)
	if err != nil {
		return nil, err
	}

	qty := kardex.QuantityOnHand(movs, asOf)
	wac := kardex.WeightedAverageCost(movs, asOf)
	return &dto.ItemValuationResponse{
		SKU:             sku,
		Date:            asOf.Format(dateLayout),
		Quantity:        qty,
		WeightedAvgCost: wac.Round(kardex.CurrencyPrecision),
		LastEntryCost:   kardex.LastEntryCost(movs, asOf),
		StockValue:      qty.Mul(wac).Round(kardex.CurrencyPrecision),
	}, nil
}

// Transactions listado unificado de entradas y salidas con filtros. Con
// ShowInUSD convierte cada monto con la cotización PTAX de la fecha del
// movimiento; si no hay cotización para esa fecha, el movimiento se devuelve
// en BRL y se deja constancia en el log.
func (uc *UseCase) Transactions(q dto.TransactionsQuery) ([]dto.MovementResponse, error) {
	q.DefaultPage()

	filter := repository.MovementFilter{
		SKU:         q.SKU,
		Description: q.Description,
		InvoiceCode: q.InvoiceCode,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	if q.DateFrom != "" {
		from, err := time.Parse(dateLayout, q.DateFrom)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := time.Parse(dateLayout, q.DateTo)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.DateTo = &to
	}

	movs, err := uc.movRepo.Search(filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, uc.toMovementResponse(m, q.ShowInUSD))
	}
	return out, nil
}

// CheckAvailability pre-valida una salida sin persistirla. Un resultado válido
// no reserva stock: la validación definitiva ocurre en el commit.
func (uc *UseCase) CheckAvailability(sku string, quantity decimal.Decimal) (*dto.AvailabilityResponse, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	movs, err := uc.movRepo.ListBySKU(sku)
	if err != nil {
		return nil, err
	}

	resp := &dto.AvailabilityResponse{
		Valid:     true,
		Available: kardex.QuantityOnHand(movs, uc.now()),
		Requested: quantity,
	}
	var insuf *domain.InsufficientStockError
	if err := kardex.ValidateAvailability(movs, sku, quantity, uc.now()); errors.As(err, &insuf) {
		resp.Valid = false
	} else if err != nil {
		return nil, err
	}
	return resp, nil
}

// toMovementResponse mapea un movimiento a su DTO, convirtiendo a USD cuando
// se pide y hay cotización para la fecha.
func (uc *UseCase) toMovementResponse(m entity.Movement, inUSD bool) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:          m.ID,
		SKU:         m.SKU,
		Kind:        string(m.Kind),
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		TotalCost:   m.TotalCost().Round(kardex.CurrencyPrecision),
		Date:        m.OccurredOn.Format(dateLayout),
		InvoiceCode: m.InvoiceCode,
		SupplierRef: m.SupplierRef,
		ActorRef:    m.ActorRef,
		Currency:    "BRL",
	}
	if !m.OccurredAt.IsZero() {
		resp.Time = m.OccurredAt.Format("15:04:05")
	}
	if !inUSD {
		return resp
	}

	rate, err := uc.rates.USDRate(m.OccurredOn)
	if err != nil {
		// Fallback a BRL: el listado no se cae por falta de cotización.
		uc.log.Warn().
			Err(err).
			Int64("movement_id", m.ID).
			Str("date", resp.Date).
			Msg("sin cotización PTAX, movimiento devuelto en BRL")
		return resp
	}
	resp.UnitCost = m.UnitCost.Div(rate).Round(kardex.CurrencyPrecision)
	resp.TotalCost = m.TotalCost().Div(rate).Round(kardex.CurrencyPrecision)
	resp.Currency = "USD"
	return resp
}

func (uc *UseCase) parseDateOrToday(raw string) (time.Time, error) {
	if raw == "" {
		return uc.now(), nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return d, nil
}

// sortStockRows ordena el reporte según el campo pedido; el prefijo "-"
// invierte el orden. Campos soportados: sku, description, quantity.
func sortStockRows(rows []dto.StockItemResponse, ordering string) {
	if ordering == "" {
		ordering = "sku"
	}
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	less := func(i, j int) bool { return rows[i].SKU < rows[j].SKU }
	switch field {
	case "description":
		less = func(i, j int) bool { return rows[i].Description < rows[j].Description }
	case "quantity":
		less = func(i, j int) bool { return rows[i].Quantity.LessThan(rows[j].Quantity) }
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	})
}

func paginate(rows []dto.StockItemResponse, offset, limit int) []dto.StockItemResponse {
	if offset >= len(rows) {
		return []dto.StockItemResponse{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
