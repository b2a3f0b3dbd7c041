package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/stock"
	"github.com/jhoicas/kardex-api/internal/domain"
)

// StockHandler maneja las consultas de solo lectura: reporte de existencias,
// valuación, transacciones y disponibilidad.
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler de consultas.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Report godoc
// @Summary      Reporte de existencias a una fecha
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        date       query  string  false  "YYYY-MM-DD (vacío = hoy)"
// @Param        sku        query  string  false  "Filtrar por SKU"
// @Param        onlyStock  query  bool    false  "Solo items con saldo positivo"
// @Param        ordering   query  string  false  "sku | description | quantity (prefijo - invierte)"
// @Success      200  {array}   dto.StockItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	var q dto.StockReportQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	rows, err := h.uc.StockReport(q)
	if err != nil {
		return writeStockError(c, err)
	}
	return c.JSON(rows)
}

// Valuation godoc
// @Summary      Valuación puntual de un SKU
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sku   path   string  true   "SKU del artículo"
// @Param        date  query  string  false  "YYYY-MM-DD (vacío = hoy)"
// @Success      200  {object}  dto.ItemValuationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{sku}/valuation [get]
func (h *StockHandler) Valuation(c *fiber.Ctx) error {
	sku := c.Params("sku")
	if sku == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_SKU", Message: "sku es requerido"})
	}
	out, err := h.uc.ItemValuation(sku, c.Query("date"))
	if err != nil {
		return writeStockError(c, err)
	}
	return c.JSON(out)
}

// Transactions godoc
// @Summary      Listado unificado de entradas y salidas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        dateFrom    query  string  false  "YYYY-MM-DD"
// @Param        dateTo      query  string  false  "YYYY-MM-DD"
// @Param        sku         query  string  false  "Filtrar por SKU"
// @Param        notaFiscal  query  string  false  "Filtrar por nota fiscal"
// @Param        showInUsd   query  bool    false  "Convertir montos con PTAX"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *StockHandler) Transactions(c *fiber.Ctx) error {
	var q dto.TransactionsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	out, err := h.uc.Transactions(q)
	if err != nil {
		return writeStockError(c, err)
	}
	return c.JSON(out)
}

// Availability godoc
// @Summary      Pre-validar una salida
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sku       query  string  true  "SKU del artículo"
// @Param        quantity  query  string  true  "Cantidad a despachar"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/availability [get]
func (h *StockHandler) Availability(c *fiber.Ctx) error {
	sku := c.Query("sku")
	qty, err := decimal.NewFromString(c.Query("quantity"))
	if sku == "" || err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku y quantity son requeridos"})
	}
	out, err := h.uc.CheckAvailability(sku, qty)
	if err != nil {
		return writeStockError(c, err)
	}
	return c.JSON(out)
}

func writeStockError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
