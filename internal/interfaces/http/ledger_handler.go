package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"
)

// LedgerHandler maneja las mutaciones del libro de movimientos: entradas,
// salidas, edición, eliminación, validación previa y recálculo administrativo.
type LedgerHandler struct {
	uc *ledger.UseCase
}

// NewLedgerHandler construye el handler del libro.
func NewLedgerHandler(uc *ledger.UseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// RegisterEntry godoc
// @Summary      Registrar entrada
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterEntryRequest  true  "Datos de la entrada"
// @Success      201   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [post]
func (h *LedgerHandler) RegisterEntry(c *fiber.Ctx) error {
	var in dto.RegisterEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	occurredOn, occurredAt, err := parseWhen(in.Date, in.Time)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD y time HH:MM:SS"})
	}
	res, err := h.uc.RegisterEntry(c.UserContext(), ledger.EntryInput{
		SKU:         in.SKU,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		OccurredOn:  occurredOn,
		OccurredAt:  occurredAt,
		InvoiceCode: in.InvoiceCode,
		SupplierRef: in.SupplierRef,
		ActorRef:    GetUserID(c),
	})
	if err != nil {
		return writeLedgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMutationResponse(res))
}

// RegisterExit godoc
// @Summary      Registrar salida
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterExitRequest  true  "Datos de la salida"
// @Success      201   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/exits [post]
func (h *LedgerHandler) RegisterExit(c *fiber.Ctx) error {
	var in dto.RegisterExitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	occurredOn, occurredAt, err := parseWhen(in.Date, in.Time)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD y time HH:MM:SS"})
	}
	res, err := h.uc.RegisterExit(c.UserContext(), ledger.ExitInput{
		SKU:        in.SKU,
		Quantity:   in.Quantity,
		OccurredOn: occurredOn,
		OccurredAt: occurredAt,
		ActorRef:   GetUserID(c),
	})
	if err != nil {
		return writeLedgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMutationResponse(res))
}

// UpdateMovement godoc
// @Summary      Editar movimiento
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID del movimiento"
// @Param        body  body  dto.UpdateMovementRequest  true  "Campos a editar"
// @Success      200   {object}  dto.MutationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/movements/{id} [patch]
func (h *LedgerHandler) UpdateMovement(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico requerido"})
	}
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.UpdateMovement(c.UserContext(), int64(id), ledger.UpdateInput{
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		InvoiceCode: in.InvoiceCode,
		SupplierRef: in.SupplierRef,
	})
	if err != nil {
		return writeLedgerError(c, err)
	}
	return c.JSON(toMutationResponse(res))
}

// DeleteMovement godoc
// @Summary      Eliminar movimiento
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.MutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements/{id} [delete]
func (h *LedgerHandler) DeleteMovement(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico requerido"})
	}
	res, err := h.uc.DeleteMovement(c.UserContext(), int64(id))
	if err != nil {
		return writeLedgerError(c, err)
	}
	return c.JSON(toMutationResponse(res))
}

// ValidateOperation godoc
// @Summary      Validar edición o eliminación sin aplicarla
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateOperationRequest  true  "Operación hipotética"
// @Success      200   {object}  dto.ValidateOperationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ledger/movements/validate [post]
func (h *LedgerHandler) ValidateOperation(c *fiber.Ctx) error {
	var in dto.ValidateOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var op kardex.Operation
	switch in.Operation {
	case "delete":
		op = kardex.Delete(in.MovementID)
	case "edit":
		if in.NewQuantity == nil || !in.NewQuantity.GreaterThan(decimal.Zero) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "edit requiere newQuantity positivo"})
		}
		op = kardex.Edit(in.MovementID, *in.NewQuantity)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: `operation debe ser "delete" o "edit"`})
	}

	sim, err := h.uc.SimulateOperation(c.UserContext(), op)
	if err != nil {
		return writeLedgerError(c, err)
	}
	return c.JSON(dto.ValidateOperationResponse{
		Valid:            sim.OK,
		FinalBalance:     sim.FinalBalance,
		FirstViolationID: sim.FirstViolationID,
	})
}

// Recalculate godoc
// @Summary      Recalcular costos (admin)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        sku  query  string  false  "Limitar a un SKU"
// @Success      200  {object}  dto.RecalculateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/recalculate [post]
func (h *LedgerHandler) Recalculate(c *fiber.Ctx) error {
	if sku := c.Query("sku"); sku != "" {
		updated, err := h.uc.RecalculateSKU(c.UserContext(), sku)
		if err != nil {
			return writeLedgerError(c, err)
		}
		return c.JSON(dto.RecalculateResponse{SKUs: 1, UpdatedCosts: updated})
	}
	skus, updated, err := h.uc.RecalculateAll(c.UserContext())
	if err != nil {
		return writeLedgerError(c, err)
	}
	return c.JSON(dto.RecalculateResponse{SKUs: skus, UpdatedCosts: updated})
}

// writeLedgerError mapea los errores del dominio a HTTP. Los rechazos por
// stock llevan el detalle en Details para que el cliente lo muestre.
func writeLedgerError(c *fiber.Ctx, err error) error {
	var insuf *domain.InsufficientStockError
	if errors.As(err, &insuf) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: insuf.Error(),
			Details: fiber.Map{"available": insuf.Available, "requested": insuf.Requested},
		})
	}
	var neg *domain.NegativeStockError
	if errors.As(err, &neg) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "NEGATIVE_STOCK",
			Message: neg.Error(),
			Details: fiber.Map{"firstViolationId": neg.FirstViolationID, "finalBalance": neg.FinalBalance},
		})
	}
	switch {
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrMovementNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toMutationResponse(res *ledger.MutationResult) dto.MutationResponse {
	out := dto.MutationResponse{UpdatedCosts: res.UpdatedCosts}
	if res.Movement != nil {
		out.Movement = toMovementResponse(res.Movement)
	}
	return out
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	resp := &dto.MovementResponse{
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
		resp.Time = m.OccurredAt.Format(clockLayout)
	}
	return resp
}

// parseWhen interpreta la fecha obligatoria y la hora opcional del movimiento.
func parseWhen(date, clock string) (time.Time, time.Time, error) {
	occurredOn, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if clock == "" {
		return occurredOn, time.Time{}, nil
	}
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	occurredAt := time.Date(occurredOn.Year(), occurredOn.Month(), occurredOn.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	return occurredOn, occurredAt, nil
}
