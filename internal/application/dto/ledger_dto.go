package dto

import "github.com/shopspring/decimal"

// RegisterEntryRequest alta de una entrada (recepción).
type RegisterEntryRequest struct {
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Time        string          `json:"time"` // HH:MM:SS, opcional
	InvoiceCode string          `json:"invoiceCode,omitempty"`
	SupplierRef string          `json:"supplierRef,omitempty"`
}

// RegisterExitRequest alta de una salida (despacho). El costo no se envía:
// lo deriva la cascada de recálculo.
type RegisterExitRequest struct {
	SKU      string          `json:"sku"`
	Quantity decimal.Decimal `json:"quantity"`
	Date     string          `json:"date"`
	Time     string          `json:"time"`
}

// UpdateMovementRequest edición parcial de un movimiento.
// UnitCost, InvoiceCode y SupplierRef solo aplican a entradas.
type UpdateMovementRequest struct {
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitCost    *decimal.Decimal `json:"unitCost,omitempty"`
	InvoiceCode *string          `json:"invoiceCode,omitempty"`
	SupplierRef *string          `json:"supplierRef,omitempty"`
}

// ValidateOperationRequest simulación de una edición/eliminación sin commit.
type ValidateOperationRequest struct {
	Operation   string           `json:"operation"` // "delete" | "edit"
	MovementID  int64            `json:"movementId"`
	NewQuantity *decimal.Decimal `json:"newQuantity,omitempty"` // solo edit
}

// ValidateOperationResponse resultado del replay hipotético.
type ValidateOperationResponse struct {
	Valid            bool            `json:"valid"`
	FinalBalance     decimal.Decimal `json:"finalBalance"`
	FirstViolationID int64           `json:"firstViolationId,omitempty"`
}

// MovementResponse un movimiento del libro en respuestas.
type MovementResponse struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Kind        string          `json:"transactionType"` // entrada | salida
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	InvoiceCode string          `json:"invoiceCode,omitempty"`
	SupplierRef string          `json:"supplierRef,omitempty"`
	ActorRef    string          `json:"username,omitempty"`
	Currency    string          `json:"currency"`
}

// MutationResponse resultado de un commit sobre el libro.
type MutationResponse struct {
	Movement     *MovementResponse `json:"movement,omitempty"`
	UpdatedCosts int               `json:"updatedCosts"`
}

// RecalculateResponse resultado del recálculo administrativo.
type RecalculateResponse struct {
	SKUs         int `json:"skus"`
	UpdatedCosts int `json:"updatedCosts"`
}
