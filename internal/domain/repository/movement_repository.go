package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementPatch campos editables de un movimiento. Los nil no se tocan.
// Quantity aplica a ambos tipos; UnitCost, InvoiceCode y SupplierRef solo
// tienen sentido en entradas (el costo de una salida lo fija la cascada).
type MovementPatch struct {
	Quantity    *decimal.Decimal
	UnitCost    *decimal.Decimal
	InvoiceCode *string
	SupplierRef *string
}

// MovementFilter filtros para el listado unificado de transacciones.
type MovementFilter struct {
	SKU         string
	Description string // sobre la descripción del artículo
	InvoiceCode string // solo entradas
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int
}

// MovementRepository define el puerto de persistencia del libro de movimientos
// (Ledger Store). ListBySKU devuelve SIEMPRE el libro completo del SKU en orden
// de ID ascendente: es la vista sobre la que operan valuación, simulación y
// cascada de recálculo.
type MovementRepository interface {
	Insert(m *entity.Movement) (int64, error)
	GetByID(id int64) (*entity.Movement, error)
	ListBySKU(sku string) ([]entity.Movement, error)
	Search(filter MovementFilter) ([]entity.Movement, error)
	UpdateCost(id int64, unitCost decimal.Decimal) error
	UpdateFields(id int64, patch MovementPatch) error
	Delete(id int64) error
	CountBySKU(sku string) (int64, error)
}
