package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo cerrado de movimiento del kardex. Solo existen dos:
// entrada (recepción a costo declarado) y salida (despacho a costo promedio).
type MovementKind string

const (
	KindEntrada MovementKind = "entrada"
	KindSalida  MovementKind = "salida"
)

// Valid reporta si el tipo es uno de los dos conocidos.
func (k MovementKind) Valid() bool {
	return k == KindEntrada || k == KindSalida
}

// Movement es un registro del libro de movimientos (kardex) de un SKU.
//
// El ID lo asigna la secuencia de la base de datos y es estrictamente creciente:
// ese orden, y no la fecha/hora declarada, es el orden cronológico autoritativo
// del libro. OccurredOn/OccurredAt son datos del usuario para reportes.
//
// UnitCost: en una entrada lo declara quien registra; en una salida lo deriva
// el motor de recálculo (costo promedio ponderado vigente) y puede ser
// reescrito por cascadas posteriores.
type Movement struct {
	ID          int64
	SKU         string
	Kind        MovementKind
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	OccurredOn  time.Time // fecha del movimiento
	OccurredAt  time.Time // hora del movimiento (desempate visual dentro del día)
	InvoiceCode string    // nota fiscal, solo entradas
	SupplierRef string    // código de proveedor, solo entradas
	ActorRef    string    // usuario que registró el movimiento
	CreatedAt   time.Time
}

// TotalCost valor total del movimiento (cantidad x costo unitario).
func (m Movement) TotalCost() decimal.Decimal {
	return m.Quantity.Mul(m.UnitCost)
}

// IsEntry reporta si el movimiento incrementa existencias.
func (m Movement) IsEntry() bool { return m.Kind == KindEntrada }
