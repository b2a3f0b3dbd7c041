package kardex

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// OpKind tipo cerrado de operación hipotética sobre el libro.
type OpKind string

const (
	OpDelete OpKind = "delete"
	OpEdit   OpKind = "edit"
)

// Operation describe una mutación hipotética: eliminar un movimiento o
// editar su cantidad. Construir con Delete o Edit.
type Operation struct {
	Kind        OpKind
	TargetID    int64
	NewQuantity decimal.Decimal // solo OpEdit
}

// Delete operación hipotética de eliminación del movimiento targetID.
func Delete(targetID int64) Operation {
	return Operation{Kind: OpDelete, TargetID: targetID}
}

// Edit operación hipotética que sustituye la cantidad del movimiento targetID.
func Edit(targetID int64, newQuantity decimal.Decimal) Operation {
	return Operation{Kind: OpEdit, TargetID: targetID, NewQuantity: newQuantity}
}

// SimulationResult resultado de un replay hipotético.
// Si OK es false, FirstViolationID es el primer movimiento tras el cual el
// saldo simulado quedó negativo y FinalBalance ese saldo negativo.
// Si OK es true, FinalBalance es el saldo al final del libro.
type SimulationResult struct {
	OK               bool
	FinalBalance     decimal.Decimal
	FirstViolationID int64
}

// Simulate reproduce el libro completo de un SKU (orden de ID ascendente)
// aplicando la operación hipotética: la eliminación salta el movimiento
// objetivo y la edición sustituye su cantidad. Se detiene en el primer punto
// donde el saldo queda negativo. Es una función pura: no persiste nada, y debe
// ejecutarse antes de cualquier commit que altere cantidades históricas.
func Simulate(movs []entity.Movement, op Operation) SimulationResult {
	balance := decimal.Zero
	for _, m := range movs {
		if op.Kind == OpDelete && m.ID == op.TargetID {
			continue
		}
		qty := m.Quantity
		if op.Kind == OpEdit && m.ID == op.TargetID {
			qty = op.NewQuantity
		}
		if m.IsEntry() {
			balance = balance.Add(qty)
		} else {
			balance = balance.Sub(qty)
		}
		if balance.IsNegative() {
			return SimulationResult{OK: false, FinalBalance: balance, FirstViolationID: m.ID}
		}
	}
	return SimulationResult{OK: true, FinalBalance: balance}
}
