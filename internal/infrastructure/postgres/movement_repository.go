package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, sku, kind, quantity, unit_cost, occurred_on, occurred_at, invoice_code, supplier_ref, actor_ref, created_at`

// Insert persiste un movimiento. El ID lo asigna la secuencia de la tabla y
// se devuelve: es el orden cronológico del libro.
func (r *MovementRepo) Insert(m *entity.Movement) (int64, error) {
	query := `
		INSERT INTO movements (sku, kind, quantity, unit_cost, occurred_on, occurred_at, invoice_code, supplier_ref, actor_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	var id int64
	err := r.q.QueryRow(context.Background(), query,
		m.SKU, string(m.Kind), m.Quantity, m.UnitCost,
		m.OccurredOn, nullClock(m.OccurredAt), nullString(m.InvoiceCode),
		nullString(m.SupplierRef), nullString(m.ActorRef), m.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert movement: %w", err)
	}
	return id, nil
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (r *MovementRepo) GetByID(id int64) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListBySKU devuelve el libro completo de un SKU en orden cronológico (ID
// ascendente). Es la entrada de la valuación y de la cascada: nunca se pagina.
func (r *MovementRepo) ListBySKU(sku string) ([]entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE sku = $1 ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, sku)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

// Search lista movimientos con filtros y paginación, más recientes primero.
func (r *MovementRepo) Search(f repository.MovementFilter) ([]entity.Movement, error) {
	query := `
		SELECT m.id, m.sku, m.kind, m.quantity, m.unit_cost, m.occurred_on, m.occurred_at, m.invoice_code, m.supplier_ref, m.actor_ref, m.created_at
		FROM movements m
		JOIN items i ON i.sku = m.sku
		WHERE 1=1`
	var args []any
	pos := 1
	if f.SKU != "" {
		query += fmt.Sprintf(" AND m.sku = $%d", pos)
		args = append(args, f.SKU)
		pos++
	}
	if f.Description != "" {
		query += fmt.Sprintf(" AND i.description ILIKE $%d", pos)
		args = append(args, "%"+f.Description+"%")
		pos++
	}
	if f.InvoiceCode != "" {
		query += fmt.Sprintf(" AND m.invoice_code = $%d", pos)
		args = append(args, f.InvoiceCode)
		pos++
	}
	if f.DateFrom != nil {
		query += fmt.Sprintf(" AND m.occurred_on >= $%d", pos)
		args = append(args, *f.DateFrom)
		pos++
	}
	if f.DateTo != nil {
		query += fmt.Sprintf(" AND m.occurred_on <= $%d", pos)
		args = append(args, *f.DateTo)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY m.occurred_on DESC, m.id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("search movements: %w", err)
	}
	defer rows.Close()

	var list []entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

// UpdateCost reescribe solo el costo unitario (lo usa la cascada de recálculo).
func (r *MovementRepo) UpdateCost(id int64, unitCost decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE movements SET unit_cost = $2 WHERE id = $1`, id, unitCost)
	if err != nil {
		return fmt.Errorf("update movement cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update movement cost: id %d no existe", id)
	}
	return nil
}

// UpdateFields edita los campos no nulos del patch.
func (r *MovementRepo) UpdateFields(id int64, patch repository.MovementPatch) error {
	query := `UPDATE movements SET id = id`
	var args []any
	args = append(args, id)
	pos := 2
	if patch.Quantity != nil {
		query += fmt.Sprintf(", quantity = $%d", pos)
		args = append(args, *patch.Quantity)
		pos++
	}
	if patch.UnitCost != nil {
		query += fmt.Sprintf(", unit_cost = $%d", pos)
		args = append(args, *patch.UnitCost)
		pos++
	}
	if patch.InvoiceCode != nil {
		query += fmt.Sprintf(", invoice_code = $%d", pos)
		args = append(args, nullString(*patch.InvoiceCode))
		pos++
	}
	if patch.SupplierRef != nil {
		query += fmt.Sprintf(", supplier_ref = $%d", pos)
		args = append(args, nullString(*patch.SupplierRef))
		pos++
	}
	query += ` WHERE id = $1`

	cmd, err := r.q.Exec(context.Background(), query, args...)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update movement: id %d no existe", id)
	}
	return nil
}

// Delete elimina un movimiento por ID.
func (r *MovementRepo) Delete(id int64) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete movement: id %d no existe", id)
	}
	return nil
}

// CountBySKU cuenta los movimientos de un SKU (bloquea el borrado del item).
func (r *MovementRepo) CountBySKU(sku string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM movements WHERE sku = $1`, sku).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// scanMovement mapea una fila a la entidad; los opcionales vienen como NULL.
func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var kind string
	var occurredAt *string
	var invoiceCode, supplierRef, actorRef *string
	err := row.Scan(
		&m.ID, &m.SKU, &kind, &m.Quantity, &m.UnitCost,
		&m.OccurredOn, &occurredAt, &invoiceCode, &supplierRef, &actorRef, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	if occurredAt != nil {
		m.OccurredAt = parseClock(*occurredAt, m.OccurredOn)
	}
	if invoiceCode != nil {
		m.InvoiceCode = *invoiceCode
	}
	if supplierRef != nil {
		m.SupplierRef = *supplierRef
	}
	if actorRef != nil {
		m.ActorRef = *actorRef
	}
	return &m, nil
}
