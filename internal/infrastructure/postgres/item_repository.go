package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del catálogo de artículos sobre PostgreSQL
// (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un artículo nuevo.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (sku, description, unit_of_measure, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.SKU, item.Description, item.UnitOfMeasure, item.Active,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetBySKU obtiene un artículo por SKU (nil si no existe).
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	query := `
		SELECT sku, description, unit_of_measure, active, created_at, updated_at
		FROM items WHERE sku = $1`
	var it entity.Item
	err := r.q.QueryRow(context.Background(), query, sku).Scan(
		&it.SKU, &it.Description, &it.UnitOfMeasure, &it.Active, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// Update actualiza los metadatos de un artículo.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET description = $2, unit_of_measure = $3, active = $4, updated_at = $5
		WHERE sku = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		item.SKU, item.Description, item.UnitOfMeasure, item.Active, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// List lista artículos con filtros opcionales. Limit 0 lista sin paginar (lo
// usa el recálculo completo).
func (r *ItemRepo) List(f repository.ItemFilter) ([]*entity.Item, error) {
	query := `
		SELECT sku, description, unit_of_measure, active, created_at, updated_at
		FROM items WHERE 1=1`
	var args []any
	pos := 1
	if f.SKU != "" {
		query += fmt.Sprintf(" AND sku = $%d", pos)
		args = append(args, f.SKU)
		pos++
	}
	if f.Description != "" {
		query += fmt.Sprintf(" AND description ILIKE $%d", pos)
		args = append(args, "%"+f.Description+"%")
		pos++
	}
	if f.OnlyActive {
		query += " AND active"
	}
	query += " ORDER BY sku ASC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.SKU, &it.Description, &it.UnitOfMeasure, &it.Active,
			&it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Delete elimina un artículo por SKU.
func (r *ItemRepo) Delete(sku string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE sku = $1`, sku)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
