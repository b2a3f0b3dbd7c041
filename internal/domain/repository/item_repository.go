package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// ItemFilter filtros para listar artículos.
type ItemFilter struct {
	SKU         string // coincidencia parcial, case-insensitive
	Description string // coincidencia parcial, case-insensitive
	OnlyActive  bool
	Limit       int
	Offset      int
}

// ItemRepository define el puerto de persistencia para Item.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetBySKU(sku string) (*entity.Item, error)
	Update(item *entity.Item) error
	List(filter ItemFilter) ([]*entity.Item, error)
	Delete(sku string) error
}
