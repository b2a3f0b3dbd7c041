package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(s *entity.Supplier) error
	GetByID(id int64) (*entity.Supplier, error)
	List(onlyActive bool, limit, offset int) ([]*entity.Supplier, error)
}
