package usecase

import (
	"strings"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ItemUseCase CRUD del catálogo de artículos. El stock y el costo no viven
// acá: se derivan del libro de movimientos.
type ItemUseCase struct {
	repo    repository.ItemRepository
	movRepo repository.MovementRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, movRepo repository.MovementRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo, movRepo: movRepo}
}

// Create da de alta un artículo. El SKU se normaliza a mayúsculas y debe ser
// único.
func (uc *ItemUseCase) Create(in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	if sku == "" || strings.TrimSpace(in.Description) == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.Item{
		SKU:           sku,
		Description:   strings.TrimSpace(in.Description),
		UnitOfMeasure: in.UnitOfMeasure,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetBySKU obtiene un artículo por SKU.
func (uc *ItemUseCase) GetBySKU(sku string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetBySKU(strings.ToUpper(sku))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return toItemResponse(item), nil
}

// Update edita los metadatos de un artículo. El SKU es inmutable porque el
// libro de movimientos lo referencia.
func (uc *ItemUseCase) Update(sku string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetBySKU(strings.ToUpper(sku))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.UnitOfMeasure != nil {
		item.UnitOfMeasure = *in.UnitOfMeasure
	}
	if in.Active != nil {
		item.Active = *in.Active
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista artículos con filtros y paginación.
func (uc *ItemUseCase) List(q dto.ItemListQuery) ([]dto.ItemResponse, error) {
	q.DefaultPage()
	items, err := uc.repo.List(repository.ItemFilter{
		SKU:         strings.ToUpper(q.SKU),
		Description: q.Description,
		OnlyActive:  q.OnlyActive,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, *toItemResponse(item))
	}
	return out, nil
}

// Delete elimina un artículo solo si no tiene movimientos; con historial se
// rechaza con ErrItemReferenced (desactivarlo es el camino correcto).
func (uc *ItemUseCase) Delete(sku string) error {
	sku = strings.ToUpper(sku)
	item, err := uc.repo.GetBySKU(sku)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrItemNotFound
	}
	n, err := uc.movRepo.CountBySKU(sku)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrItemReferenced
	}
	return uc.repo.Delete(sku)
}

func toItemResponse(item *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		SKU:           item.SKU,
		Description:   item.Description,
		UnitOfMeasure: item.UnitOfMeasure,
		Active:        item.Active,
		CreatedAt:     item.CreatedAt,
	}
}
