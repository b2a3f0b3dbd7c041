package dto

import "time"

// CreateItemRequest alta de un artículo.
type CreateItemRequest struct {
	SKU           string `json:"codSku"`
	Description   string `json:"descricaoItem"`
	UnitOfMeasure string `json:"unidMedida"`
}

// UpdateItemRequest edición de metadatos de un artículo (el SKU es inmutable).
type UpdateItemRequest struct {
	Description   *string `json:"descricaoItem,omitempty"`
	UnitOfMeasure *string `json:"unidMedida,omitempty"`
	Active        *bool   `json:"active,omitempty"`
}

// ItemResponse un artículo en respuestas.
type ItemResponse struct {
	SKU           string    `json:"codSku"`
	Description   string    `json:"descricaoItem"`
	UnitOfMeasure string    `json:"unidMedida"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ItemListQuery filtros para listar artículos.
type ItemListQuery struct {
	SKU         string `query:"sku"`
	Description string `query:"description"`
	OnlyActive  bool   `query:"onlyActive"`
	PageRequest
}

// CreateSupplierRequest alta de un proveedor.
type CreateSupplierRequest struct {
	Name string `json:"nomeFornecedor"`
}

// SupplierResponse un proveedor en respuestas.
type SupplierResponse struct {
	ID     int64  `json:"codFornecedor"`
	Name   string `json:"nomeFornecedor"`
	Active bool   `json:"active"`
}
