package entity

import "time"

// Item representa un artículo del almacén (SKU).
// El SKU es la identidad: nunca cambia y el artículo no se elimina mientras
// existan movimientos que lo referencien; se desactiva con Active=false.
type Item struct {
	SKU           string
	Description   string
	UnitOfMeasure string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
