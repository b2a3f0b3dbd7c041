package entity

import "time"

// Supplier representa un proveedor referenciado por las entradas.
type Supplier struct {
	ID        int64
	Name      string
	Active    bool
	CreatedAt time.Time
}
