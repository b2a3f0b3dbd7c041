package ledger

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de movimientos atado a esa tx. El commit del movimiento y la
// cascada de recálculo viajan juntos: o se aplican todas las reescrituras de
// costo o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(movRepo repository.MovementRepository) error) error
}
