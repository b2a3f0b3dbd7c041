package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// UseCase orquesta las mutaciones del libro de movimientos: alta de entradas
// y salidas, edición y eliminación. Toda mutación sigue la misma secuencia
// bajo el candado del SKU: validar/simular → commit → cascada de recálculo,
// con commit y cascada dentro de UNA transacción.
type UseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
	itemRepo repository.ItemRepository
	locks    *skuLocker
	now      func() time.Time
}

// NewUseCase construye el caso de uso de mutaciones del libro.
func NewUseCase(txRunner TxRunner, movRepo repository.MovementRepository, itemRepo repository.ItemRepository) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		movRepo:  movRepo,
		itemRepo: itemRepo,
		locks:    newSKULocker(),
		now:      time.Now,
	}
}

// EntryInput alta de una entrada.
type EntryInput struct {
	SKU         string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	OccurredOn  time.Time
	OccurredAt  time.Time
	InvoiceCode string
	SupplierRef string
	ActorRef    string
}

// ExitInput alta de una salida. Sin costo: lo deriva la cascada.
type ExitInput struct {
	SKU        string
	Quantity   decimal.Decimal
	OccurredOn time.Time
	OccurredAt time.Time
	ActorRef   string
}

// UpdateInput edición parcial de un movimiento. Los nil no se tocan.
// UnitCost, InvoiceCode y SupplierRef solo son válidos en entradas.
type UpdateInput struct {
	Quantity    *decimal.Decimal
	UnitCost    *decimal.Decimal
	InvoiceCode *string
	SupplierRef *string
}

// MutationResult resultado de una mutación confirmada.
type MutationResult struct {
	Movement     *entity.Movement // nil en delete
	UpdatedCosts int              // salidas cuyo costo reescribió la cascada
}

// RegisterEntry persiste una entrada y dispara la cascada desde su posición.
// Una entrada nueva siempre queda al final del libro, así que la cascada no
// reescribe nada; se ejecuta igual para sostener la invariante con un solo
// camino de código.
func (uc *UseCase) RegisterEntry(ctx context.Context, in EntryInput) (*MutationResult, error) {
	if in.SKU == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireItem(in.SKU); err != nil {
		return nil, err
	}

	unlock := uc.locks.Lock(in.SKU)
	defer unlock()

	mov := &entity.Movement{
		SKU:         in.SKU,
		Kind:        entity.KindEntrada,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		OccurredOn:  in.OccurredOn,
		OccurredAt:  in.OccurredAt,
		InvoiceCode: in.InvoiceCode,
		SupplierRef: in.SupplierRef,
		ActorRef:    in.ActorRef,
		CreatedAt:   uc.now(),
	}
	var updated int
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository) error {
		id, err := movRepo.Insert(mov)
		if err != nil {
			return err
		}
		mov.ID = id
		n, err := uc.cascade(movRepo, in.SKU, previousID(mov.ID), mov)
		updated = n
		return err
	})
	if err != nil {
		return nil, err
	}
	return &MutationResult{Movement: mov, UpdatedCosts: updated}, nil
}

// RegisterExit valida disponibilidad, persiste la salida con costo 0 y deja
// que la cascada le asigne su costo promedio real dentro de la misma
// transacción.
func (uc *UseCase) RegisterExit(ctx context.Context, in ExitInput) (*MutationResult, error) {
	if in.SKU == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireItem(in.SKU); err != nil {
		return nil, err
	}

	unlock := uc.locks.Lock(in.SKU)
	defer unlock()

	movs, err := uc.movRepo.ListBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if err := kardex.ValidateAvailability(movs, in.SKU, in.Quantity, uc.now()); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		SKU:        in.SKU,
		Kind:       entity.KindSalida,
		Quantity:   in.Quantity,
		UnitCost:   decimal.Zero, // provisional hasta la cascada
		OccurredOn: in.OccurredOn,
		OccurredAt: in.OccurredAt,
		ActorRef:   in.ActorRef,
		CreatedAt:  uc.now(),
	}
	var updated int
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository) error {
		id, err := movRepo.Insert(mov)
		if err != nil {
			return err
		}
		mov.ID = id
		n, err := uc.cascade(movRepo, in.SKU, previousID(mov.ID), mov)
		updated = n
		return err
	})
	if err != nil {
		return nil, err
	}
	return &MutationResult{Movement: mov, UpdatedCosts: updated}, nil
}

// UpdateMovement edita un movimiento previa simulación de no-negatividad y
// recalcula los costos de las salidas posteriores desde el movimiento editado.
func (uc *UseCase) UpdateMovement(ctx context.Context, id int64, in UpdateInput) (*MutationResult, error) {
	mov, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrMovementNotFound
	}
	if mov.Kind == entity.KindSalida && (in.UnitCost != nil || in.InvoiceCode != nil || in.SupplierRef != nil) {
		// El costo de una salida lo fija la cascada; nota fiscal y proveedor
		// son datos de entrada.
		return nil, domain.ErrInvalidInput
	}
	newQty := mov.Quantity
	if in.Quantity != nil {
		if !in.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		newQty = *in.Quantity
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	unlock := uc.locks.Lock(mov.SKU)
	defer unlock()

	movs, err := uc.movRepo.ListBySKU(mov.SKU)
	if err != nil {
		return nil, err
	}
	sim := kardex.Simulate(movs, kardex.Edit(id, newQty))
	if !sim.OK {
		return nil, &domain.NegativeStockError{
			SKU:              mov.SKU,
			FirstViolationID: sim.FirstViolationID,
			FinalBalance:     sim.FinalBalance,
		}
	}

	patch := repository.MovementPatch{
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		InvoiceCode: in.InvoiceCode,
		SupplierRef: in.SupplierRef,
	}
	var updated int
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository) error {
		if err := movRepo.UpdateFields(id, patch); err != nil {
			return err
		}
		n, err := uc.cascade(movRepo, mov.SKU, id, nil)
		updated = n
		return err
	})
	if err != nil {
		return nil, err
	}
	return &MutationResult{UpdatedCosts: updated}, nil
}

// DeleteMovement elimina un movimiento previa simulación y recalcula desde la
// posición cronológica que el movimiento ocupaba (como si nunca hubiera
// existido).
func (uc *UseCase) DeleteMovement(ctx context.Context, id int64) (*MutationResult, error) {
	mov, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrMovementNotFound
	}

	unlock := uc.locks.Lock(mov.SKU)
	defer unlock()

	movs, err := uc.movRepo.ListBySKU(mov.SKU)
	if err != nil {
		return nil, err
	}
	sim := kardex.Simulate(movs, kardex.Delete(id))
	if !sim.OK {
		return nil, &domain.NegativeStockError{
			SKU:              mov.SKU,
			FirstViolationID: sim.FirstViolationID,
			FinalBalance:     sim.FinalBalance,
		}
	}
	pivot := precedingID(movs, id)

	var updated int
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository) error {
		if err := movRepo.Delete(id); err != nil {
			return err
		}
		n, err := uc.cascade(movRepo, mov.SKU, pivot, nil)
		updated = n
		return err
	})
	if err != nil {
		return nil, err
	}
	return &MutationResult{UpdatedCosts: updated}, nil
}

// SimulateOperation ejecuta el replay hipotético sin commit (dry-run).
func (uc *UseCase) SimulateOperation(ctx context.Context, op kardex.Operation) (kardex.SimulationResult, error) {
	mov, err := uc.movRepo.GetByID(op.TargetID)
	if err != nil {
		return kardex.SimulationResult{}, err
	}
	if mov == nil {
		return kardex.SimulationResult{}, domain.ErrMovementNotFound
	}
	movs, err := uc.movRepo.ListBySKU(mov.SKU)
	if err != nil {
		return kardex.SimulationResult{}, err
	}
	return kardex.Simulate(movs, op), nil
}

// RecalculateSKU recorre el libro completo de un SKU desde el origen y
// reescribe el costo de todas sus salidas. Es el paso de reparación tras un
// crash entre commit y cascada, y el recálculo administrativo explícito.
func (uc *UseCase) RecalculateSKU(ctx context.Context, sku string) (int, error) {
	if err := uc.requireItem(sku); err != nil {
		return 0, err
	}
	unlock := uc.locks.Lock(sku)
	defer unlock()

	var updated int
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository) error {
		n, err := uc.cascade(movRepo, sku, 0, nil)
		updated = n
		return err
	})
	return updated, err
}

// RecalculateAll repara todos los SKUs registrados. Devuelve la cantidad de
// SKUs recorridos y el total de costos reescritos.
func (uc *UseCase) RecalculateAll(ctx context.Context) (skus, updated int, err error) {
	items, err := uc.itemRepo.List(repository.ItemFilter{})
	if err != nil {
		return 0, 0, err
	}
	for _, item := range items {
		n, err := uc.RecalculateSKU(ctx, item.SKU)
		if err != nil {
			return skus, updated, err
		}
		skus++
		updated += n
	}
	return skus, updated, nil
}

// cascade relee el libro dentro de la transacción, calcula las reescrituras
// desde el pivote y las persiste. Si inserted no es nil, refleja en él el
// costo que la cascada le asignó.
func (uc *UseCase) cascade(movRepo repository.MovementRepository, sku string, pivotID int64, inserted *entity.Movement) (int, error) {
	movs, err := movRepo.ListBySKU(sku)
	if err != nil {
		return 0, err
	}
	rewrites := kardex.Recalculate(movs, pivotID)
	for _, rw := range rewrites {
		if err := movRepo.UpdateCost(rw.MovementID, rw.UnitCost); err != nil {
			return 0, err
		}
		if inserted != nil && rw.MovementID == inserted.ID {
			inserted.UnitCost = rw.UnitCost
		}
	}
	return len(rewrites), nil
}

func (uc *UseCase) requireItem(sku string) error {
	item, err := uc.itemRepo.GetBySKU(sku)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrItemNotFound
	}
	return nil
}

// previousID pivote para un insert: la posición inmediatamente anterior al ID
// nuevo. Los IDs son estrictamente crecientes, por lo que id-1 acota el
// prefijo aunque ese ID exacto no exista en el libro.
func previousID(id int64) int64 {
	return id - 1
}

// precedingID busca el mayor ID del libro estrictamente menor que id
// (0 si el movimiento era el primero).
func precedingID(movs []entity.Movement, id int64) int64 {
	var prev int64
	for _, m := range movs {
		if m.ID >= id {
			break
		}
		prev = m.ID
	}
	return prev
}
