package ledger

import "sync"

// skuLocker serializa las mutaciones por SKU: a lo sumo una secuencia
// simular→commit→cascada en vuelo por SKU. Mutaciones sobre SKUs distintos
// avanzan en paralelo; las lecturas no pasan por aquí.
type skuLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSKULocker() *skuLocker {
	return &skuLocker{locks: make(map[string]*sync.Mutex)}
}

// Lock toma el candado del SKU y devuelve la función para liberarlo.
// Los candados se crean bajo demanda y viven lo que el proceso: el mapa está
// acotado por la cantidad de SKUs.
func (l *skuLocker) Lock(sku string) func() {
	l.mu.Lock()
	m, ok := l.locks[sku]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sku] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
