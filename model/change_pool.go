package model

import "sync"

// ChangePool recycles changed-cell buffers between generations
type ChangePool struct {
	pool sync.Pool
}

func NewChangePool() *ChangePool {
	return &ChangePool{
		pool: sync.Pool{
			New: func() interface{} {
				return new([]CellChange)
			},
		},
	}
}

// Get retrieves an empty buffer from the pool
func (p *ChangePool) Get() []CellChange {
	return (*p.pool.Get().(*[]CellChange))[:0]
}

// Put returns a buffer to the pool once its changes have been consumed
func (p *ChangePool) Put(changes []CellChange) {
	if p == nil || changes == nil {
		return
	}
	changes = changes[:0]
	p.pool.Put(&changes)
}
