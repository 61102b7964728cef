package restful

import "sync/atomic"

// Busy is an advisory in-flight counter for UI spinners. It never blocks callers.
type Busy struct {
	n atomic.Int32
}

// Begin marks one call as running and returns the func that ends it.
func (b *Busy) Begin() func() {
	b.n.Add(1)
	return func() { b.n.Add(-1) }
}

func (b *Busy) Active() bool {
	return b.n.Load() > 0
}
