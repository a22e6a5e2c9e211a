package app

import (
	"sync/atomic"
)

// Generation identifies one asynchronous load. Only the most recently issued
// generation may apply its result.
type Generation int64

// Generations issues monotonically increasing generations.
// Safe for concurrent use.
type Generations struct {
	current int64
}

// NewGenerations creates a counter starting from 1.
func NewGenerations() *Generations {
	return &Generations{current: 0}
}

// Next issues a new generation atomically.
func (g *Generations) Next() Generation {
	return Generation(atomic.AddInt64(&g.current, 1))
}

// Current returns the last issued generation without incrementing.
func (g *Generations) Current() Generation {
	return Generation(atomic.LoadInt64(&g.current))
}

// IsCurrent reports whether gen is still the latest issued generation.
func (g *Generations) IsCurrent(gen Generation) bool {
	return gen == g.Current()
}
