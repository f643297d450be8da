package complexity

import (
	"github.com/gogpu/retain/displaylist"
	"github.com/gogpu/retain/internal/cache"
)

// Memo caches the scores of another calculator by DisplayList.UniqueID.
// Lists are immutable, so a score never goes stale; changing the ceiling
// drops every cached score. A Memo is safe for concurrent use when the
// wrapped calculator's Compute is.
type Memo struct {
	calc   Calculator
	scores *cache.LRU[uint64, uint]
}

// NewMemo wraps calc with a cache of at most capacity scores.
func NewMemo(calc Calculator, capacity int) *Memo {
	return &Memo{calc: calc, scores: cache.New[uint64, uint](capacity)}
}

// Compute returns the cached score of dl, computing it on a miss.
func (m *Memo) Compute(dl *displaylist.DisplayList) uint {
	if dl == nil {
		return 0
	}
	return m.scores.GetOrCompute(dl.UniqueID(), func() uint {
		return m.calc.Compute(dl)
	})
}

// ShouldBeCached defers to the wrapped calculator.
func (m *Memo) ShouldBeCached(score uint) bool { return m.calc.ShouldBeCached(score) }

// SetCeiling changes the wrapped ceiling and drops every cached score.
func (m *Memo) SetCeiling(ceiling uint) {
	m.calc.SetCeiling(ceiling)
	m.scores.Clear()
}

// Ceiling returns the wrapped ceiling.
func (m *Memo) Ceiling() uint { return m.calc.Ceiling() }

// Stats returns cache hits and misses.
func (m *Memo) Stats() (hits, misses uint64) { return m.scores.Stats() }
