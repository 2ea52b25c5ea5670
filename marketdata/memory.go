package marketdata

import (
	"context"
	"sync"
	"time"

	"github.com/meenmo/swapval/swap/market"
)

// MemoryStore is an in-memory QuoteStore and FixingStore, for tests and
// standalone CLI runs where no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	curves  map[string][]CurveNode // key: curveID|curveDate
	fixings map[string]Fixing      // key: index|date
}

var (
	_ QuoteStore  = (*MemoryStore)(nil)
	_ FixingStore = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		curves:  make(map[string][]CurveNode),
		fixings: make(map[string]Fixing),
	}
}

func curveKey(curveID string, curveDate time.Time) string {
	return curveID + "|" + curveDate.Format("2006-01-02")
}

func fixingKey(index market.ReferenceIndex, date time.Time) string {
	return string(index) + "|" + date.Format("2006-01-02")
}

// PutCurve stores a curve snapshot, replacing any prior one for the same key.
func (m *MemoryStore) PutCurve(curveID string, curveDate time.Time, nodes []CurveNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]CurveNode, len(nodes))
	copy(copied, nodes)
	m.curves[curveKey(curveID, curveDate)] = copied
}

// CurveNodes returns the stored snapshot or ErrNotFound.
func (m *MemoryStore) CurveNodes(_ context.Context, curveID string, curveDate time.Time) ([]CurveNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	nodes, ok := m.curves[curveKey(curveID, curveDate)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]CurveNode, len(nodes))
	copy(out, nodes)
	return out, nil
}

// Fixing returns the stored fixing or ErrNotFound.
func (m *MemoryStore) Fixing(_ context.Context, index market.ReferenceIndex, date time.Time) (Fixing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fx, ok := m.fixings[fixingKey(index, date)]
	if !ok {
		return Fixing{}, ErrNotFound
	}
	return fx, nil
}

// SaveFixing stores a fixing, replacing any prior value for the same day.
func (m *MemoryStore) SaveFixing(_ context.Context, fixing Fixing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixings[fixingKey(fixing.Index, fixing.Date)] = fixing
	return nil
}
