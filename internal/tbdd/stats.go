// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

import "fmt"

// Stats returns a short multi-line summary of table occupancy and GC
// history, in the same register as rudd's Stats (stdio.go), printed at the
// end of the progress reporter's post-run summary (spec.md §4.8).
func (m *Manager) Stats() string {
	filled, total := m.Occupancy()
	res := fmt.Sprintf("Varnum:     %d\n", m.varnum)
	res += fmt.Sprintf("Allocated:  %d\n", total)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", filled, 100*float64(filled)/float64(total))
	res += fmt.Sprintf("# of GC:    %d\n", len(m.gcHistory))
	res += fmt.Sprintf("Apply hits: %d  misses: %d\n", m.applyCache.hits, m.applyCache.misses)
	return res
}

// GCHistory returns a copy of the recorded GC snapshots.
func (m *Manager) GCHistory() []GCPoint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]GCPoint, len(m.gcHistory))
	copy(out, m.gcHistory)
	return out
}
