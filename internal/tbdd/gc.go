// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

// GCPoint is a snapshot of the node table occupancy taken at a garbage
// collection event, used by the progress reporter (spec.md §4.8). Adapted
// from rudd's gcpoint (gc.go).
type GCPoint struct {
	Nodes  int
	Marked int
	Filled int
}

// Hook is a callback registered to run immediately before or after a garbage
// collection pass, matching the "GC hooks: pre/post callbacks" contract of
// spec.md §6.3.
type Hook func(*Manager)

// RegisterPreGC registers a hook invoked before every GC pass on m.
func (m *Manager) RegisterPreGC(h Hook) {
	m.mu.Lock()
	m.preGC = append(m.preGC, h)
	m.mu.Unlock()
}

// RegisterPostGC registers a hook invoked after every GC pass on m.
func (m *Manager) RegisterPostGC(h Hook) {
	m.mu.Lock()
	m.postGC = append(m.postGC, h)
	m.mu.Unlock()
}

// Protect registers n as a GC root so it survives the next GC/occupancy
// pass, and returns n unchanged so calls can be chained. Every caller that
// binds a Node or Ref across a further allocating call must protect it
// first (spec.md §5, §9) and Unprotect the same node(s) on every return
// path. Protection is reference-counted rather than a single LIFO stack:
// spec.md §5 describes the protection stack as thread-local because several
// fork/join branches call into the TBDD package concurrently, and a
// reference count keyed by node identity stays correct regardless of which
// goroutine's push or pop happens to run first, without needing actual
// goroutine-local storage (Go has none to offer).
func (m *Manager) Protect(n Node) Node {
	m.mu.Lock()
	m.refcount[n]++
	m.mu.Unlock()
	return n
}

// ProtectRef is the Ref-typed counterpart of Protect.
func (m *Manager) ProtectRef(r Ref) Ref {
	m.Protect(r.Node)
	return r
}

// Unprotect releases one protection count for each node given, mirroring
// rudd's pushref/popref (operations.go) except keyed by node rather than by
// stack position.
func (m *Manager) Unprotect(nodes ...Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range nodes {
		if m.refcount[n] > 0 {
			m.refcount[n]--
			if m.refcount[n] == 0 {
				delete(m.refcount, n)
			}
		}
	}
}

// GC runs a mark pass over the protection stack plus any extra roots,
// records an occupancy snapshot, invalidates the lossy operation caches (the
// memoization contract of spec.md §4.7 only requires that cache hits stay
// semantically correct, never that entries survive a GC), and runs the
// registered hooks. It never removes nodes from the table: this module
// keeps the table append-only and relies on Go's own collector for the
// backing array, so GC here is a reporting and cache-eviction operation
// rather than a compaction (see DESIGN.md).
func (m *Manager) GC(extraRoots ...Node) GCPoint {
	m.mu.RLock()
	hooks := append([]Hook{}, m.preGC...)
	m.mu.RUnlock()
	for _, h := range hooks {
		h(m)
	}
	m.mu.RLock()
	total := len(m.nodes)
	marked := make([]bool, total)
	roots := make([]Node, 0, len(m.refcount)+len(extraRoots))
	for n := range m.refcount {
		roots = append(roots, n)
	}
	roots = append(roots, extraRoots...)
	m.mu.RUnlock()

	var mark func(Node)
	mark = func(n Node) {
		if n < 0 || int(n) >= total || marked[n] {
			return
		}
		marked[n] = true
		if n == falseNode || n == trueNode {
			return
		}
		m.mu.RLock()
		low, high := m.nodes[n].low, m.nodes[n].high
		m.mu.RUnlock()
		mark(low)
		mark(high)
	}
	for _, r := range roots {
		mark(r)
	}
	filled := 0
	for _, v := range marked {
		if v {
			filled++
		}
	}
	point := GCPoint{Nodes: total, Marked: filled, Filled: filled}
	m.mu.Lock()
	m.gcHistory = append(m.gcHistory, point)
	m.mu.Unlock()

	m.applyCache.reset()
	m.iteCache.reset()
	m.appexCache.reset()
	m.replaceCache.reset()

	m.mu.RLock()
	hooks = append([]Hook{}, m.postGC...)
	m.mu.RUnlock()
	for _, h := range hooks {
		h(m)
	}
	return point
}

// Occupancy returns (filled, total) node-table slot counts without
// invalidating caches, for use by the progress reporter's --count-table
// output (spec.md §4.8).
func (m *Manager) Occupancy(roots ...Node) (filled, total int) {
	m.mu.RLock()
	total = len(m.nodes)
	extra := make([]Node, 0, len(m.refcount)+len(roots))
	for n := range m.refcount {
		extra = append(extra, n)
	}
	extra = append(extra, roots...)
	m.mu.RUnlock()

	marked := make([]bool, total)
	var mark func(Node)
	mark = func(n Node) {
		if n < 0 || int(n) >= total || marked[n] {
			return
		}
		marked[n] = true
		if n == falseNode || n == trueNode {
			return
		}
		m.mu.RLock()
		low, high := m.nodes[n].low, m.nodes[n].high
		m.mu.RUnlock()
		mark(low)
		mark(high)
	}
	for _, r := range extra {
		mark(r)
	}
	for _, v := range marked {
		if v {
			filled++
		}
	}
	return filled, total
}
