// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

import (
	"fmt"
	"sync"
)

// Node is the address of a node in a Manager's table. 0 and 1 are reserved
// for the constants false and true, mirroring rudd's convention.
type Node int32

const (
	falseNode Node = 0
	trueNode  Node = 1
)

// NoVar is the sentinel "no variable" level, used for the var of a leaf node
// (spec.md §9, "Sentinel 0xFFFFF"). It is larger than any legal variable
// index, which keeps min()-based pivot selection correct for leaves.
const NoVar int32 = 0xFFFFF

type rawnode struct {
	v    int32 // variable level
	low  Node
	high Node
}

type ukey struct {
	v         int32
	low, high Node
}

// Manager owns a node table, its unique table, the operation caches, and the
// reference-protection stack used by every recursive operation in this
// package. It corresponds to the "TBDD package" collaborator of spec.md §1,
// adapted from rudd's tables/BDD types (hudd.go).
type Manager struct {
	mu     sync.RWMutex
	nodes  []rawnode
	unique map[ukey]Node
	varnum int32

	refcount map[Node]int32 // GC-root protection counts; see Protect/Unprotect in gc.go

	applyCache   *opcache
	iteCache     *opcache
	appexCache   *opcache
	replaceCache *opcache
	external     *Cache // exposed opcode-addressable cache for saturation memoization

	gcHistory []GCPoint
	preGC     []Hook
	postGC    []Hook

	err error
}

// Option configures a Manager at construction time. Adapted from rudd's
// functional-options config.go.
type Option func(*options)

type options struct {
	nodesize   int
	cachesize  int
	cacheratio int
}

// Nodesize sets the initial capacity of the node table.
func Nodesize(n int) Option { return func(o *options) { o.nodesize = n } }

// Cachesize sets the initial capacity of each operation cache.
func Cachesize(n int) Option { return func(o *options) { o.cachesize = n } }

// Cacheratio sets the cache-to-table ratio (percent) recorded with each
// operation cache; the caches never grow, whatever its value.
func Cacheratio(n int) Option { return func(o *options) { o.cacheratio = n } }

// New creates a Manager over varnum Boolean variables (the interleaved
// current/next state bits, i.e. 2*totalbits in spec.md terms).
func New(varnum int, opts ...Option) (*Manager, error) {
	if varnum < 1 || int32(varnum) > NoVar {
		return nil, fmt.Errorf("tbdd: bad variable count %d", varnum)
	}
	o := &options{nodesize: 2*varnum + 2, cachesize: 10000, cacheratio: 0}
	for _, f := range opts {
		f(o)
	}
	m := &Manager{
		varnum:   int32(varnum),
		refcount: make(map[Node]int32, 2*varnum+4),
	}
	m.nodes = make([]rawnode, 2, o.nodesize)
	m.nodes[falseNode] = rawnode{v: m.varnum, low: falseNode, high: falseNode}
	m.nodes[trueNode] = rawnode{v: m.varnum, low: trueNode, high: trueNode}
	m.unique = make(map[ukey]Node, o.nodesize)

	size := primeGte(o.cachesize)
	m.applyCache = newOpcache(size, o.cacheratio)
	m.iteCache = newOpcache(size, o.cacheratio)
	m.appexCache = newOpcache(size, o.cacheratio)
	m.replaceCache = newOpcache(size, o.cacheratio)
	m.external = NewCache(size, o.cacheratio)
	return m, nil
}

// Varnum returns the number of Boolean variables the manager was built with.
func (m *Manager) Varnum() int { return int(m.varnum) }

// Error returns the error recorded by the last failing operation, or nil.
func (m *Manager) Error() error { return m.err }

func (m *Manager) seterror(format string, a ...interface{}) {
	if m.err == nil {
		m.err = fmt.Errorf(format, a...)
	}
}

// mk is the canonical node constructor: it elides redundant tests
// (low == high) and deduplicates through the unique table, exactly like
// rudd's makenode (hkernel.go). It grows the node table by append; this
// module trades rudd's free-list/compaction scheme for Go's own GC over the
// table slice (see DESIGN.md) since nothing outside the table ever observes
// a node's numeric address changing.
func (m *Manager) mk(v int32, low, high Node) Node {
	if low == high {
		return low
	}
	key := ukey{v, low, high}
	m.mu.RLock()
	if n, ok := m.unique[key]; ok {
		m.mu.RUnlock()
		return n
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.unique[key]; ok {
		return n
	}
	n := Node(len(m.nodes))
	m.nodes = append(m.nodes, rawnode{v: v, low: low, high: high})
	m.unique[key] = n
	return n
}

func (m *Manager) varOf(n Node) int32 {
	if n == falseNode || n == trueNode {
		return NoVar
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nodes[n].v
}

func (m *Manager) lowOf(n Node) Node {
	if n == falseNode || n == trueNode {
		return n
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nodes[n].low
}

func (m *Manager) highOf(n Node) Node {
	if n == falseNode || n == trueNode {
		return n
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nodes[n].high
}

// Size returns the current number of allocated table entries.
func (m *Manager) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}
