// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

// entry and opcache implement a fixed-size, modulo-hashed operation cache,
// adapted from rudd's data4ncache (cache.go): each slot holds the last
// (a, b, c) key seen at that hash bucket together with its result, so a
// lookup is a single array access and a collision simply evicts the old
// entry. The cache is intentionally lossy: a miss just recomputes.
type entry struct {
	valid  bool
	a, b, c int64
	opcode int64
	res    int64
}

type opcache struct {
	table  []entry
	ratio  int
	hits   int
	misses int
}

func newOpcache(size, ratio int) *opcache {
	return &opcache{table: make([]entry, size), ratio: ratio}
}

func (c *opcache) reset() {
	for i := range c.table {
		c.table[i].valid = false
	}
}

func (c *opcache) get(op int, a, b, c2 int) (int64, bool) {
	idx := _TRIPLE(a, b, int(int64(c2)<<20)^op, len(c.table))
	e := &c.table[idx]
	if e.valid && e.opcode == int64(op) && e.a == int64(a) && e.b == int64(b) && e.c == int64(c2) {
		c.hits++
		return e.res, true
	}
	c.misses++
	return 0, false
}

func (c *opcache) put(op int, a, b, c2 int, res int) {
	idx := _TRIPLE(a, b, int(int64(c2)<<20)^op, len(c.table))
	c.table[idx] = entry{valid: true, opcode: int64(op), a: int64(a), b: int64(b), c: int64(c2), res: int64(res)}
}

// Cache is an opcode-addressable operation cache exposed to callers outside
// this package, used by the saturation strategy's memoization layer
// (spec.md §4.7) under a reserved opcode constant. It mirrors the external
// contract "cache_get3/cache_put3 on an opaque 64-bit opcode" from spec.md
// §6.3: the opcode namespaces the cache so unrelated callers never collide
// as long as they each reserve a distinct, sufficiently large opcode.
type Cache struct {
	table []entry
	ratio int
}

// NewCache allocates an opcode-addressable cache with the given capacity.
// ratio is stored with the cache but not used: the table keeps its initial
// size.
func NewCache(size, ratio int) *Cache {
	if size <= 0 {
		size = 10000
	}
	return &Cache{table: make([]entry, primeGte(size)), ratio: ratio}
}

// Get looks up (opcode, a, b, c); it is the consumer-facing cache_get3.
func (c *Cache) Get(opcode int64, a, b, c2 int64) (result int64, ok bool) {
	idx := tripleKey(opcode, a, b, c2, len(c.table))
	e := &c.table[idx]
	if e.valid && e.opcode == opcode && e.a == a && e.b == b && e.c == c2 {
		return e.res, true
	}
	return 0, false
}

// Put stores the result for (opcode, a, b, c); it is the consumer-facing
// cache_put3. Eviction on collision is intentional: the cache is lossy but
// never incorrect, since a miss always falls back to recomputation.
func (c *Cache) Put(opcode int64, a, b, c2 int64, result int64) {
	idx := tripleKey(opcode, a, b, c2, len(c.table))
	c.table[idx] = entry{valid: true, opcode: opcode, a: a, b: b, c: c2, res: result}
}

// Reset invalidates every entry, e.g. when validating the "cache
// transparency" property (spec.md §8) by forcing recomputation.
func (c *Cache) Reset() {
	for i := range c.table {
		c.table[i].valid = false
	}
}

func tripleKey(opcode, a, b, c int64, size int) int {
	mix := opcode ^ (c << 17) ^ (c >> 3)
	return _TRIPLE(int(a), int(b), int(mix), size)
}

// ExternalCache returns the Manager's own saturation-memoization cache,
// shared across all go_sat calls against this Manager so recursive calls at
// different recursion depths can reuse each other's results.
func (m *Manager) ExternalCache() *Cache { return m.external }
