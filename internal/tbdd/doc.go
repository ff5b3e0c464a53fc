// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package tbdd implements Tagged Binary Decision Diagrams, a BDD variant where
each reference carries a tag marking the first variable the represented
function is known not to depend on. Tags let a saturation-style fixpoint
recursion skip whole runs of "don't care" variable levels in constant time
instead of materializing a chain of redundant nodes for each of them.

The underlying node table, unique table, operation caches, and
reference-protected garbage collector are a direct adaptation of the
hashmap-based BDD implementation in github.com/dalzilio/rudd: we hash
(var, low, high) triples into a Go map for the unique table, use the same
modulo-pairing scheme to size and index fixed operation caches, and run a
mark pass over the nodes callers protect (Protect before any allocating
call, Unprotect on every return path). The node table is append-only: the
mark pass measures occupancy and clears the operation caches but never
reclaims nodes.

Tags are layered on top as a (Node, Tag) pair, kept outside the node itself:
Settag rewrites only the integer tag field of a reference and performs no
allocation and no lookup, which is the entire efficiency argument for tags.
*/
package tbdd
