// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package relation

import "github.com/dalzilio/tbdd-reach/internal/tbdd"

// SortByLeadingVar orders relations by ascending tbdd_getvar(variables), a
// gnome sort per spec.md §4.2 ("Any stable sort is equally valid"); SAT and
// CHAINING require partitions sharing a leading variable to form contiguous
// runs so the saturation pivot loop can count them in one pass.
func SortByLeadingVar(mgr *tbdd.Manager, next []*Relation) {
	leading := func(r *Relation) int32 { return mgr.GetVar(r.Variables) }
	i := 0
	for i < len(next) {
		if i == 0 || leading(next[i-1]) <= leading(next[i]) {
			i++
		} else {
			next[i-1], next[i] = next[i], next[i-1]
			i--
		}
	}
}
