// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package strategy

import (
	"testing"

	"github.com/dalzilio/tbdd-reach/internal/model"
	"github.com/dalzilio/tbdd-reach/internal/pool"
	"github.com/dalzilio/tbdd-reach/internal/relation"
	"github.com/dalzilio/tbdd-reach/internal/tbdd"
)

// TestBFSReachesEveryCombinationOfIndependentComponents checks BFS against
// twoTogglesFixture's hand-computed reachable set, and that it took exactly
// three levels: the two single-bit flips appear on level 1, their
// combination (both bits flipped) only appears on level 2, and level 3
// finds nothing new and terminates the search.
func TestBFSReachesEveryCombinationOfIndependentComponents(t *testing.T) {
	mgr, dom, next, initial := twoTogglesFixture(t)
	res := BFS(mgr, dom, next, initial, nil, false)

	want := wantTwoTogglesReachable(mgr)
	if !res.Visited.SameSet(want) {
		t.Errorf("BFS visited = %+v, want %+v", res.Visited, want)
	}
	if res.Levels != 3 {
		t.Errorf("BFS levels = %d, want 3", res.Levels)
	}
}

// TestBFSEmptyRelationIsJustInitial checks the degenerate zero-partition
// model: nothing can fire, so the reachable set is exactly the initial
// state after a single (zeroth) level.
func TestBFSEmptyRelationIsJustInitial(t *testing.T) {
	mgr, dom, next, initial := emptyRelationFixture(t)
	res := BFS(mgr, dom, next, initial, nil, false)

	if !res.Visited.SameSet(initial) {
		t.Errorf("BFS(no partitions) visited = %+v, want initial %+v", res.Visited, initial)
	}
	if res.Levels != 0 {
		t.Errorf("BFS(no partitions) levels = %d, want 0", res.Levels)
	}
}

// TestBFSIdentityRelationFixpointsImmediately checks that a self-loop-only
// relation reaches its fixpoint after one level: the identity step produces
// no state outside what is already visited, so level 1 finds an empty
// front and the loop terminates without ever growing the visited set.
func TestBFSIdentityRelationFixpointsImmediately(t *testing.T) {
	mgr, dom, next, initial := identityRelationFixture(t)
	res := BFS(mgr, dom, next, initial, nil, false)

	if !res.Visited.SameSet(initial) {
		t.Errorf("BFS(identity) visited = %+v, want initial %+v", res.Visited, initial)
	}
	if res.Levels != 1 {
		t.Errorf("BFS(identity) levels = %d, want 1", res.Levels)
	}
}

// TestPARMatchesBFS checks PAR and BFS agree by structural equality
// (spec.md §8 "strategy equivalence"), on a fixture with a nontrivial
// number of partitions to actually exercise the fork/join split.
func TestPARMatchesBFS(t *testing.T) {
	mgr, dom, next, initial := twoTogglesFixture(t)
	bfs := BFS(mgr, dom, next, initial, nil, false)
	par := PAR(mgr, pool.New(2), dom, next, initial, nil, false)

	if !bfs.Visited.SameSet(par.Visited) {
		t.Errorf("PAR visited = %+v, want BFS visited %+v", par.Visited, bfs.Visited)
	}
}

// TestChainingMatchesBFS checks Chaining and BFS agree on the final
// reachable set, even though Chaining folds all partitions into each
// iteration instead of unioning per-partition images (spec.md §4.6).
func TestChainingMatchesBFS(t *testing.T) {
	mgr, dom, next, initial := twoTogglesFixture(t)
	bfs := BFS(mgr, dom, next, initial, nil, false)
	chaining := Chaining(mgr, dom, next, initial, nil)

	if !bfs.Visited.SameSet(chaining.Visited) {
		t.Errorf("Chaining visited = %+v, want BFS visited %+v", chaining.Visited, bfs.Visited)
	}
}

// TestSATMatchesBFS checks SAT and BFS agree, after sorting the partitions
// by leading variable as the orchestrator does before invoking SAT.
func TestSATMatchesBFS(t *testing.T) {
	mgr, dom, next, initial := twoTogglesFixture(t)
	bfs := BFS(mgr, dom, next, initial, nil, false)

	relation.SortByLeadingVar(mgr, next)
	sat := SAT(mgr, pool.New(2), dom, next, initial, nil)

	if !bfs.Visited.SameSet(sat.Visited) {
		t.Errorf("SAT visited = %+v, want BFS visited %+v", sat.Visited, bfs.Visited)
	}
}

// TestSATHandlesSharedLeadingVariable checks SAT against counterMod4Fixture,
// whose two partitions share a leading variable: sat.go's satFixpoint must
// chain-apply both of them together over more than one pass (countRun == 2)
// before reaching its local fixpoint, rather than the single-pass loop body
// every other fixture exercises.
func TestSATHandlesSharedLeadingVariable(t *testing.T) {
	mgr, dom, next, initial := counterMod4Fixture(t)
	bfs := BFS(mgr, dom, next, initial, nil, false)

	relation.SortByLeadingVar(mgr, next)
	sat := SAT(mgr, pool.New(2), dom, next, initial, nil)

	if !bfs.Visited.SameSet(sat.Visited) {
		t.Errorf("SAT visited = %+v, want BFS visited %+v", sat.Visited, bfs.Visited)
	}
}

// TestBFSDeadlockedIsEmptyWhenCounterAlwaysMoves checks --deadlocks on
// counterMod4Fixture: every one of the four counter values has an enabled
// partition (the counter always advances), so no reachable state is
// deadlocked.
func TestBFSDeadlockedIsEmptyWhenCounterAlwaysMoves(t *testing.T) {
	mgr, dom, next, initial := counterMod4Fixture(t)
	res := BFS(mgr, dom, next, initial, nil, true)

	if !res.Deadlocked.IsFalse() {
		t.Errorf("Deadlocked = %+v, want false (every state has an enabled partition)", res.Deadlocked)
	}
}

// TestBFSDeadlockedFindsStateWithNoSuccessor checks --deadlocks on a
// one-shot relation that only fires from bit=0 (toggling it to bit=1): the
// reachable state bit=1 has no enabled partition and must be reported
// deadlocked, while bit=0 (which can still fire) must not be.
func TestBFSDeadlockedFindsStateWithNoSuccessor(t *testing.T) {
	dom := model.NewDomain([]int{1}, 0)
	mgr, err := tbdd.New(dom.Varnum())
	if err != nil {
		t.Fatalf("tbdd.New(%d): %v", dom.Varnum(), err)
	}
	oneShot := mgr.And(mgr.NIthvar(0), mgr.Ithvar(1)) // only fires from bit=0
	raw := []model.RawRelation{{BDD: oneShot, RProj: []int{0}, WProj: []int{0}}}
	next, err := relation.Preprocess(mgr, dom, raw)
	if err != nil {
		t.Fatalf("relation.Preprocess: %v", err)
	}
	initial := mgr.NIthvar(0) // bit=0

	res := BFS(mgr, dom, next, initial, nil, true)

	want := mgr.Ithvar(0) // bit=1, the deadlocked state
	if !res.Deadlocked.SameSet(want) {
		t.Errorf("Deadlocked = %+v, want %+v (only bit=1 has no enabled partition)", res.Deadlocked, want)
	}
}

// TestAllStrategiesAgreeOnEmptyRelation exercises every strategy against
// the zero-partition fixture: all four must report exactly the initial
// state, none of them crashing on an empty next slice.
func TestAllStrategiesAgreeOnEmptyRelation(t *testing.T) {
	mgr, dom, next, initial := emptyRelationFixture(t)

	bfs := BFS(mgr, dom, next, initial, nil, false)
	par := PAR(mgr, pool.New(2), dom, next, initial, nil, false)
	chaining := Chaining(mgr, dom, next, initial, nil)
	sat := SAT(mgr, pool.New(2), dom, next, initial, nil)

	for name, res := range map[string]Result{"BFS": bfs, "PAR": par, "Chaining": chaining, "SAT": sat} {
		if !res.Visited.SameSet(initial) {
			t.Errorf("%s(no partitions) = %+v, want initial %+v", name, res.Visited, initial)
		}
	}
}

// countingReporter records every Level/Done callback it receives and the
// visited set each one carried, used to check that attaching a Reporter
// never changes what a strategy computes, only what gets observed.
type countingReporter struct {
	levels  int
	done    int
	lastVis tbdd.Ref
}

func (c *countingReporter) Level(n int, mgr *tbdd.Manager, visited tbdd.Ref, dom *tbdd.VarSet) {
	c.levels++
	c.lastVis = visited
}

func (c *countingReporter) Done(n int, mgr *tbdd.Manager, visited tbdd.Ref, dom *tbdd.VarSet) {
	c.done++
	c.lastVis = visited
}

// TestReporterIsTransparent checks that running BFS with a Reporter
// attached produces the same final visited set as running it with a nil
// Reporter, and that Done fires exactly once carrying that same set.
func TestReporterIsTransparent(t *testing.T) {
	mgr, dom, next, initial := twoTogglesFixture(t)
	plain := BFS(mgr, dom, next, initial, nil, false)

	rep := &countingReporter{}
	reported := BFS(mgr, dom, next, initial, rep, false)

	if !plain.Visited.SameSet(reported.Visited) {
		t.Errorf("attaching a Reporter changed the result: got %+v, want %+v", reported.Visited, plain.Visited)
	}
	if rep.done != 1 {
		t.Errorf("Done called %d times, want 1", rep.done)
	}
	if !rep.lastVis.SameSet(reported.Visited) {
		t.Errorf("Done's visited = %+v, want final visited %+v", rep.lastVis, reported.Visited)
	}
	if rep.levels != reported.Levels+1 {
		t.Errorf("Level called %d times, want %d (one per level plus the initial report)", rep.levels, reported.Levels+1)
	}
}
