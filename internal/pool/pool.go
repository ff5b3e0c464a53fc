// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package pool implements the fork/join work-stealing task model of
// spec.md §5: a fixed-size worker pool executes fork/join tasks, spawning
// one branch of a recursion while the caller inlines the other and joins
// before returning. The pool is a single bounded semaphore shared by every
// Fork call on it, standing in for sylvan's Lace queue (spec.md §5): a
// fork that finds the semaphore fully held runs its left branch inline
// instead of spawning, rather than growing the number of concurrent
// goroutines without bound.
package pool

import (
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of concurrently running forked tasks to the
// configured worker count (0 = autodetect hardware parallelism), per
// spec.md §6.2's `-w` flag and §5's "fixed pool of worker threads." The
// bound is enforced by sem, a single weighted semaphore shared across every
// Fork call made on this Pool and sized once, standing in for sylvan's Lace
// queue of bounded capacity rather than a per-call limiter that a fresh
// errgroup.Group would reset on every invocation.
type Pool struct {
	workers int
	sem     *semaphore.Weighted
}

// New returns a Pool with the given worker count; 0 means
// runtime.GOMAXPROCS(0).
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers, sem: semaphore.NewWeighted(int64(workers))}
}

// Workers reports the pool's configured concurrency limit.
func (p *Pool) Workers() int { return p.workers }

// Fork runs left and right to completion, spawning left on a pool worker
// while right runs inline on the caller's goroutine, then joins before
// returning — the recursion shape spec.md §5 describes for big_union, the
// BFS/PAR level kernel, and go_sat's cofactor split. If the pool's shared
// semaphore has no free slot, left runs inline before right rather than
// blocking the caller on a slot (which, with every goroutine in the
// recursion tree drawing from the same bounded semaphore, could otherwise
// deadlock) or growing the goroutine count past workers. If either branch
// returns an error the other branch still runs to completion (there is no
// cancellation model, per spec.md §5), and the first error observed wins.
func Fork[L, R any](p *Pool, left func() (L, error), right func() (R, error)) (L, R, error) {
	var lv L
	var rv R
	done := make(chan error, 1)

	if p.sem.TryAcquire(1) {
		go func() {
			defer p.sem.Release(1)
			v, err := left()
			lv = v
			done <- err
		}()
	} else {
		v, err := left()
		lv = v
		done <- err
	}

	rv2, rerr := right()
	rv = rv2
	err := <-done
	if err == nil {
		err = rerr
	}
	return lv, rv, err
}
