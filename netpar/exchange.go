// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netpar

import (
	"math"
	"sync"
)

// Exchanger is the collective transport between ranks.  All methods are
// collective: every rank must call them in the same order.
type Exchanger interface {
	// Rank returns this process's rank, 0 <= rank < Size
	Rank() int

	// Size returns the number of ranks
	Size() int

	// ExchangeSpikes performs an all-to-all spike exchange: every rank
	// receives the concatenation of every rank's outgoing spikes.
	ExchangeSpikes(out []Spike) ([]Spike, error)

	// AllMinF32 returns the minimum of v across all ranks
	AllMinF32(v float32) (float32, error)

	// Barrier blocks until all ranks reach it
	Barrier() error
}

// Serial is the single-process exchanger: rank 0 of 1, all collectives
// are local no-ops.
type Serial struct{}

func (Serial) Rank() int { return 0 }

func (Serial) Size() int { return 1 }

func (Serial) ExchangeSpikes(out []Spike) ([]Spike, error) {
	all := make([]Spike, len(out))
	copy(all, out)
	return all, nil
}

func (Serial) AllMinF32(v float32) (float32, error) { return v, nil }

func (Serial) Barrier() error { return nil }

// localGroup is the shared state for a set of in-process ranks running
// on goroutines, used by tests and by multi-worker runs without MPI.
// Collectives are phased: contributions accumulate under the lock and
// the last arriving rank publishes the combined result and releases the
// others.  A straggler from round g cannot observe round g+1's result,
// because round g+1 cannot complete until the straggler contributes.
type localGroup struct {
	mu     sync.Mutex
	cond   *sync.Cond
	n      int
	cnt    int
	gen    int64
	spikes []Spike
	minIn  float32
	res    []Spike
	minRes float32
}

// round is the one phased collective: combines spike lists and a min
func (lg *localGroup) round(sp []Spike, v float32) ([]Spike, float32) {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	if lg.cnt == 0 {
		lg.spikes = lg.spikes[:0]
		lg.minIn = float32(math.Inf(1))
	}
	lg.spikes = append(lg.spikes, sp...)
	if v < lg.minIn {
		lg.minIn = v
	}
	lg.cnt++
	if lg.cnt == lg.n {
		lg.res = append([]Spike(nil), lg.spikes...)
		lg.minRes = lg.minIn
		lg.cnt = 0
		lg.gen++
		lg.cond.Broadcast()
		return lg.res, lg.minRes
	}
	g := lg.gen
	for lg.gen == g {
		lg.cond.Wait()
	}
	return lg.res, lg.minRes
}

// LocalExchange is one rank of an in-process group
type LocalExchange struct {
	grp  *localGroup
	rank int
}

// NewLocalGroup returns n in-process exchangers sharing one group.
// Each must be used by exactly one goroutine.
func NewLocalGroup(n int) []*LocalExchange {
	grp := &localGroup{n: n}
	grp.cond = sync.NewCond(&grp.mu)
	exs := make([]*LocalExchange, n)
	for i := range exs {
		exs[i] = &LocalExchange{grp: grp, rank: i}
	}
	return exs
}

func (le *LocalExchange) Rank() int { return le.rank }

func (le *LocalExchange) Size() int { return le.grp.n }

func (le *LocalExchange) ExchangeSpikes(out []Spike) ([]Spike, error) {
	all, _ := le.grp.round(out, float32(math.Inf(1)))
	// callers may sort or retain the result, so each rank gets its own copy
	cp := append([]Spike(nil), all...)
	return cp, nil
}

func (le *LocalExchange) AllMinF32(v float32) (float32, error) {
	_, mn := le.grp.round(nil, v)
	return mn, nil
}

func (le *LocalExchange) Barrier() error {
	le.grp.round(nil, float32(math.Inf(1)))
	return nil
}
