// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package netpar distributes a spiking network simulation across ranks.

Cells are identified by global ids (GIDs).  Each rank owns a subset of
the GIDs, integrates only those cells, and announces their threshold
crossings as (gid, time) spikes.  Integration proceeds in windows no
longer than the minimum synaptic delay in the whole network: within a
window no rank can affect another, so ranks integrate independently and
exchange spikes all-to-all only at window boundaries.  Received spikes
are enqueued for local delivery at spike time + connection delay, which
the window bound guarantees is still in the future.

The same code runs single-process (Serial exchanger), multi-goroutine in
one process (LocalGroup, used by the tests), or across MPI ranks
(MPIExchanger, via the empi wrappers).
*/
package netpar

import (
	"fmt"
	"sort"

	"github.com/emer/emergent/v2/timer"
	"github.com/neuronsimulator/gonrn/cable"
)

// Spike is one threshold crossing of one source, as exchanged between ranks
type Spike struct {

	// global id of the source that fired
	GID int32

	// simulation time of the threshold crossing (ms)
	T float32
}

// SpikeSource is anything that owns a GID and emits spikes: a cell with
// a threshold detector, or a stimulator with scheduled event times.
// Detect is polled once per timestep, after integration.
type SpikeSource interface {
	Detect(tm *cable.Time) (float32, bool)
}

// Integrator is stepped once per timestep, before spike detection
type Integrator interface {
	Advance(tm *cable.Time)
}

// Target receives delivered synaptic events
type Target interface {
	Deliver(w float32)
}

// NetCon connects a spike source, identified by GID, to a local synaptic
// target with a weight and delay.  The source can live on any rank.
type NetCon struct {

	// global id of the spike source
	Src int

	// local synaptic target
	Tgt Target

	// synaptic weight (uS), added to the target conductance on delivery
	Weight float32

	// delivery delay (ms) after the source spike time
	Delay float32 `def:"1"`
}

// ParallelContext coordinates one rank's share of a distributed
// simulation: GID ownership, local sources and cells, connections,
// the delivery queue, and the windowed solve.
type ParallelContext struct {

	// the transport used for inter-rank collectives
	Ex Exchanger

	// simulation time state, shared by all local cells
	Time *cable.Time

	// exchange window (ms), set by SetMaxStep
	MaxStep float32

	// record timing of the integrate and exchange phases of Psolve,
	// for reporting via TimerReport
	RecFunTimes bool

	// timers for each phase of processing, when RecFunTimes is on
	FunTimes map[string]*timer.Time

	gidOwner   map[int]int
	localSrc   map[int]SpikeSource
	srcGIDs    []int // sorted local source gids, for deterministic polling
	cells      []Integrator
	cons       map[int][]*NetCon
	minDelay   float32
	haveCons   bool
	maxStepSet bool
	queue      eventQueue
	outbox     []Spike
	recs       map[int][]float32
}

// New returns a new ParallelContext using the given exchanger
func New(ex Exchanger) *ParallelContext {
	pc := &ParallelContext{
		Ex:       ex,
		Time:     cable.NewTime(),
		gidOwner: make(map[int]int),
		localSrc: make(map[int]SpikeSource),
		cons:     make(map[int][]*NetCon),
		recs:     make(map[int][]float32),
		FunTimes: make(map[string]*timer.Time),
	}
	return pc
}

// Rank returns this process's rank, 0 <= rank < NHost
func (pc *ParallelContext) Rank() int { return pc.Ex.Rank() }

// NHost returns the number of ranks
func (pc *ParallelContext) NHost() int { return pc.Ex.Size() }

// SetGID2Node declares that the given GID lives on the given rank.
// Every rank must make the same declarations.
func (pc *ParallelContext) SetGID2Node(gid, rank int) error {
	if r, ok := pc.gidOwner[gid]; ok && r != rank {
		return fmt.Errorf("netpar: gid %d already assigned to rank %d", gid, r)
	}
	if rank < 0 || rank >= pc.NHost() {
		return fmt.Errorf("netpar: gid %d: rank %d out of range 0..%d", gid, rank, pc.NHost()-1)
	}
	pc.gidOwner[gid] = rank
	return nil
}

// GIDExists reports whether the GID has been assigned to any rank
func (pc *ParallelContext) GIDExists(gid int) bool {
	_, ok := pc.gidOwner[gid]
	return ok
}

// OwnerRank returns the rank owning the given GID, -1 if unassigned
func (pc *ParallelContext) OwnerRank(gid int) int {
	if r, ok := pc.gidOwner[gid]; ok {
		return r
	}
	return -1
}

// OwnGID reports whether this rank owns the given GID
func (pc *ParallelContext) OwnGID(gid int) bool {
	return pc.OwnerRank(gid) == pc.Rank()
}

// Register associates a local spike source with a GID this rank owns
func (pc *ParallelContext) Register(gid int, src SpikeSource) error {
	if !pc.OwnGID(gid) {
		return fmt.Errorf("netpar: rank %d cannot register gid %d owned by rank %d", pc.Rank(), gid, pc.OwnerRank(gid))
	}
	if _, ok := pc.localSrc[gid]; ok {
		return fmt.Errorf("netpar: gid %d already registered", gid)
	}
	pc.localSrc[gid] = src
	pc.srcGIDs = append(pc.srcGIDs, gid)
	sort.Ints(pc.srcGIDs)
	return nil
}

// AddCell adds a local cell to be integrated each timestep
func (pc *ParallelContext) AddCell(ig Integrator) {
	pc.cells = append(pc.cells, ig)
}

// Connect creates a connection from the source GID to a local target.
// The source may live on any rank; the target must be local.  Returned
// NetCon's Weight and Delay can be adjusted before solving.
func (pc *ParallelContext) Connect(srcGID int, tgt Target) (*NetCon, error) {
	if !pc.GIDExists(srcGID) {
		return nil, fmt.Errorf("netpar: connect from unassigned gid %d", srcGID)
	}
	nc := &NetCon{Src: srcGID, Tgt: tgt, Delay: 1}
	pc.cons[srcGID] = append(pc.cons[srcGID], nc)
	pc.haveCons = true
	pc.maxStepSet = false
	return nc, nil
}

// SpikeRecord turns on spike time recording for the given GID.  Only the
// owning rank records; GatherSpikes merges records across ranks.
func (pc *ParallelContext) SpikeRecord(gid int) {
	if pc.OwnGID(gid) {
		if _, ok := pc.recs[gid]; !ok {
			pc.recs[gid] = []float32{}
		}
	}
}

// Barrier blocks until all ranks reach it
func (pc *ParallelContext) Barrier() error {
	return pc.Ex.Barrier()
}

// localMinDelay returns the smallest connection delay on this rank,
// or the given fallback if there are no connections.
func (pc *ParallelContext) localMinDelay(fallback float32) float32 {
	md := fallback
	for _, ncs := range pc.cons {
		for _, nc := range ncs {
			if nc.Delay < md {
				md = nc.Delay
			}
		}
	}
	return md
}

// SetMaxStep sets the exchange window to the global minimum connection
// delay across all ranks, bounded above by max (ms).  Must be called
// collectively.  Returns the resulting window.
func (pc *ParallelContext) SetMaxStep(max float32) (float32, error) {
	local := pc.localMinDelay(max)
	global, err := pc.Ex.AllMinF32(local)
	if err != nil {
		return 0, err
	}
	if global < pc.Time.Dt {
		return 0, fmt.Errorf("netpar: minimum delay %g ms is below dt %g ms", global, pc.Time.Dt)
	}
	pc.MaxStep = global
	pc.maxStepSet = true
	return global, nil
}

// Psolve advances the simulation to tstop (ms), exchanging spikes at
// every window boundary.  Callable repeatedly to advance in stages.
func (pc *ParallelContext) Psolve(tstop float32) error {
	if !pc.maxStepSet {
		if _, err := pc.SetMaxStep(10); err != nil {
			return err
		}
	}
	winSteps := pc.Time.StepsPer(pc.MaxStep)
	endStep := int(tstop/pc.Time.Dt + 0.5)
	for pc.Time.Step < endStep {
		n := winSteps
		if pc.Time.Step+n > endStep {
			n = endStep - pc.Time.Step
		}
		pc.FunTimerStart("Integrate")
		for i := 0; i < n; i++ {
			pc.deliverDue()
			for _, c := range pc.cells {
				c.Advance(pc.Time)
			}
			pc.Time.StepInc()
			for _, gid := range pc.srcGIDs {
				if st, ok := pc.localSrc[gid].Detect(pc.Time); ok {
					pc.outbox = append(pc.outbox, Spike{GID: int32(gid), T: st})
					if rec, on := pc.recs[gid]; on {
						pc.recs[gid] = append(rec, st)
					}
				}
			}
		}
		pc.FunTimerStop("Integrate")
		pc.FunTimerStart("Exchange")
		all, err := pc.Ex.ExchangeSpikes(pc.outbox)
		pc.FunTimerStop("Exchange")
		if err != nil {
			return err
		}
		pc.outbox = pc.outbox[:0]
		for _, spk := range all {
			for _, nc := range pc.cons[int(spk.GID)] {
				pc.queue.push(spk.T+nc.Delay, nc)
			}
		}
	}
	return nil
}

// deliverDue delivers all queued events due at the current time
func (pc *ParallelContext) deliverDue() {
	due := pc.Time.T + 0.5*pc.Time.Dt
	for {
		ev, ok := pc.queue.popDue(due)
		if !ok {
			return
		}
		ev.nc.Tgt.Deliver(ev.nc.Weight)
	}
}

// GatherSpikes merges the recorded spikes of all ranks and returns them
// to every rank, sorted by time then GID.  Must be called collectively.
func (pc *ParallelContext) GatherSpikes() ([]Spike, error) {
	var local []Spike
	for _, gid := range pc.srcGIDs {
		for _, st := range pc.recs[gid] {
			local = append(local, Spike{GID: int32(gid), T: st})
		}
	}
	all, err := pc.Ex.ExchangeSpikes(local)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].T != all[j].T {
			return all[i].T < all[j].T
		}
		return all[i].GID < all[j].GID
	})
	return all, nil
}

// SpikesFor returns this rank's recorded spike times for the given GID
func (pc *ParallelContext) SpikesFor(gid int) []float32 {
	return pc.recs[gid]
}

// RoundRobin assigns GIDs 0..n-1 to ranks round-robin and returns the
// GIDs this rank owns: gid = rank; gid < n; gid += nhost.
func (pc *ParallelContext) RoundRobin(n int) ([]int, error) {
	var mine []int
	for gid := 0; gid < n; gid++ {
		if err := pc.SetGID2Node(gid, gid%pc.NHost()); err != nil {
			return nil, err
		}
		if pc.OwnGID(gid) {
			mine = append(mine, gid)
		}
	}
	return mine, nil
}
