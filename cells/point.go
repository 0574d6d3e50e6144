// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cells

import (
	"cogentcore.org/core/math32"
	"github.com/neuronsimulator/gonrn/cable"
)

// ExpSyn is a single-exponential conductance synapse: each delivered
// event increments the conductance by the connection weight, and the
// conductance decays toward zero with time constant Tau.  Reversal
// potential E = 0 makes it excitatory at typical resting potentials.
type ExpSyn struct {

	// decay time constant (ms)
	Tau float32 `def:"2"`

	// reversal potential (mV)
	E float32 `def:"0"`

	// current synaptic conductance (uS)
	G float32

	seg int
}

// NewExpSyn returns a synapse attached at position x on given section.
// The cell must already be Built so segment indexes are valid.
func NewExpSyn(cl *cable.Cell, sc *cable.Section, x float32) *ExpSyn {
	sy := &ExpSyn{seg: cl.GlobalSeg(sc, x)}
	sy.Defaults()
	cl.AttachPoint(sy)
	return sy
}

func (sy *ExpSyn) Defaults() {
	sy.Tau = 2
	sy.E = 0
}

// Deliver adds the weight (uS) of an arriving synaptic event
func (sy *ExpSyn) Deliver(w float32) {
	sy.G += w
}

func (sy *ExpSyn) Seg() int { return sy.seg }

func (sy *ExpSyn) Current(tm *cable.Time, vm float32) (g, inj float32) {
	return sy.G, sy.G * sy.E
}

func (sy *ExpSyn) Step(tm *cable.Time) {
	sy.G *= math32.Exp(-tm.Dt / sy.Tau)
}

func (sy *ExpSyn) Init() {
	sy.G = 0
}

// IClamp is a current clamp: injects Amp nA for Dur ms starting at Delay ms.
type IClamp struct {

	// onset time (ms)
	Delay float32

	// duration (ms)
	Dur float32

	// amplitude (nA)
	Amp float32

	seg int
}

// NewIClamp returns a current clamp attached at position x on given section.
// The cell must already be Built so segment indexes are valid.
func NewIClamp(cl *cable.Cell, sc *cable.Section, x float32) *IClamp {
	ic := &IClamp{seg: cl.GlobalSeg(sc, x)}
	cl.AttachPoint(ic)
	return ic
}

func (ic *IClamp) Seg() int { return ic.seg }

func (ic *IClamp) Current(tm *cable.Time, vm float32) (g, inj float32) {
	if tm.T >= ic.Delay && tm.T < ic.Delay+ic.Dur {
		return 0, ic.Amp
	}
	return 0, 0
}

func (ic *IClamp) Step(tm *cable.Time) {}

func (ic *IClamp) Init() {}

// NetStim is a spike-train event source: emits Number spikes starting at
// Start ms, separated by Interval ms.  It is not attached to a membrane --
// it drives synapses through network connections, like a cell does.
type NetStim struct {

	// time of first spike (ms)
	Start float32 `def:"9"`

	// number of spikes to emit
	Number int `def:"1"`

	// interspike interval (ms)
	Interval float32 `def:"10"`

	idx int
}

// NewNetStim returns a new stimulator with default parameters
func NewNetStim() *NetStim {
	ns := &NetStim{}
	ns.Defaults()
	return ns
}

func (ns *NetStim) Defaults() {
	ns.Start = 9
	ns.Number = 1
	ns.Interval = 10
}

// Init resets the emitted-spike counter
func (ns *NetStim) Init() {
	ns.idx = 0
}

// Advance is a no-op: stimulator state is purely event times
func (ns *NetStim) Advance(tm *cable.Time) {}

// Detect reports the next scheduled spike if it falls at or before the
// current time; at most one spike is emitted per timestep, so Interval
// must be >= dt to not lose spikes.
func (ns *NetStim) Detect(tm *cable.Time) (float32, bool) {
	if ns.idx >= ns.Number {
		return 0, false
	}
	st := ns.Start + float32(ns.idx)*ns.Interval
	if tm.T >= st {
		ns.idx++
		return st, true
	}
	return 0, false
}
