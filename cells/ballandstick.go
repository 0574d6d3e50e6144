// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package cells provides point processes (ExpSyn, IClamp, NetStim) and
standard compartmental cell models built from cable sections.  The
ball-and-stick cell -- an active soma with a passive dendrite -- is the
workhorse model for network simulations.
*/
package cells

import (
	"fmt"

	"github.com/neuronsimulator/gonrn/cable"
)

// BallAndStick is the classic two-section cell: a Hodgkin-Huxley soma
// with a passive dendrite attached at the soma's 1 end, and an
// excitatory synapse at the dendrite midpoint.  Spikes are detected as
// rising-edge threshold crossings of the soma membrane potential.
type BallAndStick struct {
	cable.Cell

	// the active compartment: 12.6157 x 12.6157 um (500 um^2), HH
	Soma *cable.Section

	// the passive cable: 200 x 1 um
	Dend *cable.Section

	// excitatory synapse at the dendrite midpoint
	Syn *ExpSyn

	// spike detection threshold (mV) on the soma potential
	Thresh float32 `def:"10"`

	vprev     float32
	spikeTime float32
	spiked    bool
}

// NewBallAndStick returns a built and initialized ball-and-stick cell.
// dendNseg sets the spatial resolution of the dendrite (odd keeps a
// well-defined midpoint for the synapse).
func NewBallAndStick(name string, dendNseg int) (*BallAndStick, error) {
	bs := &BallAndStick{}
	bs.Name = name
	bs.Defaults()
	bs.Thresh = 10

	soma := cable.NewSection("soma")
	soma.L = 12.6157
	soma.Diam = 12.6157
	soma.Ra = 100
	soma.Cm = 1
	soma.HH = true
	bs.Soma = bs.AddSection(soma)

	dend := cable.NewSection("dend")
	dend.L = 200
	dend.Diam = 1
	dend.Ra = 100
	dend.Cm = 1
	dend.Nseg = dendNseg
	dend.Pas = true
	dend.Connect(soma, 1)
	bs.Dend = bs.AddSection(dend)

	if err := bs.Build(); err != nil {
		return nil, fmt.Errorf("BallAndStick %s: %w", name, err)
	}
	bs.Syn = NewExpSyn(&bs.Cell, dend, 0.5)
	bs.Init()
	return bs, nil
}

// Init initializes membrane state and clears any pending spike
func (bs *BallAndStick) Init() {
	bs.Cell.Init()
	bs.vprev = bs.VInit
	bs.spiked = false
}

// SomaV returns the soma midpoint membrane potential (mV)
func (bs *BallAndStick) SomaV() float32 {
	return bs.Soma.Seg(0.5).Vm
}

// Advance integrates the cell by one timestep and performs spike
// detection on the soma potential.
func (bs *BallAndStick) Advance(tm *cable.Time) {
	bs.vprev = bs.SomaV()
	bs.Step(tm)
	v := bs.SomaV()
	if bs.vprev < bs.Thresh && v >= bs.Thresh {
		bs.spikeTime = tm.T + tm.Dt // crossing completes at end of this step
		bs.spiked = true
	}
}

// Detect returns the pending spike from the last Advance, consuming it
func (bs *BallAndStick) Detect(tm *cable.Time) (float32, bool) {
	if !bs.spiked {
		return 0, false
	}
	bs.spiked = false
	return bs.spikeTime, true
}
