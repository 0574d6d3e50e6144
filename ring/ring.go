// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ring builds the classic ring network of ball-and-stick cells:
cell i's soma spike excites cell i+1's dendritic synapse, wrapping
around, with a single stimulator kicking off cell 0.  Cells are
distributed round-robin across ranks by GID, so the same network runs
serially, on in-process worker ranks, or across MPI.
*/
package ring

import (
	"fmt"

	"github.com/neuronsimulator/gonrn/cells"
	"github.com/neuronsimulator/gonrn/netpar"
)

// Params are the ring network construction parameters
type Params struct {

	// number of cells in the ring
	NCells int `def:"5"`

	// dendrite spatial resolution per cell (odd keeps the synapse midpoint)
	DendNseg int `def:"11"`

	// synaptic weight (uS) of the ring connections and the stimulus
	Weight float32 `def:"0.04"`

	// delivery delay (ms) of the ring connections
	Delay float32 `def:"5"`

	// time of the stimulator spike (ms)
	StimStart float32 `def:"9"`

	// delivery delay (ms) from the stimulator to cell 0
	StimDelay float32 `def:"1"`
}

// Defaults sets default parameter values
func (pr *Params) Defaults() {
	pr.NCells = 5
	pr.DendNseg = 11
	pr.Weight = 0.04
	pr.Delay = 5
	pr.StimStart = 9
	pr.StimDelay = 1
}

// Ring is one rank's share of the ring network
type Ring struct {
	Params

	// the parallel context running this rank
	PC *netpar.ParallelContext

	// the cells this rank owns, by GID
	Cells map[int]*cells.BallAndStick

	// the stimulator, non-nil only on the rank owning cell 0
	Stim *cells.NetStim
}

// stimGID returns the GID assigned to the stimulator, one past the cells
func (rg *Ring) stimGID() int { return rg.NCells }

// New builds this rank's share of the ring on the given exchanger.
// Every rank must call it with identical Params.
func New(ex netpar.Exchanger, par Params) (*Ring, error) {
	if par.NCells < 2 {
		return nil, fmt.Errorf("ring: NCells must be >= 2, got %d", par.NCells)
	}
	rg := &Ring{Params: par, PC: netpar.New(ex), Cells: make(map[int]*cells.BallAndStick)}
	pc := rg.PC

	mine, err := pc.RoundRobin(par.NCells)
	if err != nil {
		return nil, err
	}
	// the stimulator lives with cell 0
	if err := pc.SetGID2Node(rg.stimGID(), pc.OwnerRank(0)); err != nil {
		return nil, err
	}

	for _, gid := range mine {
		cell, err := cells.NewBallAndStick(fmt.Sprintf("cell_%d", gid), par.DendNseg)
		if err != nil {
			return nil, err
		}
		rg.Cells[gid] = cell
		pc.AddCell(cell)
		if err := pc.Register(gid, cell); err != nil {
			return nil, err
		}
		pc.SpikeRecord(gid)
	}

	// each local cell listens to its ring predecessor
	for _, gid := range mine {
		src := (gid - 1 + par.NCells) % par.NCells
		nc, err := pc.Connect(src, rg.Cells[gid].Syn)
		if err != nil {
			return nil, err
		}
		nc.Weight = par.Weight
		nc.Delay = par.Delay
	}

	if pc.OwnGID(rg.stimGID()) {
		stim := cells.NewNetStim()
		stim.Start = par.StimStart
		stim.Number = 1
		if err := pc.Register(rg.stimGID(), stim); err != nil {
			return nil, err
		}
		rg.Stim = stim
		nc, err := pc.Connect(rg.stimGID(), rg.Cells[0].Syn)
		if err != nil {
			return nil, err
		}
		nc.Weight = par.Weight
		nc.Delay = par.StimDelay
	}
	return rg, nil
}

// Run advances the network to tstop (ms) and returns the merged spike
// raster of all cells, identical on every rank.  Stimulator spikes are
// not part of the raster.
func (rg *Ring) Run(tstop float32) ([]netpar.Spike, error) {
	if _, err := rg.PC.SetMaxStep(10); err != nil {
		return nil, err
	}
	if err := rg.PC.Psolve(tstop); err != nil {
		return nil, err
	}
	all, err := rg.PC.GatherSpikes()
	if err != nil {
		return nil, err
	}
	// drop the stimulator from the raster
	ras := all[:0]
	for _, spk := range all {
		if int(spk.GID) < rg.NCells {
			ras = append(ras, spk)
		}
	}
	return ras, nil
}
