// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chans provides the standard membrane conductance channels for
compartmental neuron models: the classic Hodgkin-Huxley sodium and
potassium channels with their voltage-dependent gating kinetics, and the
passive (leak) channel.  All conductance densities are in S/cm^2 and all
potentials in mV, per the standard cable-modeling conventions.
*/
package chans

// HHParams are the Hodgkin-Huxley channel parameters: maximal conductance
// densities for the transient sodium, delayed-rectifier potassium, and
// non-specific leak channels, with their reversal potentials.
// Defaults are the classic squid-axon values at 6.3 deg C.
type HHParams struct {

	// maximal sodium conductance density (S/cm^2)
	GbarNa float32 `def:"0.12"`

	// maximal potassium conductance density (S/cm^2)
	GbarK float32 `def:"0.036"`

	// leak conductance density (S/cm^2)
	GbarL float32 `def:"0.0003"`

	// sodium reversal potential (mV)
	ENa float32 `def:"50"`

	// potassium reversal potential (mV)
	EK float32 `def:"-77"`

	// leak reversal potential (mV)
	EL float32 `def:"-54.3"`
}

func (hh *HHParams) Defaults() {
	hh.GbarNa = 0.12
	hh.GbarK = 0.036
	hh.GbarL = 0.0003
	hh.ENa = 50
	hh.EK = -77
	hh.EL = -54.3
}

// Update must be called after any changes to parameters
func (hh *HHParams) Update() {
}

// GNa returns the sodium conductance density (S/cm^2) for given gate states
func (hh *HHParams) GNa(m, h float32) float32 {
	return hh.GbarNa * m * m * m * h
}

// GK returns the potassium conductance density (S/cm^2) for given gate state
func (hh *HHParams) GK(n float32) float32 {
	return hh.GbarK * n * n * n * n
}

// PasParams are the passive leak channel parameters, used for dendritic
// compartments that have no active conductances.
type PasParams struct {

	// passive conductance density (S/cm^2)
	G float32 `def:"0.001"`

	// passive reversal potential (mV)
	E float32 `def:"-65"`
}

func (pp *PasParams) Defaults() {
	pp.G = 0.001
	pp.E = -65
}

func (pp *PasParams) Update() {
}
