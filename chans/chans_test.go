// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"testing"

	"cogentcore.org/core/math32"
)

// difTol is the numerical difference tolerance for comparing float values
const difTol = float32(1.0e-4)

func CmprFloats(got, trg []float32, msg string, t *testing.T) {
	t.Helper()
	for i := range got {
		dif := math32.Abs(got[i] - trg[i])
		if dif > difTol {
			t.Errorf("%v err: got: %v, trg: %v, dif: %v\n", msg, got[i], trg[i], dif)
		}
	}
}

func TestGateSteadyStateAtRest(t *testing.T) {
	// classic squid-axon steady states at -65 mV
	gs := GateState{}
	gs.InitSteady(-65)
	CmprFloats([]float32{gs.M, gs.H, gs.N}, []float32{0.052932, 0.596121, 0.317677}, "steady state at -65", t)
}

func TestVTrapSingularity(t *testing.T) {
	// AlphaM has its removable singularity at v = -40: limit is 0.1 * y = 1
	CmprFloats([]float32{AlphaM(-40)}, []float32{1.0}, "alpha_m at -40", t)
	// continuity on either side of the singularity
	lo := AlphaM(-40.001)
	hi := AlphaM(-39.999)
	if math32.Abs(hi-lo) > 1e-3 {
		t.Errorf("alpha_m discontinuous at singularity: %v vs %v", lo, hi)
	}
	CmprFloats([]float32{AlphaN(-55)}, []float32{0.1}, "alpha_n at -55", t)
}

func TestGateStepConverges(t *testing.T) {
	// at fixed voltage, repeated steps must converge to steady state
	gs := GateState{}
	gs.InitSteady(-65)
	v := float32(-30)
	for i := 0; i < 4000; i++ {
		gs.Step(v, 0.025)
	}
	trg := GateState{}
	trg.InitSteady(v)
	CmprFloats([]float32{gs.M, gs.H, gs.N}, []float32{trg.M, trg.H, trg.N}, "gate convergence at -30", t)
}

func TestGateStepBounded(t *testing.T) {
	gs := GateState{}
	gs.InitSteady(-65)
	for _, v := range []float32{-100, -65, -40, 0, 40, 100} {
		for i := 0; i < 100; i++ {
			gs.Step(v, 0.025)
			for _, x := range []float32{gs.M, gs.H, gs.N} {
				if x < 0 || x > 1 {
					t.Fatalf("gate out of [0,1] at v=%v: %v", v, x)
				}
			}
		}
	}
}

func TestHHConductances(t *testing.T) {
	hh := HHParams{}
	hh.Defaults()
	CmprFloats([]float32{hh.GNa(1, 1), hh.GK(1)}, []float32{0.12, 0.036}, "maximal conductances", t)
	CmprFloats([]float32{hh.GNa(0.5, 0.5), hh.GK(0.5)}, []float32{0.12 * 0.0625, 0.036 * 0.0625}, "half-gated conductances", t)
}
