// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import "cogentcore.org/core/math32"

// VTrap computes x / (exp(x/y) - 1) with the standard Taylor expansion
// near the singularity at x = 0, keeping the gating rate functions
// numerically smooth as the voltage crosses the half-activation points.
func VTrap(x, y float32) float32 {
	if math32.Abs(x/y) < 1e-6 {
		return y * (1 - x/y/2)
	}
	return x / (math32.Exp(x/y) - 1)
}

// AlphaM is the sodium activation opening rate (1/ms) at membrane potential v (mV)
func AlphaM(v float32) float32 {
	return 0.1 * VTrap(-(v+40), 10)
}

// BetaM is the sodium activation closing rate (1/ms)
func BetaM(v float32) float32 {
	return 4 * math32.Exp(-(v+65)/18)
}

// AlphaH is the sodium inactivation opening rate (1/ms)
func AlphaH(v float32) float32 {
	return 0.07 * math32.Exp(-(v+65)/20)
}

// BetaH is the sodium inactivation closing rate (1/ms)
func BetaH(v float32) float32 {
	return 1 / (math32.Exp(-(v+35)/10) + 1)
}

// AlphaN is the potassium activation opening rate (1/ms)
func AlphaN(v float32) float32 {
	return 0.01 * VTrap(-(v+55), 10)
}

// BetaN is the potassium activation closing rate (1/ms)
func BetaN(v float32) float32 {
	return 0.125 * math32.Exp(-(v+65)/80)
}

// GateState holds the Hodgkin-Huxley gating state variables for one
// membrane compartment.  Gates are advanced by the exponential Euler
// method (cnexp), which is exact for the gate equations at fixed voltage
// and unconditionally stable.
type GateState struct {

	// sodium activation gate
	M float32

	// sodium inactivation gate
	H float32

	// potassium activation gate
	N float32
}

// InitSteady sets all gates to their steady-state values at membrane
// potential v, the standard initialization at the start of a run.
func (gs *GateState) InitSteady(v float32) {
	am, bm := AlphaM(v), BetaM(v)
	ah, bh := AlphaH(v), BetaH(v)
	an, bn := AlphaN(v), BetaN(v)
	gs.M = am / (am + bm)
	gs.H = ah / (ah + bh)
	gs.N = an / (an + bn)
}

// Step advances the gates by dt (ms) at membrane potential v (mV),
// using the exponential Euler update x += (1 - exp(-dt/tau)) * (xinf - x).
func (gs *GateState) Step(v, dt float32) {
	gs.M = gateStep(gs.M, AlphaM(v), BetaM(v), dt)
	gs.H = gateStep(gs.H, AlphaH(v), BetaH(v), dt)
	gs.N = gateStep(gs.N, AlphaN(v), BetaN(v), dt)
}

func gateStep(x, a, b, dt float32) float32 {
	sum := a + b
	inf := a / sum
	return x + (1-math32.Exp(-dt*sum))*(inf-x)
}
