// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cable

// cable.Time contains the timing state and parameters for integrating a model
type Time struct {

	// accumulated amount of simulated time, in ms
	T float32

	// fixed integration timestep, in ms
	Dt float32 `def:"0.025"`

	// step counter: number of integration steps taken since last Reset
	Step int
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.Dt = 0.025
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.T = 0
	tm.Step = 0
	if tm.Dt == 0 {
		tm.Defaults()
	}
}

// StepInc increments time by one timestep.  T is recomputed from the
// step counter so that ranks stepping independently stay in exact
// agreement about window boundaries.
func (tm *Time) StepInc() {
	tm.Step++
	tm.T = float32(tm.Step) * tm.Dt
}

// StepsPer returns the number of whole timesteps in the given interval
// (ms), minimum 1.
func (tm *Time) StepsPer(interval float32) int {
	n := int(interval/tm.Dt + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}
