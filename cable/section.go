// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cable

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/neuronsimulator/gonrn/chans"
)

// cable.Segment holds all of the per-compartment state variables.
// Geometry-derived constants (Area, Cap) are computed by Cell.Build.
type Segment struct {

	// Hodgkin-Huxley gating state (M, H, N), used only if the section has HH
	chans.GateState

	// membrane potential (mV)
	Vm float32

	// sodium current (nA), positive outward, updated each step for inspection
	INa float32

	// potassium current (nA)
	IK float32

	// leak current (nA)
	IL float32

	// passive current (nA), for passive-mechanism sections
	IPas float32

	// total point-process current (nA) injected into this segment last step
	IPnt float32

	// membrane surface area (um^2)
	Area float32

	// membrane capacitance (nF)
	Cap float32
}

// SegmentVars are the segment variable names accessible via VarByName
var SegmentVars = []string{"Vm", "M", "H", "N", "INa", "IK", "IL", "IPas", "IPnt"}

// VarByName returns the value of the segment variable with given name,
// error if name is unknown
func (sg *Segment) VarByName(varNm string) (float32, error) {
	switch varNm {
	case "Vm":
		return sg.Vm, nil
	case "M":
		return sg.M, nil
	case "H":
		return sg.H, nil
	case "N":
		return sg.N, nil
	case "INa":
		return sg.INa, nil
	case "IK":
		return sg.IK, nil
	case "IL":
		return sg.IL, nil
	case "IPas":
		return sg.IPas, nil
	case "IPnt":
		return sg.IPnt, nil
	}
	return math32.NaN(), fmt.Errorf("segment variable named: %s not found", varNm)
}

// cable.Section is an unbranched cylinder of membrane discretized into
// Nseg equal compartments, with optional active (HH) and passive
// mechanisms.  Sections connect into a tree: each non-root section
// attaches its 0 end to a normalized position on its parent.
type Section struct {

	// name of the section, e.g., "soma", "dend" -- must be unique within a cell
	Name string

	// length of the section (um)
	L float32

	// diameter of the section (um)
	Diam float32

	// axial resistivity (ohm-cm)
	Ra float32 `def:"35.4"`

	// specific membrane capacitance (uF/cm^2)
	Cm float32 `def:"1"`

	// number of compartments -- odd numbers keep a well-defined midpoint
	Nseg int `def:"1"`

	// install the Hodgkin-Huxley mechanism in all segments of this section
	HH bool

	// Hodgkin-Huxley channel parameters, used if HH is set
	HHP chans.HHParams

	// install the passive mechanism in all segments of this section
	Pas bool

	// passive channel parameters, used if Pas is set
	PasP chans.PasParams

	// compartment state, allocated by Cell.Build
	Segs []Segment

	// parent section -- nil for the root section
	Parent *Section

	// normalized position on the parent where this section attaches (0..1)
	ParentX float32

	// index of this section's first segment in the cell-wide ordering
	SegOff int `edit:"-"`
}

// NewSection returns a new section with given name and defaults
func NewSection(name string) *Section {
	sc := &Section{Name: name}
	sc.Defaults()
	return sc
}

// Defaults sets default geometry and mechanism parameters
func (sc *Section) Defaults() {
	sc.Ra = 35.4
	sc.Cm = 1
	sc.Nseg = 1
	sc.HHP.Defaults()
	sc.PasP.Defaults()
}

// Connect attaches the 0 end of this section to position x (0..1) on parent
func (sc *Section) Connect(parent *Section, x float32) {
	sc.Parent = parent
	sc.ParentX = x
}

// SegIndex returns the local segment index for normalized position x (0..1),
// mapping x to the segment whose center region contains it.
func (sc *Section) SegIndex(x float32) int {
	if x >= 1 {
		return sc.Nseg - 1
	}
	if x < 0 {
		x = 0
	}
	i := int(x * float32(sc.Nseg))
	if i >= sc.Nseg {
		i = sc.Nseg - 1
	}
	return i
}

// Seg returns the segment at normalized position x (0..1)
func (sc *Section) Seg(x float32) *Segment {
	return &sc.Segs[sc.SegIndex(x)]
}

// SegVals returns the values of the named segment variable across all
// segments of this section, in order from the 0 end to the 1 end.
func (sc *Section) SegVals(varNm string) ([]float32, error) {
	vals := make([]float32, len(sc.Segs))
	for i := range sc.Segs {
		v, err := sc.Segs[i].VarByName(varNm)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// segment geometry, all per-segment:
// area (um^2) is the cylinder side wall pi * diam * dx.
// halfAxialMOhm is the axial resistance (MOhm) from a segment center to
// the segment boundary, the building block for inter-segment coupling.

func (sc *Section) segLen() float32 {
	return sc.L / float32(sc.Nseg)
}

func (sc *Section) segArea() float32 {
	return math32.Pi * sc.Diam * sc.segLen()
}

func (sc *Section) halfAxialMOhm() float32 {
	dxCm := 0.5 * sc.segLen() * 1e-4
	crossCm2 := 0.25 * math32.Pi * sc.Diam * sc.Diam * 1e-8
	return sc.Ra * dxCm / crossCm2 * 1e-6
}
