// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cable

import "fmt"

// PointProc is a point process (synapse, current clamp) attached to one
// segment of a cell.  Its membrane current is folded into the implicit
// voltage solve in linearized form: I = G*Vm - Inj, with G in uS and
// Inj in nA, so that uS * mV = nA units work out.
type PointProc interface {
	// Seg returns the cell-wide segment index this process is attached to
	Seg() int

	// Current returns the conductance (uS) and driving current (nA)
	// contributions for the solve, given the pre-step membrane potential.
	Current(tm *Time, vm float32) (g, inj float32)

	// Step advances any internal state by one timestep, after the solve
	Step(tm *Time)

	// Init resets internal state to initial conditions
	Init()
}

// cable.Cell is a tree of connected sections integrated as one implicit
// system.  Sections must be added parent-first: Build orders segments so
// that every segment's parent has a lower index, which is what lets the
// tree system be solved by a single forward elimination and back
// substitution pass (Hines ordering).
type Cell struct {

	// name of the cell, used in error messages and recording
	Name string

	// sections in the cell, in the order added
	Secs []*Section

	// initial membrane potential (mV), applied by Init to all segments
	VInit float32 `def:"-65"`

	// point processes attached to segments of this cell
	Points []PointProc

	// total number of segments across all sections, set by Build
	NSegTot int `edit:"-"`

	// cell-wide parent segment index per segment, -1 for the root segment
	parent []int

	// axial coupling conductance (uS) between each segment and its parent
	gpar []float32

	// flat segment pointers in cell-wide order, built by Build
	segs []*Segment

	// solver scratch
	diag []float32
	rhs  []float32

	built bool
}

// NewCell returns a new cell with given name and defaults
func NewCell(name string) *Cell {
	cl := &Cell{Name: name}
	cl.Defaults()
	return cl
}

// Defaults sets default parameters
func (cl *Cell) Defaults() {
	cl.VInit = -65
}

// AddSection adds a section to the cell.  The first section added is the
// root; subsequent sections must Connect to an earlier section before Build.
func (cl *Cell) AddSection(sc *Section) *Section {
	cl.Secs = append(cl.Secs, sc)
	return sc
}

// SectionByName returns the section with given name, nil if not found
func (cl *Cell) SectionByName(name string) *Section {
	for _, sc := range cl.Secs {
		if sc.Name == name {
			return sc
		}
	}
	return nil
}

// AttachPoint attaches a point process to the cell
func (cl *Cell) AttachPoint(pp PointProc) {
	cl.Points = append(cl.Points, pp)
}

// GlobalSeg returns the cell-wide segment index for position x on section
func (cl *Cell) GlobalSeg(sc *Section, x float32) int {
	return sc.SegOff + sc.SegIndex(x)
}

// SegByIndex returns the segment at given cell-wide index
func (cl *Cell) SegByIndex(gi int) *Segment {
	return cl.segs[gi]
}

// Build allocates segments and computes the segment tree topology and
// coupling conductances.  Returns an error if a non-root section has no
// parent, a parent appears after its child, or geometry is degenerate.
func (cl *Cell) Build() error {
	n := 0
	for si, sc := range cl.Secs {
		if sc.Nseg < 1 {
			return fmt.Errorf("cell %s section %s: Nseg must be >= 1, got %d", cl.Name, sc.Name, sc.Nseg)
		}
		if sc.L <= 0 || sc.Diam <= 0 {
			return fmt.Errorf("cell %s section %s: L and Diam must be positive", cl.Name, sc.Name)
		}
		if si == 0 {
			if sc.Parent != nil {
				return fmt.Errorf("cell %s: root section %s cannot have a parent", cl.Name, sc.Name)
			}
		} else if sc.Parent == nil {
			return fmt.Errorf("cell %s section %s: not connected to a parent", cl.Name, sc.Name)
		}
		sc.SegOff = n
		n += sc.Nseg
	}
	cl.NSegTot = n
	cl.parent = make([]int, n)
	cl.gpar = make([]float32, n)
	cl.segs = make([]*Segment, n)
	cl.diag = make([]float32, n)
	cl.rhs = make([]float32, n)

	for _, sc := range cl.Secs {
		sc.Segs = make([]Segment, sc.Nseg)
		area := sc.segArea()
		capNF := sc.Cm * area * 1e-8 * 1e3
		for i := range sc.Segs {
			sg := &sc.Segs[i]
			sg.Area = area
			sg.Cap = capNF
			gi := sc.SegOff + i
			cl.segs[gi] = sg
			if i > 0 {
				cl.parent[gi] = gi - 1
				cl.gpar[gi] = 1 / (2 * sc.halfAxialMOhm())
			} else if sc.Parent != nil {
				pi := cl.GlobalSeg(sc.Parent, sc.ParentX)
				if pi >= gi {
					return fmt.Errorf("cell %s section %s: parent section %s must be added first", cl.Name, sc.Name, sc.Parent.Name)
				}
				cl.parent[gi] = pi
				cl.gpar[gi] = 1 / (sc.halfAxialMOhm() + sc.Parent.halfAxialMOhm())
			} else {
				cl.parent[gi] = -1
			}
		}
	}
	cl.built = true
	return nil
}

// Init sets all segments to the initial membrane potential with gates at
// steady state, and resets point processes.  Build must have been called.
func (cl *Cell) Init() {
	for _, sc := range cl.Secs {
		for i := range sc.Segs {
			sg := &sc.Segs[i]
			sg.Vm = cl.VInit
			sg.INa, sg.IK, sg.IL, sg.IPas, sg.IPnt = 0, 0, 0, 0, 0
			if sc.HH {
				sg.InitSteady(cl.VInit)
			}
		}
	}
	for _, pp := range cl.Points {
		pp.Init()
	}
}

// Step advances the cell state by one timestep: gating variables advance
// by exponential Euler at the pre-step voltage, then all segment voltages
// are solved together by backward Euler on the coupled cable system.
func (cl *Cell) Step(tm *Time) {
	if !cl.built {
		return
	}
	dt := tm.Dt

	// assemble: diag*Vnew - sum over tree couplings = rhs
	for _, sc := range cl.Secs {
		areaFac := sc.segArea() * 1e-8 * 1e6 // S/cm^2 -> uS per segment
		for i := range sc.Segs {
			sg := &sc.Segs[i]
			gi := sc.SegOff + i
			cl.diag[gi] = sg.Cap / dt
			cl.rhs[gi] = sg.Cap / dt * sg.Vm
			if sc.HH {
				sg.GateState.Step(sg.Vm, dt)
				gna := sc.HHP.GNa(sg.M, sg.H) * areaFac
				gk := sc.HHP.GK(sg.N) * areaFac
				gl := sc.HHP.GbarL * areaFac
				cl.diag[gi] += gna + gk + gl
				cl.rhs[gi] += gna*sc.HHP.ENa + gk*sc.HHP.EK + gl*sc.HHP.EL
			}
			if sc.Pas {
				gp := sc.PasP.G * areaFac
				cl.diag[gi] += gp
				cl.rhs[gi] += gp * sc.PasP.E
			}
		}
	}
	for _, pp := range cl.Points {
		gi := pp.Seg()
		sg := cl.SegByIndex(gi)
		g, inj := pp.Current(tm, sg.Vm)
		cl.diag[gi] += g
		cl.rhs[gi] += inj
	}
	for i := 0; i < cl.NSegTot; i++ {
		if p := cl.parent[i]; p >= 0 {
			cl.diag[i] += cl.gpar[i]
			cl.diag[p] += cl.gpar[i]
		}
	}

	// Hines solve: eliminate children into parents, then substitute back
	for i := cl.NSegTot - 1; i >= 1; i-- {
		p := cl.parent[i]
		f := cl.gpar[i] / cl.diag[i]
		cl.diag[p] -= f * cl.gpar[i]
		cl.rhs[p] += f * cl.rhs[i]
	}
	vnew := cl.rhs[0] / cl.diag[0]
	cl.setVm(0, vnew)
	for i := 1; i < cl.NSegTot; i++ {
		pv := cl.SegByIndex(cl.parent[i]).Vm
		cl.setVm(i, (cl.rhs[i]+cl.gpar[i]*pv)/cl.diag[i])
	}

	// diagnostic currents at the new voltages, then point process state
	for _, sc := range cl.Secs {
		areaFac := sc.segArea() * 1e-8 * 1e6
		for i := range sc.Segs {
			sg := &sc.Segs[i]
			if sc.HH {
				sg.INa = sc.HHP.GNa(sg.M, sg.H) * areaFac * (sg.Vm - sc.HHP.ENa)
				sg.IK = sc.HHP.GK(sg.N) * areaFac * (sg.Vm - sc.HHP.EK)
				sg.IL = sc.HHP.GbarL * areaFac * (sg.Vm - sc.HHP.EL)
			}
			if sc.Pas {
				sg.IPas = sc.PasP.G * areaFac * (sg.Vm - sc.PasP.E)
			}
			sg.IPnt = 0
		}
	}
	for _, pp := range cl.Points {
		sg := cl.SegByIndex(pp.Seg())
		g, inj := pp.Current(tm, sg.Vm)
		sg.IPnt += inj - g*sg.Vm
		pp.Step(tm)
	}
}

func (cl *Cell) setVm(gi int, v float32) {
	cl.SegByIndex(gi).Vm = v
}
