// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cable

import (
	"testing"

	"cogentcore.org/core/math32"
)

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

// constClamp is a minimal test point process injecting a constant current
type constClamp struct {
	seg int
	amp float32 // nA
}

func (cc *constClamp) Seg() int                                     { return cc.seg }
func (cc *constClamp) Current(tm *Time, vm float32) (g, i float32)  { return 0, cc.amp }
func (cc *constClamp) Step(tm *Time)                                {}
func (cc *constClamp) Init()                                        {}

func makePasCell(t *testing.T, nseg int) *Cell {
	cl := NewCell("pas")
	sc := NewSection("dend")
	sc.L = 100
	sc.Diam = 10
	sc.Nseg = nseg
	sc.Pas = true
	cl.AddSection(sc)
	if err := cl.Build(); err != nil {
		t.Fatal(err)
	}
	cl.Init()
	return cl
}

func TestPassiveExactStep(t *testing.T) {
	// a single passive compartment must reproduce the backward Euler
	// recurrence V' = (C/dt*V + g*E) / (C/dt + g) exactly
	cl := makePasCell(t, 1)
	sc := cl.Secs[0]
	cl.VInit = -20
	cl.Init()

	area := math32.Pi * sc.Diam * sc.L * 1e-8 // cm^2
	cap := sc.Cm * area * 1e3                 // nF
	g := sc.PasP.G * area * 1e6               // uS

	tm := NewTime()
	v := float32(-20)
	for i := 0; i < 200; i++ {
		cl.Step(tm)
		tm.StepInc()
		v = (cap/tm.Dt*v + g*sc.PasP.E) / (cap/tm.Dt + g)
		CmprFloats([]float32{sc.Segs[0].Vm}, []float32{v}, "passive recurrence", t)
	}
}

func TestPassiveTimeConstant(t *testing.T) {
	// g = 0.001 S/cm^2, cm = 1 uF/cm^2 gives tau = 1 ms: after 1 ms the
	// deviation from rest should be ~1/e of the initial deviation
	cl := makePasCell(t, 1)
	sc := cl.Secs[0]
	cl.VInit = sc.PasP.E + 10
	cl.Init()

	tm := NewTime()
	nst := tm.StepsPer(1)
	for i := 0; i < nst; i++ {
		cl.Step(tm)
		tm.StepInc()
	}
	dev := (sc.Segs[0].Vm - sc.PasP.E) / 10
	if math32.Abs(dev-1/math32.E) > 0.01 {
		t.Errorf("passive tau: deviation after 1 tau: got %v, want ~%v", dev, 1/math32.E)
	}
}

func TestAxialSpread(t *testing.T) {
	// current injected at the 0 end must depolarize monotonically less
	// along the cable, and all segments must settle between E and the
	// injected-end voltage
	cl := makePasCell(t, 5)
	sc := cl.Secs[0]
	cl.AttachPoint(&constClamp{seg: 0, amp: 0.5})
	cl.Init()

	tm := NewTime()
	for i := 0; i < 4000; i++ {
		cl.Step(tm)
		tm.StepInc()
	}
	for i := 1; i < sc.Nseg; i++ {
		if sc.Segs[i].Vm >= sc.Segs[i-1].Vm {
			t.Errorf("axial spread not monotonic at seg %d: %v >= %v", i, sc.Segs[i].Vm, sc.Segs[i-1].Vm)
		}
	}
	if sc.Segs[0].Vm <= sc.PasP.E {
		t.Errorf("injected segment not depolarized: %v", sc.Segs[0].Vm)
	}
}

func TestHHRestingStable(t *testing.T) {
	// an unperturbed HH compartment initialized at -65 must stay near rest
	cl := NewCell("hh")
	sc := NewSection("soma")
	sc.L = 12.6157
	sc.Diam = 12.6157
	sc.HH = true
	cl.AddSection(sc)
	if err := cl.Build(); err != nil {
		t.Fatal(err)
	}
	cl.Init()

	tm := NewTime()
	for i := 0; i < 2000; i++ { // 50 ms
		cl.Step(tm)
		tm.StepInc()
	}
	if math32.Abs(sc.Segs[0].Vm+65) > 2 {
		t.Errorf("HH resting potential drifted: %v", sc.Segs[0].Vm)
	}
}

func TestHHSpike(t *testing.T) {
	// a strong current pulse into an HH compartment must produce a spike
	// overshooting 0 mV, followed by repolarization below rest
	cl := NewCell("hh")
	sc := NewSection("soma")
	sc.L = 12.6157
	sc.Diam = 12.6157
	sc.HH = true
	cl.AddSection(sc)
	cl.AttachPoint(&constClamp{seg: 0, amp: 0.3})
	if err := cl.Build(); err != nil {
		t.Fatal(err)
	}
	cl.Init()

	tm := NewTime()
	peak := float32(-100)
	trough := float32(100)
	for i := 0; i < 2000; i++ { // 50 ms
		cl.Step(tm)
		tm.StepInc()
		v := sc.Segs[0].Vm
		if v > peak {
			peak = v
		}
		if peak > 0 && v < trough {
			trough = v
		}
	}
	if peak < 0 {
		t.Errorf("no spike: peak Vm %v", peak)
	}
	if trough > -50 {
		t.Errorf("no repolarization after spike: trough Vm %v", trough)
	}
}

func TestBuildErrors(t *testing.T) {
	cl := NewCell("bad")
	soma := NewSection("soma")
	soma.L, soma.Diam = 10, 10
	cl.AddSection(soma)
	dend := NewSection("dend")
	dend.L, dend.Diam = 100, 1
	cl.AddSection(dend) // not connected
	if err := cl.Build(); err == nil {
		t.Errorf("expected error for unconnected section")
	}

	cl2 := NewCell("bad2")
	sc := NewSection("soma")
	sc.L, sc.Diam = 10, 10
	sc.Nseg = 0
	cl2.AddSection(sc)
	if err := cl2.Build(); err == nil {
		t.Errorf("expected error for Nseg < 1")
	}
}

func TestVarByName(t *testing.T) {
	cl := makePasCell(t, 1)
	sg := &cl.Secs[0].Segs[0]
	v, err := sg.VarByName("Vm")
	if err != nil {
		t.Fatal(err)
	}
	CmprFloats([]float32{v}, []float32{-65}, "Vm by name", t)
	if _, err := sg.VarByName("NoSuchVar"); err == nil {
		t.Errorf("expected error for unknown variable")
	}
}
