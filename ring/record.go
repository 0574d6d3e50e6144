// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ring

import (
	"fmt"

	"cogentcore.org/core/core"
	"cogentcore.org/core/tensor/table"
	"github.com/neuronsimulator/gonrn/cable"
	"github.com/neuronsimulator/gonrn/cells"
	"github.com/neuronsimulator/gonrn/netpar"
)

// RasterTable returns the spike raster as a table with Time and GID
// columns, one row per spike.
func RasterTable(ras []netpar.Spike) *table.Table {
	dt := &table.Table{}
	dt.SetMetaData("name", "SpikeRaster")
	dt.SetMetaData("desc", "spike times by cell gid")
	dt.AddFloat64Column("Time")
	dt.AddFloat64Column("GID")
	dt.SetNumRows(len(ras))
	for i, spk := range ras {
		dt.SetFloat("Time", i, float64(spk.T))
		dt.SetFloat("GID", i, float64(spk.GID))
	}
	return dt
}

// SaveRaster writes the spike raster to a TSV file
func SaveRaster(ras []netpar.Spike, fnm string) error {
	dt := RasterTable(ras)
	return dt.SaveCSV(core.Filename(fnm), table.Tab, table.Headers)
}

// VmRecorder samples the soma potential of one local cell every
// timestep, for voltage trace plots.
type VmRecorder struct {

	// the gid of the recorded cell
	GID int

	// sampled times (ms)
	Times []float32

	// sampled soma potentials (mV)
	Vms []float32

	cell *cells.BallAndStick
}

// RecordVm attaches a soma voltage recorder to the given local cell.
// Returns nil if this rank does not own the gid.
func (rg *Ring) RecordVm(gid int) *VmRecorder {
	cell, ok := rg.Cells[gid]
	if !ok {
		return nil
	}
	vr := &VmRecorder{GID: gid, cell: cell}
	rg.PC.AddCell(vr)
	return vr
}

// Advance samples after the cell has integrated; recorders are added
// after cells so ordering holds within the timestep.
func (vr *VmRecorder) Advance(tm *cable.Time) {
	vr.Times = append(vr.Times, tm.T)
	vr.Vms = append(vr.Vms, vr.cell.SomaV())
}

// Table returns the recorded voltage trace as a table
func (vr *VmRecorder) Table() *table.Table {
	dt := &table.Table{}
	dt.SetMetaData("name", fmt.Sprintf("Vm_%d", vr.GID))
	dt.AddFloat64Column("Time")
	dt.AddFloat64Column("Vm")
	dt.SetNumRows(len(vr.Times))
	for i := range vr.Times {
		dt.SetFloat("Time", i, float64(vr.Times[i]))
		dt.SetFloat("Vm", i, float64(vr.Vms[i]))
	}
	return dt
}

// Save writes the voltage trace to a TSV file
func (vr *VmRecorder) Save(fnm string) error {
	return vr.Table().SaveCSV(core.Filename(fnm), table.Tab, table.Headers)
}
