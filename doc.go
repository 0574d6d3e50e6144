// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package gonrn implements conductance-based multicompartment neuron models
and parallel spiking-network simulation in the Go language (golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* chans: Hodgkin-Huxley and passive membrane channel parameters and
gating kinetics.

* cable: sections, segments, and the implicit (backward Euler) cable
equation solver that integrates the voltages of a compartmental cell.

* cells: point processes (ExpSyn, IClamp, NetStim) and the standard
ball-and-stick cell model built from cable sections.

* netpar: global cell identifiers (GIDs), synaptic event queue, and the
parallel context that partitions cells across ranks, bounds integration
by the minimum synaptic delay, and exchanges spikes all-to-all at each
window boundary.  Runs single-process or over MPI.

* ring: the classic ring network of ball-and-stick cells, with round-robin
GID distribution, spike recording, and gather of the merged spike raster.

* nbconv: converts Jupyter notebooks into standalone HTML plus RST
stubs and an index, for documentation publishing (see cmd/nbdocs).

* examples: these compile into runnable programs -- examples/ring is the
place to start, running the ring network serially or across MPI ranks.
*/
package gonrn
