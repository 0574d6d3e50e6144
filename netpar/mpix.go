// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netpar

import (
	"github.com/emer/empi/v2/mpi"
)

// MPIExchanger runs the collectives over MPI via the empi wrappers.
// Build with -tags mpi and run under mpirun to use more than one rank;
// without the tag the empi stubs report a single rank and all
// collectives are local, so the same binary runs serially.
//
// The spike exchange pads each rank's contribution to the global
// maximum count so a fixed-size allgather can carry it: spike traffic
// per window is small, so the padding cost is negligible.
type MPIExchanger struct {

	// the world communicator
	Comm *mpi.Comm
}

// NewMPIExchanger returns an exchanger over the world communicator.
// mpi.Init must have been called first.
func NewMPIExchanger() (*MPIExchanger, error) {
	comm, err := mpi.NewComm(nil)
	if err != nil {
		return nil, err
	}
	return &MPIExchanger{Comm: comm}, nil
}

func (ex *MPIExchanger) Rank() int { return mpi.WorldRank() }

func (ex *MPIExchanger) Size() int { return mpi.WorldSize() }

func (ex *MPIExchanger) ExchangeSpikes(out []Spike) ([]Spike, error) {
	sz := ex.Size()
	if sz == 1 {
		all := make([]Spike, len(out))
		copy(all, out)
		return all, nil
	}
	counts := make([]int, sz)
	if err := ex.Comm.AllGatherInt(counts, []int{len(out)}); err != nil {
		return nil, err
	}
	nmax := 0
	ntot := 0
	for _, c := range counts {
		ntot += c
		if c > nmax {
			nmax = c
		}
	}
	if nmax == 0 {
		return nil, nil
	}
	gids := make([]int, nmax)
	times := make([]float64, nmax)
	for i, s := range out {
		gids[i] = int(s.GID)
		times[i] = float64(s.T)
	}
	agids := make([]int, sz*nmax)
	atimes := make([]float64, sz*nmax)
	if err := ex.Comm.AllGatherInt(agids, gids); err != nil {
		return nil, err
	}
	if err := ex.Comm.AllGatherF64(atimes, times); err != nil {
		return nil, err
	}
	all := make([]Spike, 0, ntot)
	for r := 0; r < sz; r++ {
		off := r * nmax
		for i := 0; i < counts[r]; i++ {
			all = append(all, Spike{GID: int32(agids[off+i]), T: float32(atimes[off+i])})
		}
	}
	return all, nil
}

func (ex *MPIExchanger) AllMinF32(v float32) (float32, error) {
	if ex.Size() == 1 {
		return v, nil
	}
	dst := make([]float32, 1)
	if err := ex.Comm.AllReduceF32(mpi.OpMin, dst, []float32{v}); err != nil {
		return 0, err
	}
	return dst[0], nil
}

func (ex *MPIExchanger) Barrier() error {
	if ex.Size() == 1 {
		return nil
	}
	return ex.Comm.Barrier()
}
