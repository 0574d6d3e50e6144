// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netpar

import (
	"fmt"
	"sort"

	"github.com/emer/emergent/v2/timer"
)

// FunTimerStart starts function timer for given function name -- ensures creation of timer
func (pc *ParallelContext) FunTimerStart(fun string) {
	if !pc.RecFunTimes {
		return
	}
	ft, ok := pc.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		pc.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (pc *ParallelContext) FunTimerStop(fun string) {
	if !pc.RecFunTimes {
		return
	}
	pc.FunTimes[fun].Stop()
}

// TimerReport reports the amount of time spent in each phase of Psolve
func (pc *ParallelContext) TimerReport() {
	fmt.Printf("TimerReport: rank %d of %d\n", pc.Rank(), pc.NHost())
	fmt.Printf("\tFunction Name\tTotal Secs\tPct\n")
	nfn := len(pc.FunTimes)
	fnms := make([]string, nfn)
	idx := 0
	for k := range pc.FunTimes {
		fnms[idx] = k
		idx++
	}
	sort.StringSlice(fnms).Sort()
	pcts := make([]float64, nfn)
	tot := 0.0
	for i, fn := range fnms {
		pcts[i] = pc.FunTimes[fn].TotalSecs()
		tot += pcts[i]
	}
	for i, fn := range fnms {
		fmt.Printf("\t%v \t%7.3f\t%7.1f\n", fn, pcts[i], 100*(pcts[i]/tot))
	}
	fmt.Printf("\tTotal   \t%7.3f\n", tot)
}

// TimerReset resets all function timers
func (pc *ParallelContext) TimerReset() {
	for _, ft := range pc.FunTimes {
		ft.Reset()
	}
}
