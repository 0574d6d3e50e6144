// Copyright (c) 2025, The GoNrn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netpar

import "container/heap"

// event is one pending synaptic delivery
type event struct {
	t   float32 // delivery time (ms)
	ord int64   // insertion order, breaks ties first-in first-out
	nc  *NetCon
}

type eventHeap []event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].t != h[j].t {
		return h[i].t < h[j].t
	}
	return h[i].ord < h[j].ord
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(event)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	*h = old[:n-1]
	return ev
}

// eventQueue is the pending-delivery priority queue for one rank
type eventQueue struct {
	h   eventHeap
	ord int64
}

// push enqueues a delivery at time t
func (q *eventQueue) push(t float32, nc *NetCon) {
	q.ord++
	heap.Push(&q.h, event{t: t, ord: q.ord, nc: nc})
}

// popDue removes and returns the earliest event due at or before the
// given time, false if none
func (q *eventQueue) popDue(due float32) (event, bool) {
	if len(q.h) == 0 || q.h[0].t > due {
		return event{}, false
	}
	return heap.Pop(&q.h).(event), true
}

// len returns the number of pending events
func (q *eventQueue) len() int { return len(q.h) }
