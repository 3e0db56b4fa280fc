// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

package pool

import (
	"runtime"
	"sync/atomic"
	"time"
)

// The event word broadcasts the dispatcher's current command to the worker
// threads. The low eventCommandBits carry the command; the remaining upper
// bits carry a generation counter that the submitter bumps on every RUN, so
// a worker that already handled one RUN can tell a subsequent RUN apart
// even though the command bits are identical. The generation wraps; it only
// ever needs to differ from the previously observed value.
const (
	eventNone     uint32 = 0
	eventInit     uint32 = 1
	eventRun      uint32 = 2
	eventShutdown uint32 = 4

	eventCommandBits = 3
	eventCommandMask = 1<<eventCommandBits - 1
)

// eventWord packs a command and a generation into a single event value.
func eventWord(command uint32, generation uint32) uint32 {
	return command | generation<<eventCommandBits
}

// eventCommand extracts the command from an event value.
func eventCommand(event uint32) uint32 {
	return event & eventCommandMask
}

// spinBatch is how many loads happen between deadline checks and yields.
// Reading the clock on every iteration would dominate the spin.
const spinBatch = 64

// spinWait polls word until it no longer equals last or budget elapses,
// yielding the processor between batches. It returns the last value read,
// which still equals last if the budget ran out.
func spinWait(word *atomic.Uint32, last uint32, budget time.Duration) uint32 {
	start := time.Now()
	for {
		for i := 0; i < spinBatch; i++ {
			if v := word.Load(); v != last {
				return v
			}
		}
		if time.Since(start) >= budget {
			return word.Load()
		}
		runtime.Gosched()
	}
}
