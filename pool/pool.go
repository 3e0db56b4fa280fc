// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

package pool

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// defaultSpinBudget bounds the busy-spin phase of the event wait and the
// latch wait before parking on a condition variable.
const defaultSpinBudget = 2 * time.Millisecond

// workerInfo is the per-slot claim state for one worker. rangeLen is the
// sole coordination variable: a successful CAS decrement of rangeLen is
// paired with exactly one of a rangeStart increment (the owning worker) or
// a rangeEnd decrement (a stealer), so rangeLen == rangeEnd - rangeStart
// holds at every claim and every index is executed exactly once.
type workerInfo struct {
	// rangeStart is the head index. Only the owning worker advances it,
	// so it needs no atomicity; publication is ordered by the event word.
	rangeStart int64

	// rangeEnd is the exclusive tail index, decremented by stealers.
	rangeEnd atomic.Int64

	// rangeLen is the remaining count, claimed by CAS from any worker.
	rangeLen atomic.Int64

	// body is the indexed body for the current run, valid only while the
	// RUN command is live.
	body func(i int)

	// cpuCores is the pinned CPU set, fixed at construction.
	cpuCores []int
}

// BodyPanic carries a panic recovered from a body invocation on a worker
// thread. Run re-raises it on the submitting goroutine once all ranges
// have drained.
type BodyPanic struct {
	// Value is the value originally passed to panic.
	Value any
	// Stack is the worker's stack at recovery time.
	Stack []byte
}

func (b *BodyPanic) String() string {
	return fmt.Sprintf("pool: body panicked: %v\n%s", b.Value, b.Stack)
}

// Pool is a fixed-size worker pool evaluating indexed parallel bodies
// across CPU-pinned OS threads. Create it with New, start the workers with
// Init, and release them with Close. A zero Pool is not usable.
type Pool struct {
	log        logrus.FieldLogger
	spinBudget time.Duration

	// maxFreqs and cores are frozen at construction. cores is empty when
	// no pinning applies.
	maxFreqs []float32
	cores    []int

	tileCount int

	infos []workerInfo

	event      atomic.Uint32
	generation uint32 // submitter-only, guarded by runMu
	eventMu    sync.Mutex
	eventCond  *sync.Cond

	latch *countDownLatch

	// runMu serializes Run and Close. Workers never take it.
	runMu sync.Mutex

	failure atomic.Pointer[BodyPanic]

	wg        sync.WaitGroup
	started   bool // guarded by runMu
	closeOnce sync.Once
	closed    atomic.Bool
}

// New creates a pool with at most threadCountHint worker slots, selecting
// and pinning CPU cores according to policy. A hint <= 0 means GOMAXPROCS.
// The effective thread count is clamped to the number of known CPUs and,
// when pinning applies, to the number of chosen cores. New never fails:
// platform probe and affinity errors are logged and the pool degrades to
// unpinned operation.
//
// Slot 0 belongs to the goroutine that calls Run; the remaining slots get
// their own OS threads once Init is called.
func New(threadCountHint int, policy AffinityPolicy, opts ...Option) *Pool {
	p := &Pool{
		log:        logrus.StandardLogger(),
		spinBudget: defaultSpinBudget,
	}
	for _, o := range opts {
		o(p)
	}

	threadCount := threadCountHint
	if threadCount <= 0 {
		threadCount = runtime.GOMAXPROCS(0)
	}

	maxFreqs := p.maxFreqs
	if maxFreqs == nil {
		var err error
		maxFreqs, err = maxFreqPerCPU()
		if err != nil || len(maxFreqs) == 0 {
			// Keep going unpinned; the hint still decides the width.
			p.log.WithError(err).Error("pool: failed to read cpu max frequencies")
			maxFreqs = nil
		}
		p.maxFreqs = maxFreqs
	}
	if len(maxFreqs) > 0 && threadCount > len(maxFreqs) {
		threadCount = len(maxFreqs)
	}
	if threadCount <= 0 {
		panic("pool: thread count should be > 0")
	}

	cores := coresToUse(maxFreqs, policy, threadCount)
	if len(cores) > 0 {
		if err := setAffinity(cores); err != nil {
			p.log.WithError(err).WithField("policy", policy.String()).
				Error("pool: failed to set affinity")
		}
		if threadCount > len(cores) {
			threadCount = len(cores)
		}
		p.log.WithFields(logrus.Fields{
			"policy": policy.String(),
			"cores":  cores,
		}).Debug("pool: bound to cores")
	}
	p.cores = cores

	p.tileCount = defaultTileCount(maxFreqs, cores, threadCount)
	p.latch = newCountDownLatch(p.spinBudget)
	p.eventCond = sync.NewCond(&p.eventMu)

	p.infos = make([]workerInfo, threadCount)
	for i := range p.infos {
		p.infos[i].cpuCores = cores
	}
	p.log.WithField("threads", threadCount).Debug("pool: created")
	return p
}

// NumThreads returns the number of worker slots, including the
// submitter's slot 0.
func (p *Pool) NumThreads() int {
	return len(p.infos)
}

// DefaultTileCount returns the heuristic tile target used when a compute
// facade is called with a zero tile size.
func (p *Pool) DefaultTileCount() int {
	return p.tileCount
}

// Init starts the worker threads and blocks until every one has checked
// in. It is a no-op for single-slot pools and on repeated calls.
func (p *Pool) Init() {
	if len(p.infos) <= 1 {
		return
	}
	p.runMu.Lock()
	defer p.runMu.Unlock()
	if p.started || p.closed.Load() {
		return
	}
	p.started = true
	p.log.Debug("pool: init")

	p.latch.Reset(len(p.infos) - 1)
	p.event.Store(eventInit)
	for i := 1; i < len(p.infos); i++ {
		p.wg.Add(1)
		go p.workerLoop(i)
	}
	p.latch.Wait()
}

// Run invokes body exactly once for every i in [0, iterations), spread
// across all workers with tail stealing. It blocks until every index has
// executed. Submissions are serialized; concurrent callers queue on the
// submit mutex. If a body invocation panics, the first panic is re-raised
// here as a *BodyPanic after the remaining claims drain.
//
// On a pool that is closed or was never initialized, body runs inline on
// the caller.
func (p *Pool) Run(body func(i int), iterations int) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if len(p.infos) > 1 && (p.closed.Load() || !p.started) {
		for i := 0; i < iterations; i++ {
			body(i)
		}
		return
	}

	p.partition(body, iterations)
	p.failure.Store(nil)
	p.latch.Reset(len(p.infos) - 1)

	p.eventMu.Lock()
	p.generation++
	p.event.Store(eventWord(eventRun, p.generation))
	p.eventCond.Broadcast()
	p.eventMu.Unlock()

	p.threadRun(0)
	p.latch.Wait()

	if f := p.failure.Load(); f != nil {
		panic(f)
	}
}

// partition splits [0, iterations) into one contiguous range per slot.
// Plain stores are fine here: no worker observes the records until the
// event word is published.
func (p *Pool) partition(body func(i int), iterations int) {
	threadCount := len(p.infos)
	itersPerThread := iterations / threadCount
	remainder := iterations % threadCount

	offset := 0
	for i := range p.infos {
		info := &p.infos[i]
		count := itersPerThread
		if i < remainder {
			count++
		}
		end := min(iterations, offset+count)
		info.rangeStart = int64(offset)
		info.rangeEnd.Store(int64(end))
		info.rangeLen.Store(int64(end - offset))
		info.body = body
		offset = end
	}
}

// Close shuts the pool down: it waits out any outstanding run, tells the
// workers to exit, and joins them. Calling Close multiple times, or on a
// single-slot or never-initialized pool, is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		if len(p.infos) <= 1 {
			return
		}
		p.runMu.Lock()
		defer p.runMu.Unlock()
		if !p.started {
			return
		}
		p.log.Debug("pool: destroy")

		p.latch.Wait()
		p.eventMu.Lock()
		p.event.Store(eventShutdown)
		p.eventCond.Broadcast()
		p.eventMu.Unlock()

		p.wg.Wait()
	})
}

// workerLoop is the main loop for slots 1..T-1. The goroutine stays locked
// to its OS thread for the pool's lifetime so the affinity mask sticks;
// not unlocking on exit deliberately retires the thread.
func (p *Pool) workerLoop(tid int) {
	defer p.wg.Done()
	runtime.LockOSThread()

	if len(p.infos[tid].cpuCores) > 0 {
		if err := setAffinity(p.infos[tid].cpuCores); err != nil {
			p.log.WithError(err).WithField("tid", tid).
				Error("pool: failed to set worker affinity")
		}
	}

	last := eventNone
	for {
		ev := spinWait(&p.event, last, p.spinBudget)
		if ev == last {
			p.eventMu.Lock()
			for p.event.Load() == last {
				p.eventCond.Wait()
			}
			p.eventMu.Unlock()
		}

		ev = p.event.Load()
		switch eventCommand(ev) {
		case eventInit:
			p.latch.CountDown()

		case eventRun:
			p.threadRun(tid)
			p.latch.CountDown()

		case eventShutdown:
			return
		}

		last = ev
	}
}

// threadRun drains the worker's own range from the head, then sweeps the
// peers and steals from their tails until every range is empty.
func (p *Pool) threadRun(tid int) {
	info := &p.infos[tid]

	// do own work
	for {
		r := info.rangeLen.Load()
		if r <= 0 {
			break
		}
		if info.rangeLen.CompareAndSwap(r, r-1) {
			i := info.rangeStart
			info.rangeStart++
			p.invoke(info.body, int(i))
		}
	}

	// steal other workers' work
	threadCount := len(p.infos)
	for t := (tid + 1) % threadCount; t != tid; t = (t + 1) % threadCount {
		other := &p.infos[t]
		for {
			r := other.rangeLen.Load()
			if r <= 0 {
				break
			}
			if other.rangeLen.CompareAndSwap(r, r-1) {
				tail := other.rangeEnd.Add(-1)
				p.invoke(other.body, int(tail))
			}
		}
	}
}

// invoke runs body(i), trapping panics. After the first panic the claim
// loops keep draining so the latch still sees every count-down, but the
// body is no longer called.
func (p *Pool) invoke(body func(i int), i int) {
	if p.failure.Load() != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.failure.CompareAndSwap(nil, &BodyPanic{Value: r, Stack: debug.Stack()})
		}
	}()
	body(i)
}
