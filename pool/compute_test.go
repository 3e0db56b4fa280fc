// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

package pool

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestCompute1DInlineOnSingleThread(t *testing.T) {
	p := New(1, AffinityNone, WithMaxFreqs(homogeneousFreqs(8)), WithLogger(quietLogger()))
	defer p.Close()

	var calls [][3]int
	p.Compute1D(func(start, end, step int) {
		calls = append(calls, [3]int{start, end, step})
	}, 0, 1000, 1, 0, 1)

	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1 inline call", len(calls))
	}
	if calls[0] != [3]int{0, 1000, 1} {
		t.Errorf("inline call = %v, want (0, 1000, 1)", calls[0])
	}
}

func TestCompute1DInlineOnCheapWork(t *testing.T) {
	p := newTestPool(t, 4)

	// 10 items at cost 1 is far below the dispatch threshold.
	var calls atomic.Int32
	p.Compute1D(func(start, end, step int) {
		calls.Add(1)
		if start != 0 || end != 10 || step != 1 {
			t.Errorf("inline call = (%d, %d, %d), want (0, 10, 1)", start, end, step)
		}
	}, 0, 10, 1, 0, 1)

	if got := calls.Load(); got != 1 {
		t.Errorf("got %d calls, want 1", got)
	}
}

func TestCompute1DEmptyRange(t *testing.T) {
	p := newTestPool(t, 4)

	called := false
	p.Compute1D(func(start, end, step int) {
		called = true
	}, 5, 5, 1, 0, -1)
	if called {
		t.Error("empty range should not invoke the body")
	}
}

// coverage1D runs Compute1D and returns how many times each strided item
// was visited.
func coverage1D(p *Pool, start, end, step, tileSize, cost int) map[int]int {
	var mu sync.Mutex
	visits := make(map[int]int)
	p.Compute1D(func(tileStart, tileEnd, tileStep int) {
		mu.Lock()
		defer mu.Unlock()
		for i := tileStart; i < tileEnd; i += tileStep {
			visits[i]++
		}
	}, start, end, step, tileSize, cost)
	return visits
}

func TestCompute1DCoverage(t *testing.T) {
	p := newTestPool(t, 4)

	for _, tc := range []struct {
		start, end, step, tileSize int
	}{
		{0, 100, 1, 0},
		{0, 100, 1, 7},
		{3, 100, 7, 0},
		{3, 100, 7, 3},
		{0, 1, 1, 0},
	} {
		visits := coverage1D(p, tc.start, tc.end, tc.step, tc.tileSize, -1)

		want := 0
		for i := tc.start; i < tc.end; i += tc.step {
			want++
			if visits[i] != 1 {
				t.Errorf("%+v: item %d visited %d times, want 1", tc, i, visits[i])
			}
		}
		if len(visits) != want {
			t.Errorf("%+v: visited %d distinct items, want %d", tc, len(visits), want)
		}
	}
}

func TestCompute2DCoverage(t *testing.T) {
	p := newTestPool(t, 4)

	const (
		start0, end0, step0 = 0, 30, 2
		start1, end1, step1 = 1, 45, 3
	)
	var mu sync.Mutex
	visits := make(map[[2]int]int)

	p.Compute2D(func(s0, e0, st0, s1, e1, st1 int) {
		mu.Lock()
		defer mu.Unlock()
		for i := s0; i < e0; i += st0 {
			for j := s1; j < e1; j += st1 {
				visits[[2]int{i, j}]++
			}
		}
	}, start0, end0, step0, start1, end1, step1, 4, 5, -1)

	want := 0
	for i := start0; i < end0; i += step0 {
		for j := start1; j < end1; j += step1 {
			want++
			if visits[[2]int{i, j}] != 1 {
				t.Errorf("cell (%d, %d) visited %d times, want 1", i, j, visits[[2]int{i, j}])
			}
		}
	}
	if len(visits) != want {
		t.Errorf("visited %d distinct cells, want %d", len(visits), want)
	}
}

func TestCompute2DEmptyAxis(t *testing.T) {
	p := newTestPool(t, 4)

	called := false
	p.Compute2D(func(_, _, _, _, _, _ int) {
		called = true
	}, 0, 10, 1, 4, 4, 1, 0, 0, -1)
	if called {
		t.Error("empty inner axis should not invoke the body")
	}
}

func TestCompute3DCoverage(t *testing.T) {
	p := newTestPool(t, 4)

	const (
		d0, d1, d2 = 12, 9, 14
	)
	var mu sync.Mutex
	visits := make(map[[3]int]int)

	p.Compute3D(func(s0, e0, st0, s1, e1, st1, s2, e2, st2 int) {
		mu.Lock()
		defer mu.Unlock()
		for i := s0; i < e0; i += st0 {
			for j := s1; j < e1; j += st1 {
				for k := s2; k < e2; k += st2 {
					visits[[3]int{i, j, k}]++
				}
			}
		}
	}, 0, d0, 1, 0, d1, 1, 0, d2, 2, 5, 2, 3, -1)

	want := 0
	for i := 0; i < d0; i++ {
		for j := 0; j < d1; j++ {
			for k := 0; k < d2; k += 2 {
				want++
				if visits[[3]int{i, j, k}] != 1 {
					t.Errorf("cell (%d, %d, %d) visited %d times, want 1",
						i, j, k, visits[[3]int{i, j, k}])
				}
			}
		}
	}
	if len(visits) != want {
		t.Errorf("visited %d distinct cells, want %d", len(visits), want)
	}
}

func TestCompute3DEmptyInnerAxis(t *testing.T) {
	p := newTestPool(t, 4)

	called := false
	p.Compute3D(func(_, _, _, _, _, _, _, _, _ int) {
		called = true
	}, 0, 10, 1, 0, 10, 1, 5, 5, 1, 0, 0, 0, -1)
	if called {
		t.Error("empty axis 2 should not invoke the body")
	}
}

func TestCompute3DShortMiddleAxis(t *testing.T) {
	p := newTestPool(t, 4)

	// axis 2 starts beyond end1; only the axis-2 bound matters for it.
	var cells atomic.Int64
	p.Compute3D(func(s0, e0, st0, s1, e1, st1, s2, e2, st2 int) {
		n := int64(0)
		for i := s0; i < e0; i += st0 {
			for j := s1; j < e1; j += st1 {
				for k := s2; k < e2; k += st2 {
					n++
				}
			}
		}
		cells.Add(n)
	}, 0, 4, 1, 0, 2, 1, 3, 10, 1, 0, 0, 0, -1)

	if got := cells.Load(); got != 4*2*7 {
		t.Errorf("covered %d cells, want %d", got, 4*2*7)
	}
}

func TestComputeDefaultTileTarget(t *testing.T) {
	p := newTestPool(t, 4)
	if got := p.DefaultTileCount(); got != 4 {
		t.Errorf("DefaultTileCount() = %d, want 4 on homogeneous cores", got)
	}
}

func BenchmarkCompute1D(b *testing.B) {
	p := New(0, AffinityNone, WithMaxFreqs(homogeneousFreqs(64)), WithLogger(quietLogger()))
	p.Init()
	defer p.Close()

	data := make([]float32, 1<<16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Compute1D(func(start, end, step int) {
			for j := start; j < end; j += step {
				data[j] = data[j]*0.5 + 1
			}
		}, 0, len(data), 1, 0, 1)
	}
}
