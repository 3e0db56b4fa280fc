// Copyright 2025 The go-tilepool Authors. SPDX-License-Identifier: Apache-2.0

// Package algo provides data-parallel slice algorithms built on the pool's
// compute facades. Each entry point falls back to sequential execution
// when given a nil pool, so callers can thread an optional pool through
// without branching.
package algo

import (
	"github.com/ajroetker/go-tilepool/pool"
	"github.com/ajroetker/go-tilepool/pool/contrib/kernels"
)

// Transform applies fn to each element of input, storing results in
// output. Only min(len(input), len(output)) elements are processed.
// costPerItem hints the relative cost of one fn call; 0 is treated as
// cheap scalar work.
func Transform[T kernels.Floats](p *pool.Pool, input, output []T, fn func(T) T, costPerItem int) {
	n := min(len(input), len(output))
	if n == 0 {
		return
	}
	if p == nil {
		for i := 0; i < n; i++ {
			output[i] = fn(input[i])
		}
		return
	}
	if costPerItem <= 0 {
		costPerItem = 1
	}
	p.Compute1D(func(start, end, step int) {
		for i := start; i < end; i += step {
			output[i] = fn(input[i])
		}
	}, 0, n, 1, 0, costPerItem)
}

// ApplyRows applies fn to each row of a [rows, cols] matrix stored as a
// flat slice. fn receives the input and output slices for a single row.
func ApplyRows[T kernels.Floats](p *pool.Pool, input, output []T, rows, cols int, fn func(input, output []T)) {
	if rows <= 0 || cols <= 0 {
		return
	}
	if p == nil {
		for r := 0; r < rows; r++ {
			off := r * cols
			fn(input[off:off+cols], output[off:off+cols])
		}
		return
	}
	p.Compute1D(func(start, end, step int) {
		for r := start; r < end; r += step {
			off := r * cols
			fn(input[off:off+cols], output[off:off+cols])
		}
	}, 0, rows, 1, 0, cols)
}
